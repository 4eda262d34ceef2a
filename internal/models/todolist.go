package models

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

const DefaultListColor = "#007bff"

type ListStatus string

const (
	ListActive    ListStatus = "active"
	ListCompleted ListStatus = "completed"
	ListArchived  ListStatus = "archived"
)

func (s ListStatus) Valid() bool {
	switch s {
	case ListActive, ListCompleted, ListArchived:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TodoItem is owned by its TodoList; its id is unique within that list only.
type TodoItem struct {
	ID        string     `firestore:"id" bson:"id" json:"id"`
	Text      string     `firestore:"text" bson:"text" json:"text"`
	Completed bool       `firestore:"completed" bson:"completed" json:"completed"`
	Priority  Priority   `firestore:"priority" bson:"priority" json:"priority"`
	DueDate   *time.Time `firestore:"dueDate,omitempty" bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Notes     string     `firestore:"notes" bson:"notes" json:"notes"`
	CreatedAt time.Time  `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `firestore:"updatedAt" bson:"updatedAt" json:"updatedAt"`
}

// TodoList represents an ordered list of todo items
type TodoList struct {
	ID          string     `firestore:"id" bson:"_id" json:"id"`
	Title       string     `firestore:"title" bson:"title" json:"title"`
	Description string     `firestore:"description" bson:"description" json:"description"`
	Color       string     `firestore:"color" bson:"color" json:"color"`
	Items       []TodoItem `firestore:"items" bson:"items" json:"items"`
	Status      ListStatus `firestore:"status" bson:"status" json:"status"`
	CreatedAt   time.Time  `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `firestore:"updatedAt" bson:"updatedAt" json:"updatedAt"`
	Version     int64      `firestore:"version" bson:"version" json:"-"`
}

type TodoItemInput struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	Priority  Priority   `json:"priority"`
	DueDate   *time.Time `json:"dueDate"`
	Notes     string     `json:"notes"`
}

type TodoListInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Color       string          `json:"color"`
	Status      ListStatus      `json:"status"`
	Items       []TodoItemInput `json:"items"`
}

// NewTodoItem keeps a client-supplied id, otherwise one is generated.
func NewTodoItem(in TodoItemInput, now time.Time) TodoItem {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	item := TodoItem{
		ID:        id,
		Text:      in.Text,
		Completed: in.Completed,
		Priority:  in.Priority,
		DueDate:   in.DueDate,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if item.Priority == "" {
		item.Priority = PriorityMedium
	}
	return item
}

func NewTodoItems(in []TodoItemInput, now time.Time) []TodoItem {
	items := make([]TodoItem, 0, len(in))
	for _, i := range in {
		items = append(items, NewTodoItem(i, now))
	}
	return items
}

func NewTodoList(in TodoListInput, now time.Time) *TodoList {
	l := &TodoList{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Color:       in.Color,
		Items:       NewTodoItems(in.Items, now),
		Status:      in.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}
	l.ApplyDefaults()
	return l
}

// ApplyDefaults fills enum defaults. Like Event.ApplyDefaults it is not
// run on patches.
func (l *TodoList) ApplyDefaults() {
	if l.Status == "" {
		l.Status = ListActive
	}
	for i := range l.Items {
		if l.Items[i].Priority == "" {
			l.Items[i].Priority = PriorityMedium
		}
	}
	l.normalize()
}

func (l *TodoList) normalize() {
	if l.Color == "" {
		l.Color = DefaultListColor
	}
	if l.Items == nil {
		l.Items = []TodoItem{}
	}
}

func (i *TodoItem) Validate() error {
	if err := required("text", i.Text); err != nil {
		return err
	}
	if !i.Priority.Valid() {
		return invalidEnum("priority", i.Priority, string(PriorityLow), string(PriorityMedium), string(PriorityHigh))
	}
	return nil
}

func (l *TodoList) Validate() error {
	if err := required("title", l.Title); err != nil {
		return err
	}
	if !l.Status.Valid() {
		return invalidEnum("status", l.Status, string(ListActive), string(ListCompleted), string(ListArchived))
	}
	seen := make(map[string]struct{}, len(l.Items))
	for idx := range l.Items {
		item := &l.Items[idx]
		if err := item.Validate(); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return &ValidationError{Field: fmt.Sprintf("items.%d.%s", idx, ve.Field), Message: ve.Message}
			}
			return err
		}
		if _, dup := seen[item.ID]; dup {
			return &ValidationError{Field: fmt.Sprintf("items.%d.id", idx), Message: "is duplicated"}
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

// IsLive reports whether the list shows up in list views.
func (l *TodoList) IsLive() bool {
	return l.Status != ListArchived
}

// Item returns the index of the item with the given id, or -1.
func (l *TodoList) Item(itemID string) int {
	return slices.IndexFunc(l.Items, func(i TodoItem) bool { return i.ID == itemID })
}

func (l *TodoList) Clone() *TodoList {
	c := *l
	c.Items = make([]TodoItem, len(l.Items))
	for i, item := range l.Items {
		if item.DueDate != nil {
			due := *item.DueDate
			item.DueDate = &due
		}
		c.Items[i] = item
	}
	c.ApplyDefaults()
	return &c
}

type TodoListPatch struct {
	Title       mo.Option[string]          `json:"title"`
	Description mo.Option[string]          `json:"description"`
	Color       mo.Option[string]          `json:"color"`
	Status      mo.Option[ListStatus]      `json:"status"`
	Items       mo.Option[[]TodoItemInput] `json:"items"`
}

// Apply merges the patch into l. A supplied items array replaces the
// existing items wholesale.
func (p TodoListPatch) Apply(l *TodoList, now time.Time) {
	if v, ok := p.Title.Get(); ok {
		l.Title = v
	}
	if v, ok := p.Description.Get(); ok {
		l.Description = v
	}
	if v, ok := p.Color.Get(); ok {
		l.Color = v
	}
	if v, ok := p.Status.Get(); ok {
		l.Status = v
	}
	if v, ok := p.Items.Get(); ok {
		l.Items = NewTodoItems(v, now)
	}
	l.normalize()
}

type TodoItemPatch struct {
	Text      mo.Option[string]    `json:"text"`
	Completed mo.Option[bool]      `json:"completed"`
	Priority  mo.Option[Priority]  `json:"priority"`
	DueDate   mo.Option[Timestamp] `json:"dueDate"`
	Notes     mo.Option[string]    `json:"notes"`
}

func (p TodoItemPatch) Apply(i *TodoItem, now time.Time) {
	if v, ok := p.Text.Get(); ok {
		i.Text = v
	}
	if v, ok := p.Completed.Get(); ok {
		i.Completed = v
	}
	if v, ok := p.Priority.Get(); ok {
		i.Priority = v
	}
	if v, ok := p.DueDate.Get(); ok {
		if v.IsZero() {
			i.DueDate = nil
		} else {
			due := v.Time
			i.DueDate = &due
		}
	}
	if v, ok := p.Notes.Get(); ok {
		i.Notes = v
	}
	i.UpdatedAt = now
}
