package services

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/ytakahashi/task-calendar/internal/models"
)

// Planner implements the event and todo list operations on top of a Store:
// the event/todo list relation, soft deletion and embedded item edits.
type Planner struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewPlanner(store Store, logger *slog.Logger) *Planner {
	return &Planner{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Events

func (p *Planner) ListEvents(ctx context.Context) ([]*models.PopulatedEvent, error) {
	events, err := p.store.FindEvents(ctx, EventQuery{LiveOnly: true})
	if err != nil {
		return nil, err
	}
	return p.Populate(ctx, events...)
}

// GetEvent returns the event whatever its status.
func (p *Planner) GetEvent(ctx context.Context, id string) (*models.PopulatedEvent, error) {
	event, err := p.store.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.populateOne(ctx, event)
}

func (p *Planner) CreateEvent(ctx context.Context, in models.EventInput) (*models.PopulatedEvent, error) {
	event := models.NewEvent(in, p.now())
	if err := p.store.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	p.logger.Debug("event created", "eventId", event.ID)
	return p.populateOne(ctx, event)
}

func (p *Planner) UpdateEvent(ctx context.Context, id string, patch models.EventPatch) (*models.PopulatedEvent, error) {
	event, err := p.store.UpdateEvent(ctx, id, func(e *models.Event) error {
		patch.Apply(e)
		e.UpdatedAt = p.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.populateOne(ctx, event)
}

// CancelEvent soft deletes an event. Cancelling twice is not an error.
func (p *Planner) CancelEvent(ctx context.Context, id string) (*models.Event, error) {
	return p.store.UpdateEvent(ctx, id, func(e *models.Event) error {
		e.Status = models.EventCancelled
		e.UpdatedAt = p.now()
		return nil
	})
}

// AttachTodoList adds listID to the event's todo lists once.
func (p *Planner) AttachTodoList(ctx context.Context, eventID, listID string) (*models.PopulatedEvent, error) {
	event, err := p.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if _, err := p.store.GetTodoList(ctx, listID); err != nil {
		return nil, err
	}
	if event.HasTodoList(listID) {
		return p.populateOne(ctx, event)
	}

	event, err = p.store.UpdateEvent(ctx, eventID, func(e *models.Event) error {
		if !e.HasTodoList(listID) {
			e.TodoLists = append(e.TodoLists, listID)
			e.UpdatedAt = p.now()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.populateOne(ctx, event)
}

// DetachTodoList removes listID from the event. The list itself is not looked up.
func (p *Planner) DetachTodoList(ctx context.Context, eventID, listID string) (*models.PopulatedEvent, error) {
	event, err := p.store.UpdateEvent(ctx, eventID, func(e *models.Event) error {
		if e.HasTodoList(listID) {
			e.TodoLists = slices.DeleteFunc(e.TodoLists, func(id string) bool { return id == listID })
			e.UpdatedAt = p.now()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p.populateOne(ctx, event)
}

// Populate resolves the todo list references of events with a single store
// lookup. Ids without a document are dropped from the result and logged.
func (p *Planner) Populate(ctx context.Context, events ...*models.Event) ([]*models.PopulatedEvent, error) {
	var ids []string
	for _, e := range events {
		for _, id := range e.TodoLists {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}

	byID := make(map[string]*models.TodoList, len(ids))
	if len(ids) > 0 {
		lists, err := p.store.GetTodoLists(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, l := range lists {
			byID[l.ID] = l
		}
	}

	out := make([]*models.PopulatedEvent, 0, len(events))
	for _, e := range events {
		pe := &models.PopulatedEvent{Event: e, TodoLists: make([]*models.TodoList, 0, len(e.TodoLists))}
		for _, id := range e.TodoLists {
			list, ok := byID[id]
			if !ok {
				p.logger.Warn("dropping dangling todo list reference", "eventId", e.ID, "todoListId", id)
				continue
			}
			pe.TodoLists = append(pe.TodoLists, list)
		}
		out = append(out, pe)
	}
	return out, nil
}

func (p *Planner) populateOne(ctx context.Context, event *models.Event) (*models.PopulatedEvent, error) {
	populated, err := p.Populate(ctx, event)
	if err != nil {
		return nil, err
	}
	return populated[0], nil
}

// Todo lists

func (p *Planner) ListTodoLists(ctx context.Context) ([]*models.TodoList, error) {
	return p.store.FindTodoLists(ctx, TodoListQuery{LiveOnly: true})
}

// GetTodoList returns the list whatever its status.
func (p *Planner) GetTodoList(ctx context.Context, id string) (*models.TodoList, error) {
	return p.store.GetTodoList(ctx, id)
}

func (p *Planner) CreateTodoList(ctx context.Context, in models.TodoListInput) (*models.TodoList, error) {
	list := models.NewTodoList(in, p.now())
	if err := p.store.CreateTodoList(ctx, list); err != nil {
		return nil, err
	}
	p.logger.Debug("todo list created", "todoListId", list.ID, "items", len(list.Items))
	return list, nil
}

func (p *Planner) UpdateTodoList(ctx context.Context, id string, patch models.TodoListPatch) (*models.TodoList, error) {
	return p.store.UpdateTodoList(ctx, id, func(l *models.TodoList) error {
		now := p.now()
		patch.Apply(l, now)
		l.UpdatedAt = now
		return nil
	})
}

// ArchiveTodoList soft deletes a list. Events keep referencing it.
func (p *Planner) ArchiveTodoList(ctx context.Context, id string) (*models.TodoList, error) {
	return p.store.UpdateTodoList(ctx, id, func(l *models.TodoList) error {
		l.Status = models.ListArchived
		l.UpdatedAt = p.now()
		return nil
	})
}

// Todo items

// AddItems appends items to a list. Item ids are always assigned here.
func (p *Planner) AddItems(ctx context.Context, listID string, in ...models.TodoItemInput) (*models.TodoList, error) {
	return p.store.UpdateTodoList(ctx, listID, func(l *models.TodoList) error {
		now := p.now()
		for _, item := range in {
			item.ID = ""
			l.Items = append(l.Items, models.NewTodoItem(item, now))
		}
		l.UpdatedAt = now
		return nil
	})
}

func (p *Planner) UpdateItem(ctx context.Context, listID, itemID string, patch models.TodoItemPatch) (*models.TodoList, error) {
	return p.editItem(ctx, listID, itemID, func(l *models.TodoList, idx int, now time.Time) {
		patch.Apply(&l.Items[idx], now)
	})
}

func (p *Planner) ToggleItem(ctx context.Context, listID, itemID string) (*models.TodoList, error) {
	return p.editItem(ctx, listID, itemID, func(l *models.TodoList, idx int, now time.Time) {
		l.Items[idx].Completed = !l.Items[idx].Completed
		l.Items[idx].UpdatedAt = now
	})
}

func (p *Planner) RemoveItem(ctx context.Context, listID, itemID string) (*models.TodoList, error) {
	return p.editItem(ctx, listID, itemID, func(l *models.TodoList, idx int, _ time.Time) {
		l.Items = slices.Delete(l.Items, idx, idx+1)
	})
}

func (p *Planner) editItem(ctx context.Context, listID, itemID string, edit func(l *models.TodoList, idx int, now time.Time)) (*models.TodoList, error) {
	return p.store.UpdateTodoList(ctx, listID, func(l *models.TodoList) error {
		idx := l.Item(itemID)
		if idx < 0 {
			return &NotFoundError{Kind: KindTodoItem, ID: itemID}
		}
		now := p.now()
		edit(l, idx, now)
		l.UpdatedAt = now
		return nil
	})
}
