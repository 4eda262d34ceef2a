package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/mo"
)

type EventStatus string

const (
	EventConfirmed EventStatus = "confirmed"
	EventTentative EventStatus = "tentative"
	EventCancelled EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventConfirmed, EventTentative, EventCancelled:
		return true
	}
	return false
}

type AttendeeStatus string

const (
	AttendeeAccepted    AttendeeStatus = "accepted"
	AttendeeDeclined    AttendeeStatus = "declined"
	AttendeeNeedsAction AttendeeStatus = "needs_action"
)

func (s AttendeeStatus) Valid() bool {
	switch s {
	case AttendeeAccepted, AttendeeDeclined, AttendeeNeedsAction:
		return true
	}
	return false
}

// Attendee is a participant of an event
type Attendee struct {
	UserID      string         `firestore:"userId" bson:"userId" json:"userId"`
	Status      AttendeeStatus `firestore:"status" bson:"status" json:"status"`
	IsOrganizer bool           `firestore:"isOrganizer" bson:"isOrganizer" json:"isOrganizer"`
}

// Event represents a calendar event. TodoLists holds TodoList ids only.
type Event struct {
	ID             string      `firestore:"id" bson:"_id" json:"id"`
	CalendarID     string      `firestore:"calendarId" bson:"calendarId" json:"calendarId"`
	OwnerID        string      `firestore:"ownerId" bson:"ownerId" json:"ownerId"`
	Title          string      `firestore:"title" bson:"title" json:"title"`
	Description    string      `firestore:"description" bson:"description" json:"description"`
	Location       string      `firestore:"location" bson:"location" json:"location"`
	StartTime      time.Time   `firestore:"startTime" bson:"startTime" json:"startTime"`
	EndTime        time.Time   `firestore:"endTime" bson:"endTime" json:"endTime"`
	IsAllDay       bool        `firestore:"isAllDay" bson:"isAllDay" json:"isAllDay"`
	RecurrenceRule *string     `firestore:"recurrenceRule" bson:"recurrenceRule" json:"recurrenceRule"`
	Status         EventStatus `firestore:"status" bson:"status" json:"status"`
	Attendees      []Attendee  `firestore:"attendees" bson:"attendees" json:"attendees"`
	TodoLists      []string    `firestore:"todoLists" bson:"todoLists" json:"todoLists"`
	CreatedAt      time.Time   `firestore:"createdAt" bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time   `firestore:"updatedAt" bson:"updatedAt" json:"updatedAt"`
	Version        int64       `firestore:"version" bson:"version" json:"-"`
}

// EventInput is the client-supplied part of a new event.
type EventInput struct {
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Location       string      `json:"location"`
	StartTime      time.Time   `json:"startTime"`
	EndTime        time.Time   `json:"endTime"`
	IsAllDay       bool        `json:"isAllDay"`
	RecurrenceRule *string     `json:"recurrenceRule"`
	Status         EventStatus `json:"status"`
	TodoLists      []string    `json:"todoLists"`
}

// NewEvent builds an event owned by freshly generated placeholder
// identities, with a single accepted organizer.
func NewEvent(in EventInput, now time.Time) *Event {
	organizer := Attendee{
		UserID:      uuid.NewString(),
		Status:      AttendeeAccepted,
		IsOrganizer: true,
	}
	e := &Event{
		ID:             uuid.NewString(),
		CalendarID:     uuid.NewString(),
		OwnerID:        uuid.NewString(),
		Title:          in.Title,
		Description:    in.Description,
		Location:       in.Location,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		IsAllDay:       in.IsAllDay,
		RecurrenceRule: in.RecurrenceRule,
		Status:         in.Status,
		Attendees:      []Attendee{organizer},
		TodoLists:      dedupe(in.TodoLists),
		CreatedAt:      now,
		UpdatedAt:      now,
		Version:        1,
	}
	e.ApplyDefaults()
	return e
}

// ApplyDefaults fills enum defaults and empty collections. It runs on
// creation and on documents read back from a store, never on patches.
func (e *Event) ApplyDefaults() {
	if e.Status == "" {
		e.Status = EventConfirmed
	}
	for i := range e.Attendees {
		if e.Attendees[i].Status == "" {
			e.Attendees[i].Status = AttendeeNeedsAction
		}
	}
	e.normalize()
}

func (e *Event) normalize() {
	if e.RecurrenceRule != nil && *e.RecurrenceRule == "" {
		e.RecurrenceRule = nil
	}
	if e.Attendees == nil {
		e.Attendees = []Attendee{}
	}
	if e.TodoLists == nil {
		e.TodoLists = []string{}
	}
}

func (e *Event) Validate() error {
	if err := required("title", e.Title); err != nil {
		return err
	}
	if e.StartTime.IsZero() {
		return &ValidationError{Field: "startTime", Message: "is required"}
	}
	if e.EndTime.IsZero() {
		return &ValidationError{Field: "endTime", Message: "is required"}
	}
	if !e.Status.Valid() {
		return invalidEnum("status", e.Status, string(EventConfirmed), string(EventTentative), string(EventCancelled))
	}
	for i, a := range e.Attendees {
		if !a.Status.Valid() {
			return invalidEnum(fmt.Sprintf("attendees.%d.status", i), a.Status,
				string(AttendeeAccepted), string(AttendeeDeclined), string(AttendeeNeedsAction))
		}
	}
	return nil
}

// IsLive reports whether the event shows up in list views.
func (e *Event) IsLive() bool {
	return e.Status != EventCancelled
}

// HasTodoList reports whether listID is referenced by the event.
func (e *Event) HasTodoList(listID string) bool {
	return slices.Contains(e.TodoLists, listID)
}

// Clone returns a deep copy.
func (e *Event) Clone() *Event {
	c := *e
	if e.RecurrenceRule != nil {
		rule := *e.RecurrenceRule
		c.RecurrenceRule = &rule
	}
	c.Attendees = slices.Clone(e.Attendees)
	c.TodoLists = slices.Clone(e.TodoLists)
	c.ApplyDefaults()
	return &c
}

// EventPatch carries the fields of a merge update. Absent fields are left untouched.
type EventPatch struct {
	Title          mo.Option[string]        `json:"title"`
	Description    mo.Option[string]        `json:"description"`
	Location       mo.Option[string]        `json:"location"`
	StartTime      mo.Option[Timestamp]     `json:"startTime"`
	EndTime        mo.Option[Timestamp]     `json:"endTime"`
	IsAllDay       mo.Option[bool]          `json:"isAllDay"`
	RecurrenceRule mo.Option[string]        `json:"recurrenceRule"`
	Status         mo.Option[EventStatus]   `json:"status"`
	Attendees      mo.Option[[]Attendee]    `json:"attendees"`
	TodoLists      mo.Option[[]TodoListRef] `json:"todoLists"`
}

// Apply merges the patch into e. An empty or null recurrenceRule clears it.
// Enum fields are copied as sent so that Validate rejects empty values.
func (p EventPatch) Apply(e *Event) {
	if v, ok := p.Title.Get(); ok {
		e.Title = v
	}
	if v, ok := p.Description.Get(); ok {
		e.Description = v
	}
	if v, ok := p.Location.Get(); ok {
		e.Location = v
	}
	if v, ok := p.StartTime.Get(); ok {
		e.StartTime = v.Time
	}
	if v, ok := p.EndTime.Get(); ok {
		e.EndTime = v.Time
	}
	if v, ok := p.IsAllDay.Get(); ok {
		e.IsAllDay = v
	}
	if v, ok := p.RecurrenceRule.Get(); ok {
		e.RecurrenceRule = &v
	}
	if v, ok := p.Status.Get(); ok {
		e.Status = v
	}
	if v, ok := p.Attendees.Get(); ok {
		e.Attendees = slices.Clone(v)
	}
	if v, ok := p.TodoLists.Get(); ok {
		e.TodoLists = dedupe(refIDs(v))
	}
	e.normalize()
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// PopulatedEvent is an event whose todoLists ids are resolved to documents.
type PopulatedEvent struct {
	*Event
	TodoLists []*TodoList `json:"todoLists"`
}
