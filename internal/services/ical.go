package services

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/emersion/go-ical"
	"github.com/ytakahashi/task-calendar/internal/models"
)

const icalProductID = "-//task-calendar//Task Calendar//EN"

// EncodeEvents writes events as one VCALENDAR with a VEVENT per event.
// Recurrence rules are copied verbatim, never expanded.
func EncodeEvents(w io.Writer, events ...*models.Event) error {
	cal := newCalendar()
	for _, e := range events {
		cal.Children = append(cal.Children, eventComponent(e))
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}

// EncodeTodoList writes the items of a list as VTODO components.
func EncodeTodoList(w io.Writer, list *models.TodoList) error {
	cal := newCalendar()
	cal.Props.SetText(ical.PropName, list.Title)
	for i := range list.Items {
		cal.Children = append(cal.Children, todoComponent(list, &list.Items[i]))
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode todo list: %w", err)
	}
	return nil
}

func newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, icalProductID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	return cal
}

func eventComponent(e *models.Event) *ical.Component {
	comp := ical.NewComponent(ical.CompEvent)
	comp.Props.SetText(ical.PropUID, e.ID)
	comp.Props.SetDateTime(ical.PropDateTimeStamp, e.UpdatedAt.UTC())
	comp.Props.SetDateTime(ical.PropCreated, e.CreatedAt.UTC())
	comp.Props.SetDateTime(ical.PropLastModified, e.UpdatedAt.UTC())
	if e.IsAllDay {
		comp.Props.SetDate(ical.PropDateTimeStart, e.StartTime)
		comp.Props.SetDate(ical.PropDateTimeEnd, e.EndTime)
	} else {
		comp.Props.SetDateTime(ical.PropDateTimeStart, e.StartTime.UTC())
		comp.Props.SetDateTime(ical.PropDateTimeEnd, e.EndTime.UTC())
	}
	comp.Props.SetText(ical.PropSummary, e.Title)
	if e.Description != "" {
		comp.Props.SetText(ical.PropDescription, e.Description)
	}
	if e.Location != "" {
		comp.Props.SetText(ical.PropLocation, e.Location)
	}
	comp.Props.SetText(ical.PropStatus, strings.ToUpper(string(e.Status)))

	if e.RecurrenceRule != nil && *e.RecurrenceRule != "" {
		// RRULE is a RECUR value; SetText would escape its separators.
		rrule := ical.NewProp(ical.PropRecurrenceRule)
		rrule.Value = strings.TrimPrefix(*e.RecurrenceRule, "RRULE:")
		comp.Props.Set(rrule)
	}

	for _, a := range e.Attendees {
		address := "urn:uuid:" + a.UserID
		if a.IsOrganizer {
			organizer := ical.NewProp(ical.PropOrganizer)
			organizer.Value = address
			comp.Props.Set(organizer)
		}
		attendee := ical.NewProp(ical.PropAttendee)
		attendee.Value = address
		attendee.Params.Set(ical.ParamParticipationStatus, partStat(a.Status))
		comp.Props.Add(attendee)
	}
	return comp
}

func todoComponent(list *models.TodoList, item *models.TodoItem) *ical.Component {
	comp := ical.NewComponent(ical.CompToDo)
	comp.Props.SetText(ical.PropUID, list.ID+"-"+item.ID)
	comp.Props.SetDateTime(ical.PropDateTimeStamp, item.UpdatedAt.UTC())
	comp.Props.SetDateTime(ical.PropCreated, item.CreatedAt.UTC())
	comp.Props.SetText(ical.PropSummary, item.Text)
	if item.Notes != "" {
		comp.Props.SetText(ical.PropDescription, item.Notes)
	}
	if item.DueDate != nil {
		comp.Props.SetDateTime(ical.PropDue, item.DueDate.UTC())
	}
	priority := ical.NewProp(ical.PropPriority)
	priority.Value = strconv.Itoa(icalPriority(item.Priority))
	comp.Props.Set(priority)
	comp.Props.SetText(ical.PropCategories, list.Title)
	if item.Completed {
		comp.Props.SetText(ical.PropStatus, "COMPLETED")
	} else {
		comp.Props.SetText(ical.PropStatus, "NEEDS-ACTION")
	}
	return comp
}

func partStat(s models.AttendeeStatus) string {
	switch s {
	case models.AttendeeAccepted:
		return "ACCEPTED"
	case models.AttendeeDeclined:
		return "DECLINED"
	default:
		return "NEEDS-ACTION"
	}
}

// icalPriority maps to the RFC 5545 scale where 1 is highest.
func icalPriority(p models.Priority) int {
	switch p {
	case models.PriorityHigh:
		return 1
	case models.PriorityLow:
		return 9
	default:
		return 5
	}
}
