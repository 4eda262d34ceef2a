package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"
)

// timestampLayouts are tried in order. Values without a zone are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Timestamp decodes an RFC 3339 date-time or a bare 2006-01-02 date.
// JSON null and "" decode as the zero time.
type Timestamp struct {
	time.Time
}

func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q: want RFC 3339 or YYYY-MM-DD", s)
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid date %s: %w", b, err)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// TodoListRef is a todo list id. It decodes from the id itself or from a
// populated list object, so a fetched event can be sent back as is.
type TodoListRef string

func (r *TodoListRef) UnmarshalJSON(b []byte) error {
	var id string
	if err := json.Unmarshal(b, &id); err == nil {
		*r = TodoListRef(id)
		return nil
	}
	var list struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("todoLists entries must be ids or objects with an id: %w", err)
	}
	if list.ID == "" {
		return &ValidationError{Field: "todoLists", Message: "entries must be ids or objects with an id"}
	}
	*r = TodoListRef(list.ID)
	return nil
}

func refIDs(refs []TodoListRef) []string {
	if refs == nil {
		return nil
	}
	ids := make([]string, len(refs))
	for i, r := range refs {
		ids[i] = string(r)
	}
	return ids
}

func (in *EventInput) UnmarshalJSON(b []byte) error {
	type plain EventInput
	aux := struct {
		*plain
		StartTime Timestamp     `json:"startTime"`
		EndTime   Timestamp     `json:"endTime"`
		TodoLists []TodoListRef `json:"todoLists"`
	}{plain: (*plain)(in)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	in.StartTime = aux.StartTime.Time
	in.EndTime = aux.EndTime.Time
	in.TodoLists = refIDs(aux.TodoLists)
	return nil
}

// UnmarshalJSON treats "recurrenceRule": null as a request to clear the rule.
func (p *EventPatch) UnmarshalJSON(b []byte) error {
	type plain EventPatch
	if err := json.Unmarshal(b, (*plain)(p)); err != nil {
		return err
	}
	nulls, err := nullKeys(b)
	if err != nil {
		return err
	}
	if nulls["recurrenceRule"] {
		p.RecurrenceRule = mo.Some("")
	}
	return nil
}

// Absent keys keep their defaults; an explicit "" status stays and fails validation.
func (a *Attendee) UnmarshalJSON(b []byte) error {
	type plain Attendee
	aux := plain{Status: AttendeeNeedsAction}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*a = Attendee(aux)
	return nil
}

func (in *TodoItemInput) UnmarshalJSON(b []byte) error {
	type plain TodoItemInput
	aux := struct {
		*plain
		DueDate *Timestamp `json:"dueDate"`
	}{plain: (*plain)(in)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	in.DueDate = nil
	if aux.DueDate != nil && !aux.DueDate.IsZero() {
		due := aux.DueDate.Time
		in.DueDate = &due
	}
	return nil
}

// UnmarshalJSON treats "dueDate": null as a request to clear the due date.
func (p *TodoItemPatch) UnmarshalJSON(b []byte) error {
	type plain TodoItemPatch
	if err := json.Unmarshal(b, (*plain)(p)); err != nil {
		return err
	}
	nulls, err := nullKeys(b)
	if err != nil {
		return err
	}
	if nulls["dueDate"] {
		p.DueDate = mo.Some(Timestamp{})
	}
	return nil
}

func isNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

// nullKeys reports the top-level keys of a JSON object whose value is null.
func nullKeys(b []byte) (map[string]bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	nulls := make(map[string]bool)
	for k, v := range fields {
		if isNull(v) {
			nulls[k] = true
		}
	}
	return nulls, nil
}
