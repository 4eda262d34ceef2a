package services

import (
	"regexp"
	"strings"

	"github.com/ytakahashi/task-calendar/internal/models"
)

// EventQuery selects events. The zero value matches every event.
type EventQuery struct {
	LiveOnly bool
	Text     string
}

// TodoListQuery selects todo lists. The zero value matches every list.
type TodoListQuery struct {
	LiveOnly bool
	Text     string
}

// Matcher is a case-insensitive literal substring matcher.
type Matcher struct {
	re *regexp.Regexp
}

// NewMatcher escapes text so user input never acts as a pattern.
func NewMatcher(text string) *Matcher {
	if text == "" {
		return nil
	}
	return &Matcher{re: regexp.MustCompile("(?i)" + regexp.QuoteMeta(text))}
}

// Match reports whether any of the fields contains the text. A nil
// matcher matches everything.
func (m *Matcher) Match(fields ...string) bool {
	if m == nil {
		return true
	}
	for _, f := range fields {
		if m.re.MatchString(f) {
			return true
		}
	}
	return false
}

// Pattern is the escaped pattern, for stores that match server side.
func Pattern(text string) string {
	return regexp.QuoteMeta(strings.TrimSpace(text))
}

// Predicate compiles the query into an in-process filter.
func (q EventQuery) Predicate() func(*models.Event) bool {
	m := NewMatcher(strings.TrimSpace(q.Text))
	return func(e *models.Event) bool {
		if q.LiveOnly && !e.IsLive() {
			return false
		}
		return m.Match(e.Title, e.Description, e.Location)
	}
}

// Predicate compiles the query into an in-process filter. Item text
// counts as a match.
func (q TodoListQuery) Predicate() func(*models.TodoList) bool {
	m := NewMatcher(strings.TrimSpace(q.Text))
	return func(l *models.TodoList) bool {
		if q.LiveOnly && !l.IsLive() {
			return false
		}
		if m.Match(l.Title, l.Description) {
			return true
		}
		for _, item := range l.Items {
			if m.Match(item.Text) {
				return true
			}
		}
		return false
	}
}
