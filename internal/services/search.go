package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/samber/mo"
	"github.com/ytakahashi/task-calendar/internal/models"
)

const (
	SearchEvents    = "events"
	SearchTodoLists = "todolists"
)

// SearchResults holds one list per requested entity type. A type that was
// not requested is absent from the JSON object.
type SearchResults struct {
	Events    mo.Option[[]*models.PopulatedEvent]
	TodoLists mo.Option[[]*models.TodoList]
}

func (r SearchResults) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 2)
	if events, ok := r.Events.Get(); ok {
		out["events"] = events
	}
	if lists, ok := r.TodoLists.Get(); ok {
		out["todoLists"] = lists
	}
	return json.Marshal(out)
}

// Search runs a case-insensitive literal substring search over live events
// (title, description, location) and live todo lists (title, description,
// item text). kind is "events", "todolists" or empty for both.
func (p *Planner) Search(ctx context.Context, query, kind string) (SearchResults, error) {
	var results SearchResults

	query = strings.TrimSpace(query)
	if query == "" {
		return results, &models.ValidationError{Message: "Search query is required"}
	}
	if kind != "" && kind != SearchEvents && kind != SearchTodoLists {
		return results, &models.ValidationError{Field: "type", Message: "must be events or todolists"}
	}

	if kind == "" || kind == SearchEvents {
		events, err := p.store.FindEvents(ctx, EventQuery{LiveOnly: true, Text: query})
		if err != nil {
			return results, err
		}
		populated, err := p.Populate(ctx, events...)
		if err != nil {
			return results, err
		}
		results.Events = mo.Some(populated)
	}

	if kind == "" || kind == SearchTodoLists {
		lists, err := p.store.FindTodoLists(ctx, TodoListQuery{LiveOnly: true, Text: query})
		if err != nil {
			return results, err
		}
		results.TodoLists = mo.Some(lists)
	}

	p.logger.Debug("search", "query", query, "type", kind)
	return results, nil
}
