package services

import (
	"context"
	"errors"

	"github.com/ytakahashi/task-calendar/internal/models"
)

// Store is the persistence contract shared by the memory, Firestore and
// MongoDB backends. Update* loads the document, runs mutate on it,
// validates and writes it back without losing concurrent updates to the
// same document. A mutate error aborts the write.
type Store interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	FindEvents(ctx context.Context, q EventQuery) ([]*models.Event, error)
	UpdateEvent(ctx context.Context, id string, mutate func(*models.Event) error) (*models.Event, error)

	CreateTodoList(ctx context.Context, list *models.TodoList) error
	GetTodoList(ctx context.Context, id string) (*models.TodoList, error)
	// GetTodoLists returns the lists that exist among ids, in no particular order.
	GetTodoLists(ctx context.Context, ids []string) ([]*models.TodoList, error)
	FindTodoLists(ctx context.Context, q TodoListQuery) ([]*models.TodoList, error)
	UpdateTodoList(ctx context.Context, id string, mutate func(*models.TodoList) error) (*models.TodoList, error)

	Close() error
}

// NotFoundError is returned when no document exists for an id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return e.Kind + " not found"
}

const (
	KindEvent    = "Event"
	KindTodoList = "Todo list"
	KindTodoItem = "Todo item"
)

// ErrConflict is returned when a document kept changing underneath an update.
var ErrConflict = errors.New("document was modified concurrently")

func eventNotFound(id string) error { return &NotFoundError{Kind: KindEvent, ID: id} }
func listNotFound(id string) error  { return &NotFoundError{Kind: KindTodoList, ID: id} }

// IsNotFound reports whether err is a NotFoundError of any kind.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
