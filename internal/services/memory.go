package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/ytakahashi/task-calendar/internal/models"
)

// MemoryStore keeps documents in process. Documents are copied on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mu         sync.RWMutex
	events     map[string]*models.Event
	eventOrder []string
	lists      map[string]*models.TodoList
	listOrder  []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events: make(map[string]*models.Event),
		lists:  make(map[string]*models.TodoList),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) CreateEvent(_ context.Context, event *models.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.events[event.ID]; exists {
		return fmt.Errorf("failed to create event: id %s already exists", event.ID)
	}
	s.events[event.ID] = event.Clone()
	s.eventOrder = append(s.eventOrder, event.ID)
	return nil
}

func (s *MemoryStore) GetEvent(_ context.Context, id string) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return nil, eventNotFound(id)
	}
	return event.Clone(), nil
}

func (s *MemoryStore) FindEvents(_ context.Context, q EventQuery) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	match := q.Predicate()
	events := []*models.Event{}
	for _, id := range s.eventOrder {
		if event := s.events[id]; match(event) {
			events = append(events, event.Clone())
		}
	}
	return events, nil
}

func (s *MemoryStore) UpdateEvent(_ context.Context, id string, mutate func(*models.Event) error) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.events[id]
	if !ok {
		return nil, eventNotFound(id)
	}
	event := current.Clone()
	if err := mutate(event); err != nil {
		return nil, err
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	event.ID = id
	event.Version = current.Version + 1
	s.events[id] = event.Clone()
	return event, nil
}

func (s *MemoryStore) CreateTodoList(_ context.Context, list *models.TodoList) error {
	if err := list.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lists[list.ID]; exists {
		return fmt.Errorf("failed to create todo list: id %s already exists", list.ID)
	}
	s.lists[list.ID] = list.Clone()
	s.listOrder = append(s.listOrder, list.ID)
	return nil
}

func (s *MemoryStore) GetTodoList(_ context.Context, id string) (*models.TodoList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, ok := s.lists[id]
	if !ok {
		return nil, listNotFound(id)
	}
	return list.Clone(), nil
}

func (s *MemoryStore) GetTodoLists(_ context.Context, ids []string) ([]*models.TodoList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lists := make([]*models.TodoList, 0, len(ids))
	for _, id := range ids {
		if list, ok := s.lists[id]; ok {
			lists = append(lists, list.Clone())
		}
	}
	return lists, nil
}

func (s *MemoryStore) FindTodoLists(_ context.Context, q TodoListQuery) ([]*models.TodoList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	match := q.Predicate()
	lists := []*models.TodoList{}
	for _, id := range s.listOrder {
		if list := s.lists[id]; match(list) {
			lists = append(lists, list.Clone())
		}
	}
	return lists, nil
}

func (s *MemoryStore) UpdateTodoList(_ context.Context, id string, mutate func(*models.TodoList) error) (*models.TodoList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.lists[id]
	if !ok {
		return nil, listNotFound(id)
	}
	list := current.Clone()
	if err := mutate(list); err != nil {
		return nil, err
	}
	if err := list.Validate(); err != nil {
		return nil, err
	}
	list.ID = id
	list.Version = current.Version + 1
	s.lists[id] = list.Clone()
	return list, nil
}
