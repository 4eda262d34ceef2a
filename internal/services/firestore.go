package services

import (
	"context"
	"fmt"
	"slices"

	"cloud.google.com/go/firestore"
	"github.com/ytakahashi/task-calendar/internal/models"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	eventsCollection    = "events"
	todoListsCollection = "todolists"
)

// FirestoreStore keeps events and todo lists in two Firestore
// collections. Firestore has no substring operator, so text search runs
// in process over the live documents.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return &FirestoreStore{
		client: client,
	}, nil
}

func (fs *FirestoreStore) Close() error {
	return fs.client.Close()
}

func (fs *FirestoreStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	_, err := fs.client.Collection(eventsCollection).Doc(event.ID).Create(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (fs *FirestoreStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := getDocument[models.Event](ctx, fs.client.Collection(eventsCollection).Doc(id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, eventNotFound(id)
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	event.ApplyDefaults()
	return event, nil
}

func (fs *FirestoreStore) FindEvents(ctx context.Context, q EventQuery) ([]*models.Event, error) {
	query := fs.client.Collection(eventsCollection).Query
	if q.LiveOnly {
		query = query.Where("status", "!=", string(models.EventCancelled))
	}

	events, err := queryDocuments[models.Event](ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	match := q.Predicate()
	events = slices.DeleteFunc(events, func(e *models.Event) bool {
		e.ApplyDefaults()
		return !match(e)
	})
	slices.SortStableFunc(events, func(a, b *models.Event) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return events, nil
}

func (fs *FirestoreStore) UpdateEvent(ctx context.Context, id string, mutate func(*models.Event) error) (*models.Event, error) {
	ref := fs.client.Collection(eventsCollection).Doc(id)

	var updated *models.Event
	err := fs.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return eventNotFound(id)
			}
			return err
		}

		var event models.Event
		if err := snap.DataTo(&event); err != nil {
			return fmt.Errorf("failed to unmarshal event: %w", err)
		}
		event.ApplyDefaults()
		version := event.Version

		if err := mutate(&event); err != nil {
			return err
		}
		if err := event.Validate(); err != nil {
			return err
		}
		event.ID = id
		event.Version = version + 1

		updated = &event
		return tx.Set(ref, &event)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return updated, nil
}

func (fs *FirestoreStore) CreateTodoList(ctx context.Context, list *models.TodoList) error {
	if err := list.Validate(); err != nil {
		return err
	}
	_, err := fs.client.Collection(todoListsCollection).Doc(list.ID).Create(ctx, list)
	if err != nil {
		return fmt.Errorf("failed to create todo list: %w", err)
	}
	return nil
}

func (fs *FirestoreStore) GetTodoList(ctx context.Context, id string) (*models.TodoList, error) {
	list, err := getDocument[models.TodoList](ctx, fs.client.Collection(todoListsCollection).Doc(id))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, listNotFound(id)
		}
		return nil, fmt.Errorf("failed to get todo list: %w", err)
	}
	list.ApplyDefaults()
	return list, nil
}

func (fs *FirestoreStore) GetTodoLists(ctx context.Context, ids []string) ([]*models.TodoList, error) {
	if len(ids) == 0 {
		return []*models.TodoList{}, nil
	}

	col := fs.client.Collection(todoListsCollection)
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, col.Doc(id))
	}

	snaps, err := fs.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("failed to get todo lists: %w", err)
	}

	lists := make([]*models.TodoList, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var list models.TodoList
		if err := snap.DataTo(&list); err != nil {
			return nil, fmt.Errorf("failed to unmarshal todo list: %w", err)
		}
		list.ApplyDefaults()
		lists = append(lists, &list)
	}
	return lists, nil
}

func (fs *FirestoreStore) FindTodoLists(ctx context.Context, q TodoListQuery) ([]*models.TodoList, error) {
	query := fs.client.Collection(todoListsCollection).Query
	if q.LiveOnly {
		query = query.Where("status", "!=", string(models.ListArchived))
	}

	lists, err := queryDocuments[models.TodoList](ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate todo lists: %w", err)
	}

	match := q.Predicate()
	lists = slices.DeleteFunc(lists, func(l *models.TodoList) bool {
		l.ApplyDefaults()
		return !match(l)
	})
	slices.SortStableFunc(lists, func(a, b *models.TodoList) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return lists, nil
}

func (fs *FirestoreStore) UpdateTodoList(ctx context.Context, id string, mutate func(*models.TodoList) error) (*models.TodoList, error) {
	ref := fs.client.Collection(todoListsCollection).Doc(id)

	var updated *models.TodoList
	err := fs.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return listNotFound(id)
			}
			return err
		}

		var list models.TodoList
		if err := snap.DataTo(&list); err != nil {
			return fmt.Errorf("failed to unmarshal todo list: %w", err)
		}
		list.ApplyDefaults()
		version := list.Version

		if err := mutate(&list); err != nil {
			return err
		}
		if err := list.Validate(); err != nil {
			return err
		}
		list.ID = id
		list.Version = version + 1

		updated = &list
		return tx.Set(ref, &list)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update todo list: %w", err)
	}
	return updated, nil
}

func getDocument[T any](ctx context.Context, ref *firestore.DocumentRef) (*T, error) {
	snap, err := ref.Get(ctx)
	if err != nil {
		return nil, err
	}
	var doc T
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document %s: %w", ref.ID, err)
	}
	return &doc, nil
}

func queryDocuments[T any](ctx context.Context, query firestore.Query) ([]*T, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	docs := []*T{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var doc T
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document %s: %w", snap.Ref.ID, err)
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}
