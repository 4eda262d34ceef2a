package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ytakahashi/task-calendar/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxUpdateAttempts bounds the compare-and-swap loop of Update*.
const maxUpdateAttempts = 5

// MongoStore keeps events and todo lists in two MongoDB collections.
// Updates replace the whole document guarded by its version field.
type MongoStore struct {
	client *mongo.Client
	events *mongo.Collection
	lists  *mongo.Collection
}

func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(database)
	ms := &MongoStore{
		client: client,
		events: db.Collection(eventsCollection),
		lists:  db.Collection(todoListsCollection),
	}
	if err := ms.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return ms, nil
}

func (ms *MongoStore) ensureIndexes(ctx context.Context) error {
	byStatus := mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}}}
	if _, err := ms.events.Indexes().CreateOne(ctx, byStatus); err != nil {
		return fmt.Errorf("failed to create event index: %w", err)
	}
	if _, err := ms.lists.Indexes().CreateOne(ctx, byStatus); err != nil {
		return fmt.Errorf("failed to create todo list index: %w", err)
	}
	return nil
}

func (ms *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return ms.client.Disconnect(ctx)
}

func (ms *MongoStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	if _, err := ms.events.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (ms *MongoStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := ms.events.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, eventNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	event.ApplyDefaults()
	return &event, nil
}

func (ms *MongoStore) FindEvents(ctx context.Context, q EventQuery) ([]*models.Event, error) {
	cur, err := ms.events.Find(ctx, eventFilter(q), byCreation())
	if err != nil {
		return nil, fmt.Errorf("failed to find events: %w", err)
	}

	events := []*models.Event{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	for _, e := range events {
		e.ApplyDefaults()
	}
	return events, nil
}

func (ms *MongoStore) UpdateEvent(ctx context.Context, id string, mutate func(*models.Event) error) (*models.Event, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		event, err := ms.GetEvent(ctx, id)
		if err != nil {
			return nil, err
		}
		version := event.Version

		if err := mutate(event); err != nil {
			return nil, err
		}
		if err := event.Validate(); err != nil {
			return nil, err
		}
		event.ID = id
		event.Version = version + 1

		res, err := ms.events.ReplaceOne(ctx, versionFilter(id, version), event)
		if err != nil {
			return nil, fmt.Errorf("failed to update event: %w", err)
		}
		if res.MatchedCount == 1 {
			return event, nil
		}
	}
	return nil, fmt.Errorf("failed to update event %s: %w", id, ErrConflict)
}

func (ms *MongoStore) CreateTodoList(ctx context.Context, list *models.TodoList) error {
	if err := list.Validate(); err != nil {
		return err
	}
	if _, err := ms.lists.InsertOne(ctx, list); err != nil {
		return fmt.Errorf("failed to create todo list: %w", err)
	}
	return nil
}

func (ms *MongoStore) GetTodoList(ctx context.Context, id string) (*models.TodoList, error) {
	var list models.TodoList
	err := ms.lists.FindOne(ctx, bson.M{"_id": id}).Decode(&list)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, listNotFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo list: %w", err)
	}
	list.ApplyDefaults()
	return &list, nil
}

func (ms *MongoStore) GetTodoLists(ctx context.Context, ids []string) ([]*models.TodoList, error) {
	if len(ids) == 0 {
		return []*models.TodoList{}, nil
	}
	cur, err := ms.lists.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get todo lists: %w", err)
	}

	lists := []*models.TodoList{}
	if err := cur.All(ctx, &lists); err != nil {
		return nil, fmt.Errorf("failed to decode todo lists: %w", err)
	}
	for _, l := range lists {
		l.ApplyDefaults()
	}
	return lists, nil
}

func (ms *MongoStore) FindTodoLists(ctx context.Context, q TodoListQuery) ([]*models.TodoList, error) {
	cur, err := ms.lists.Find(ctx, todoListFilter(q), byCreation())
	if err != nil {
		return nil, fmt.Errorf("failed to find todo lists: %w", err)
	}

	lists := []*models.TodoList{}
	if err := cur.All(ctx, &lists); err != nil {
		return nil, fmt.Errorf("failed to decode todo lists: %w", err)
	}
	for _, l := range lists {
		l.ApplyDefaults()
	}
	return lists, nil
}

func (ms *MongoStore) UpdateTodoList(ctx context.Context, id string, mutate func(*models.TodoList) error) (*models.TodoList, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		list, err := ms.GetTodoList(ctx, id)
		if err != nil {
			return nil, err
		}
		version := list.Version

		if err := mutate(list); err != nil {
			return nil, err
		}
		if err := list.Validate(); err != nil {
			return nil, err
		}
		list.ID = id
		list.Version = version + 1

		res, err := ms.lists.ReplaceOne(ctx, versionFilter(id, version), list)
		if err != nil {
			return nil, fmt.Errorf("failed to update todo list: %w", err)
		}
		if res.MatchedCount == 1 {
			return list, nil
		}
	}
	return nil, fmt.Errorf("failed to update todo list %s: %w", id, ErrConflict)
}

func byCreation() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
}

// versionFilter matches the document only if nobody wrote it since it was
// read. Documents written without a version count as version 0.
func versionFilter(id string, version int64) bson.M {
	if version == 0 {
		return bson.M{"_id": id, "version": bson.M{"$in": bson.A{0, nil}}}
	}
	return bson.M{"_id": id, "version": version}
}

func textRegex(text string) (primitive.Regex, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return primitive.Regex{}, false
	}
	return primitive.Regex{Pattern: Pattern(text), Options: "i"}, true
}

func eventFilter(q EventQuery) bson.M {
	filter := bson.M{}
	if q.LiveOnly {
		filter["status"] = bson.M{"$ne": string(models.EventCancelled)}
	}
	if re, ok := textRegex(q.Text); ok {
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"location": re},
		}
	}
	return filter
}

func todoListFilter(q TodoListQuery) bson.M {
	filter := bson.M{}
	if q.LiveOnly {
		filter["status"] = bson.M{"$ne": string(models.ListArchived)}
	}
	if re, ok := textRegex(q.Text); ok {
		filter["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"description": re},
			bson.M{"items.text": re},
		}
	}
	return filter
}
