package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ytakahashi/task-calendar/internal/models"
	"github.com/ytakahashi/task-calendar/internal/services"
)

func newTestServer(t *testing.T, store services.Store) *echo.Echo {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(NewHandler(services.NewPlanner(store, logger), logger))
}

func doRequest(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// eventBody mirrors a populated event as clients see it.
type eventBody struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Location    string            `json:"location"`
	IsAllDay    bool              `json:"isAllDay"`
	Status      string            `json:"status"`
	Attendees   []models.Attendee `json:"attendees"`
	TodoLists   []models.TodoList `json:"todoLists"`
}

type errorResponse struct {
	Error string `json:"error"`
}

const minimalEvent = `{"title":"Standup","startTime":"2025-03-01T09:00:00Z","endTime":"2025-03-01T09:15:00Z"}`

func createEvent(t *testing.T, e *echo.Echo) eventBody {
	t.Helper()
	rec := doRequest(t, e, http.MethodPost, "/api/events", minimalEvent)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[eventBody](t, rec)
}

func createList(t *testing.T, e *echo.Echo, body string) models.TodoList {
	t.Helper()
	rec := doRequest(t, e, http.MethodPost, "/api/todolists", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.TodoList](t, rec)
}

func TestHealth(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())
	rec := doRequest(t, e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateEvent(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{"minimal", minimalEvent, http.StatusCreated, ""},
		{"missing start", `{"title":"x","endTime":"2025-03-01T09:15:00Z"}`, http.StatusBadRequest, "startTime is required"},
		{"missing end", `{"title":"x","startTime":"2025-03-01T09:15:00Z"}`, http.StatusBadRequest, "endTime is required"},
		{"missing title", `{"startTime":"2025-03-01T09:00:00Z","endTime":"2025-03-01T09:15:00Z"}`, http.StatusBadRequest, "title is required"},
		{"bad status", `{"title":"x","startTime":"2025-03-01T09:00:00Z","endTime":"2025-03-01T09:15:00Z","status":"done"}`, http.StatusBadRequest, ""},
		{"malformed json", `{"title":`, http.StatusBadRequest, ""},
		{"bad time", `{"title":"x","startTime":"tomorrow","endTime":"2025-03-01T09:15:00Z"}`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(t, services.NewMemoryStore())
			rec := doRequest(t, e, http.MethodPost, "/api/events", tt.body)
			require.Equal(t, tt.expectedStatus, rec.Code, rec.Body.String())
			if tt.expectedStatus != http.StatusCreated {
				body := decode[errorResponse](t, rec)
				assert.NotEmpty(t, body.Error)
				if tt.expectedError != "" {
					assert.Equal(t, tt.expectedError, body.Error)
				}
			}
		})
	}
}

func TestCreateEvent_Defaults(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())
	event := createEvent(t, e)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "", event.Description)
	assert.False(t, event.IsAllDay)
	assert.Equal(t, "confirmed", event.Status)
	require.Len(t, event.Attendees, 1)
	assert.Equal(t, models.AttendeeAccepted, event.Attendees[0].Status)
	assert.True(t, event.Attendees[0].IsOrganizer)
	assert.NotNil(t, event.TodoLists)
	assert.Empty(t, event.TodoLists)
}

func TestEventLifecycle(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())
	event := createEvent(t, e)

	rec := doRequest(t, e, http.MethodPut, "/api/events/"+event.ID, `{"location":"Room 4"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[eventBody](t, rec)
	assert.Equal(t, "Room 4", updated.Location)
	assert.Equal(t, "Standup", updated.Title)

	for i := 0; i < 2; i++ {
		rec = doRequest(t, e, http.MethodDelete, "/api/events/"+event.ID, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode[struct {
			Message string    `json:"message"`
			Event   eventBody `json:"event"`
		}](t, rec)
		assert.Equal(t, "Event cancelled successfully", body.Message)
		assert.Equal(t, "cancelled", body.Event.Status)
	}

	rec = doRequest(t, e, http.MethodGet, "/api/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = doRequest(t, e, http.MethodGet, "/api/events/"+event.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancelled", decode[eventBody](t, rec).Status)
}

func TestEventNotFound(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/events/missing", ""},
		{http.MethodPut, "/api/events/missing", `{"title":"x"}`},
		{http.MethodDelete, "/api/events/missing", ""},
		{http.MethodDelete, "/api/events/missing/remove-list/any", ""},
		{http.MethodGet, "/api/events/missing/ics", ""},
	} {
		rec := doRequest(t, e, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.method+" "+tc.path)
		assert.JSONEq(t, `{"error":"Event not found"}`, rec.Body.String())
	}
}

func TestAssignAndRemoveList(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())
	event := createEvent(t, e)
	list := createList(t, e, `{"title":"Agenda"}`)

	for i := 0; i < 2; i++ {
		rec := doRequest(t, e, http.MethodPost, "/api/events/"+event.ID+"/assign-list/"+list.ID, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode[eventBody](t, rec)
		require.Len(t, got.TodoLists, 1)
		assert.Equal(t, list.ID, got.TodoLists[0].ID)
		assert.Equal(t, "Agenda", got.TodoLists[0].Title)
	}

	rec := doRequest(t, e, http.MethodPost, "/api/events/"+event.ID+"/assign-list/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Todo list not found"}`, rec.Body.String())

	rec = doRequest(t, e, http.MethodGet, "/api/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	events := decode[[]eventBody](t, rec)
	require.Len(t, events, 1)
	require.Len(t, events[0].TodoLists, 1)

	rec = doRequest(t, e, http.MethodDelete, "/api/events/"+event.ID+"/remove-list/not-attached", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[eventBody](t, rec).TodoLists, 1)

	rec = doRequest(t, e, http.MethodDelete, "/api/events/"+event.ID+"/remove-list/"+list.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[eventBody](t, rec).TodoLists)
}

func TestTodoListLifecycle(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())

	rec := doRequest(t, e, http.MethodPost, "/api/todolists", `{"description":"no title"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	list := createList(t, e, `{"title":"Groceries"}`)
	assert.Equal(t, models.DefaultListColor, list.Color)
	assert.Equal(t, models.ListActive, list.Status)
	assert.Empty(t, list.Items)

	rec = doRequest(t, e, http.MethodPut, "/api/todolists/"+list.ID, `{"color":"#ff0000"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "#ff0000", decode[models.TodoList](t, rec).Color)

	rec = doRequest(t, e, http.MethodPut, "/api/todolists/"+list.ID, `{"status":"gone"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodDelete, "/api/todolists/"+list.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Message  string          `json:"message"`
		TodoList models.TodoList `json:"todoList"`
	}](t, rec)
	assert.Equal(t, "Todo list archived successfully", body.Message)
	assert.Equal(t, models.ListArchived, body.TodoList.Status)

	rec = doRequest(t, e, http.MethodGet, "/api/todolists", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = doRequest(t, e, http.MethodGet, "/api/todolists/"+list.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.ListArchived, decode[models.TodoList](t, rec).Status)

	rec = doRequest(t, e, http.MethodGet, "/api/todolists/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Todo list not found"}`, rec.Body.String())
}

func TestItemRoundTrip(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())
	list := createList(t, e, `{"title":"Groceries"}`)

	rec := doRequest(t, e, http.MethodPost, "/api/todolists/"+list.ID+"/items", `{"text":"Buy milk"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	withItem := decode[models.TodoList](t, rec)
	require.Len(t, withItem.Items, 1)
	item := withItem.Items[0]
	assert.Equal(t, models.PriorityMedium, item.Priority)
	assert.False(t, item.Completed)

	rec = doRequest(t, e, http.MethodPatch, "/api/todolists/"+list.ID+"/items/"+item.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/api/todolists/"+list.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.TodoList](t, rec)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].Completed)
	assert.Equal(t, "Buy milk", got.Items[0].Text)

	rec = doRequest(t, e, http.MethodPut, "/api/todolists/"+list.ID+"/items/"+item.ID, `{"notes":"oat","priority":"high"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[models.TodoList](t, rec)
	assert.Equal(t, "oat", got.Items[0].Notes)
	assert.Equal(t, models.PriorityHigh, got.Items[0].Priority)
	assert.True(t, got.Items[0].Completed)

	rec = doRequest(t, e, http.MethodPost, "/api/todolists/"+list.ID+"/items", `{"notes":"no text"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodDelete, "/api/todolists/"+list.ID+"/items/"+item.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.TodoList](t, rec).Items)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodDelete, "/api/todolists/" + list.ID + "/items/" + item.ID, ""},
		{http.MethodPatch, "/api/todolists/" + list.ID + "/items/" + item.ID + "/toggle", ""},
		{http.MethodPut, "/api/todolists/" + list.ID + "/items/" + item.ID, `{"text":"x"}`},
	} {
		rec = doRequest(t, e, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, rec.Code, tc.method+" "+tc.path)
		assert.JSONEq(t, `{"error":"Todo item not found"}`, rec.Body.String())
	}
}

func TestBulkAddItems(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())
	list := createList(t, e, `{"title":"Groceries"}`)
	path := "/api/todolists/" + list.ID + "/items/bulk"

	for _, body := range []string{`{"items":{"text":"Buy milk"}}`, `{"items":"Buy milk"}`, `{}`} {
		rec := doRequest(t, e, http.MethodPost, path, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"error":"Items must be an array"}`, rec.Body.String())
	}

	rec := doRequest(t, e, http.MethodPost, path, `{"items":[{"text":"Buy milk"},{"text":""}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/api/todolists/"+list.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[models.TodoList](t, rec).Items)

	rec = doRequest(t, e, http.MethodPost, path, `{"items":[{"text":"Buy milk"},{"text":"Buy eggs","priority":"low"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode[models.TodoList](t, rec)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Buy milk", got.Items[0].Text)
	assert.Equal(t, models.PriorityLow, got.Items[1].Priority)

	rec = doRequest(t, e, http.MethodPost, "/api/todolists/missing/items/bulk", `{"items":[]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearch(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())

	list := createList(t, e, `{"title":"Groceries","items":[{"text":"Buy milk"}]}`)
	archived := createList(t, e, `{"title":"Old","items":[{"text":"Buy milk"}]}`)
	require.Equal(t, http.StatusOK, doRequest(t, e, http.MethodDelete, "/api/todolists/"+archived.ID, "").Code)
	createEvent(t, e)

	rec := doRequest(t, e, http.MethodGet, "/api/search?q=milk", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	results := decode[struct {
		Events    []eventBody       `json:"events"`
		TodoLists []models.TodoList `json:"todoLists"`
	}](t, rec)
	assert.NotNil(t, results.Events)
	assert.Empty(t, results.Events)
	require.Len(t, results.TodoLists, 1)
	assert.Equal(t, list.ID, results.TodoLists[0].ID)

	rec = doRequest(t, e, http.MethodGet, "/api/search?q=STAND&type=events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	raw := decode[map[string]json.RawMessage](t, rec)
	assert.NotContains(t, raw, "todoLists")
	var events []eventBody
	require.NoError(t, json.Unmarshal(raw["events"], &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Standup", events[0].Title)

	rec = doRequest(t, e, http.MethodGet, "/api/search?q=.*&type=todolists", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"todoLists":[]}`, rec.Body.String())

	rec = doRequest(t, e, http.MethodGet, "/api/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Search query is required"}`, rec.Body.String())

	rec = doRequest(t, e, http.MethodGet, "/api/search?q=milk&type=notes", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportICS(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())
	event := createEvent(t, e)
	list := createList(t, e, `{"title":"Groceries","items":[{"text":"Buy milk"}]}`)

	rec := doRequest(t, e, http.MethodGet, "/api/events/"+event.ID+"/ics", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, icalContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Body.String(), "BEGIN:VEVENT")
	assert.Contains(t, rec.Body.String(), "UID:"+event.ID)

	rec = doRequest(t, e, http.MethodGet, "/api/events/calendar.ics", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "SUMMARY:Standup")

	rec = doRequest(t, e, http.MethodGet, "/api/todolists/"+list.ID+"/ics", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "BEGIN:VTODO")
	assert.Contains(t, rec.Body.String(), "SUMMARY:Buy milk")
}

func TestUnknownRoute(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())
	rec := doRequest(t, e, http.MethodGet, "/api/nothing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, decode[errorResponse](t, rec).Error)
}

// failingStore fails the calls a test sets expectations for; any other
// call panics through the nil embedded Store.
type failingStore struct {
	services.Store
	mock.Mock
}

func (s *failingStore) FindEvents(ctx context.Context, q services.EventQuery) ([]*models.Event, error) {
	args := s.Called(q)
	return nil, args.Error(0)
}

func (s *failingStore) GetTodoList(ctx context.Context, id string) (*models.TodoList, error) {
	args := s.Called(id)
	return nil, args.Error(0)
}

func (s *failingStore) UpdateTodoList(ctx context.Context, id string, mutate func(*models.TodoList) error) (*models.TodoList, error) {
	args := s.Called(id)
	return nil, args.Error(0)
}

func TestStoreErrors(t *testing.T) {
	store := &failingStore{}
	store.On("FindEvents", services.EventQuery{LiveOnly: true}).Return(errors.New("connection refused"))
	store.On("GetTodoList", "l1").Return(errors.New("connection refused"))
	store.On("UpdateTodoList", "l1").Return(services.ErrConflict)
	e := newTestServer(t, store)

	rec := doRequest(t, e, http.MethodGet, "/api/events", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())

	rec = doRequest(t, e, http.MethodGet, "/api/todolists/l1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = doRequest(t, e, http.MethodDelete, "/api/todolists/l1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	store.AssertExpectations(t)
}

func TestUpdateEvent_AcceptsFetchedBody(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())
	event := createEvent(t, e)
	list := createList(t, e, `{"title":"Agenda","items":[{"text":"Slides"}]}`)
	require.Equal(t, http.StatusOK, doRequest(t, e, http.MethodPost, "/api/events/"+event.ID+"/assign-list/"+list.ID, "").Code)

	rec := doRequest(t, e, http.MethodGet, "/api/events/"+event.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decode[map[string]any](t, rec)
	fetched["title"] = "Standup (moved)"
	body, err := json.Marshal(fetched)
	require.NoError(t, err)

	rec = doRequest(t, e, http.MethodPut, "/api/events/"+event.ID, string(body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[eventBody](t, rec)
	assert.Equal(t, "Standup (moved)", got.Title)
	require.Len(t, got.TodoLists, 1)
	assert.Equal(t, list.ID, got.TodoLists[0].ID)
	assert.Equal(t, "Agenda", got.TodoLists[0].Title)
}

func TestUpdateEvent_EmptyStatusRejected(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())
	event := createEvent(t, e)
	require.Equal(t, http.StatusOK, doRequest(t, e, http.MethodDelete, "/api/events/"+event.ID, "").Code)

	rec := doRequest(t, e, http.MethodPut, "/api/events/"+event.ID, `{"status":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = doRequest(t, e, http.MethodGet, "/api/events/"+event.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cancelled", decode[eventBody](t, rec).Status)
}

func TestUpdateEvent_NullRecurrenceRuleClears(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())
	rec := doRequest(t, e, http.MethodPost, "/api/events",
		`{"title":"Standup","startTime":"2025-03-01T09:00:00Z","endTime":"2025-03-01T09:15:00Z","recurrenceRule":"FREQ=DAILY"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decode[eventBody](t, rec).ID

	rec = doRequest(t, e, http.MethodPut, "/api/events/"+id, `{"recurrenceRule":null}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Nil(t, decode[map[string]any](t, rec)["recurrenceRule"])
}

func TestDateOnlyInputs(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())

	rec := doRequest(t, e, http.MethodPost, "/api/events",
		`{"title":"Offsite","startTime":"2025-03-01","endTime":"2025-03-02","isAllDay":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	event := decode[struct {
		ID        string    `json:"id"`
		StartTime time.Time `json:"startTime"`
		EndTime   time.Time `json:"endTime"`
	}](t, rec)
	assert.True(t, event.StartTime.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, event.EndTime.Equal(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)))

	rec = doRequest(t, e, http.MethodGet, "/api/events/"+event.ID+"/ics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "DTSTART;VALUE=DATE:20250301")

	list := createList(t, e, `{"title":"Groceries"}`)
	rec = doRequest(t, e, http.MethodPost, "/api/todolists/"+list.ID+"/items", `{"text":"a","dueDate":"2025-03-05"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode[models.TodoList](t, rec)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].DueDate)
	assert.True(t, got.Items[0].DueDate.Equal(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)))

	rec = doRequest(t, e, http.MethodPut, "/api/todolists/"+list.ID+"/items/"+got.Items[0].ID, `{"dueDate":"2025-03-06"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decode[models.TodoList](t, rec)
	require.NotNil(t, got.Items[0].DueDate)
	assert.True(t, got.Items[0].DueDate.Equal(time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)))
}

func TestEmptyEnumsRejected(t *testing.T) {
	e := newTestServer(t, services.NewMemoryStore())
	list := createList(t, e, `{"title":"Groceries","items":[{"text":"Buy milk","priority":"high"}]}`)
	itemID := list.Items[0].ID

	rec := doRequest(t, e, http.MethodPut, "/api/todolists/"+list.ID, `{"status":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = doRequest(t, e, http.MethodPut, "/api/todolists/"+list.ID+"/items/"+itemID, `{"priority":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = doRequest(t, e, http.MethodGet, "/api/todolists/"+list.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.TodoList](t, rec)
	assert.Equal(t, models.ListActive, got.Status)
	assert.Equal(t, models.PriorityHigh, got.Items[0].Priority)
}
