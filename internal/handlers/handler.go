package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/ytakahashi/task-calendar/internal/models"
	"github.com/ytakahashi/task-calendar/internal/services"
)

type Handler struct {
	planner *services.Planner
	logger  *slog.Logger
}

func NewHandler(planner *services.Planner, logger *slog.Logger) *Handler {
	return &Handler{
		planner: planner,
		logger:  logger,
	}
}

// NewServer returns an echo instance with middleware and every route registered.
func NewServer(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = h.handleHTTPError

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.Register(e)
	return e
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)

	api := e.Group("/api")

	api.GET("/events", h.ListEvents)
	api.GET("/events/calendar.ics", h.ExportEvents)
	api.GET("/events/:id", h.GetEvent)
	api.GET("/events/:id/ics", h.ExportEvent)
	api.POST("/events", h.CreateEvent)
	api.PUT("/events/:id", h.UpdateEvent)
	api.DELETE("/events/:id", h.DeleteEvent)
	api.POST("/events/:id/assign-list/:listId", h.AssignList)
	api.DELETE("/events/:id/remove-list/:listId", h.RemoveList)

	api.GET("/todolists", h.ListTodoLists)
	api.GET("/todolists/:id", h.GetTodoList)
	api.GET("/todolists/:id/ics", h.ExportTodoList)
	api.POST("/todolists", h.CreateTodoList)
	api.PUT("/todolists/:id", h.UpdateTodoList)
	api.DELETE("/todolists/:id", h.DeleteTodoList)

	api.POST("/todolists/:id/items", h.AddItem)
	api.POST("/todolists/:id/items/bulk", h.AddItems)
	api.PUT("/todolists/:id/items/:itemId", h.UpdateItem)
	api.DELETE("/todolists/:id/items/:itemId", h.RemoveItem)
	api.PATCH("/todolists/:id/items/:itemId/toggle", h.ToggleItem)

	api.GET("/search", h.Search)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// bindJSON decodes the request body whatever its content type. An empty
// body decodes as an empty object.
func bindJSON(c echo.Context, v any) error {
	err := c.Echo().JSONSerializer.Deserialize(c, v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// respondError is the single place where errors become HTTP responses.
func (h *Handler) respondError(c echo.Context, err error) error {
	var (
		ve *models.ValidationError
		nf *services.NotFoundError
		he *echo.HTTPError
	)
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, errorBody(ve.Error()))
	case errors.As(err, &nf):
		return c.JSON(http.StatusNotFound, errorBody(nf.Error()))
	case errors.Is(err, services.ErrConflict):
		return c.JSON(http.StatusConflict, errorBody("document was modified concurrently, retry the request"))
	case errors.As(err, &he):
		return c.JSON(he.Code, errorBody(fmt.Sprint(he.Message)))
	}

	h.logger.Error("request failed",
		"method", c.Request().Method,
		"path", c.Path(),
		"error", err,
	)
	return c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
}

func (h *Handler) handleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	if respErr := h.respondError(c, err); respErr != nil {
		h.logger.Error("failed to write error response", "error", respErr)
	}
}
