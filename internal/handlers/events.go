package handlers

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ytakahashi/task-calendar/internal/models"
	"github.com/ytakahashi/task-calendar/internal/services"
)

const icalContentType = "text/calendar; charset=utf-8"

func (h *Handler) ListEvents(c echo.Context) error {
	events, err := h.planner.ListEvents(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

func (h *Handler) GetEvent(c echo.Context) error {
	event, err := h.planner.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

func (h *Handler) CreateEvent(c echo.Context) error {
	var input models.EventInput
	if err := bindJSON(c, &input); err != nil {
		return h.respondError(c, err)
	}

	event, err := h.planner.CreateEvent(c.Request().Context(), input)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, event)
}

func (h *Handler) UpdateEvent(c echo.Context) error {
	var patch models.EventPatch
	if err := bindJSON(c, &patch); err != nil {
		return h.respondError(c, err)
	}

	event, err := h.planner.UpdateEvent(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

func (h *Handler) DeleteEvent(c echo.Context) error {
	event, err := h.planner.CancelEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Event cancelled successfully",
		"event":   event,
	})
}

func (h *Handler) AssignList(c echo.Context) error {
	event, err := h.planner.AttachTodoList(c.Request().Context(), c.Param("id"), c.Param("listId"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

func (h *Handler) RemoveList(c echo.Context) error {
	event, err := h.planner.DetachTodoList(c.Request().Context(), c.Param("id"), c.Param("listId"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

func (h *Handler) ExportEvents(c echo.Context) error {
	events, err := h.planner.ListEvents(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}

	plain := make([]*models.Event, 0, len(events))
	for _, e := range events {
		plain = append(plain, e.Event)
	}

	var buf bytes.Buffer
	if err := services.EncodeEvents(&buf, plain...); err != nil {
		return h.respondError(c, err)
	}
	return c.Blob(http.StatusOK, icalContentType, buf.Bytes())
}

func (h *Handler) ExportEvent(c echo.Context) error {
	event, err := h.planner.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.respondError(c, err)
	}

	var buf bytes.Buffer
	if err := services.EncodeEvents(&buf, event.Event); err != nil {
		return h.respondError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+event.ID+`.ics"`)
	return c.Blob(http.StatusOK, icalContentType, buf.Bytes())
}
