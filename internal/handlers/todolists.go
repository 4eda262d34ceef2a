package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ytakahashi/task-calendar/internal/models"
	"github.com/ytakahashi/task-calendar/internal/services"
)

func (h *Handler) ListTodoLists(c echo.Context) error {
	lists, err := h.planner.ListTodoLists(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, lists)
}

func (h *Handler) GetTodoList(c echo.Context) error {
	list, err := h.planner.GetTodoList(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateTodoList(c echo.Context) error {
	var input models.TodoListInput
	if err := bindJSON(c, &input); err != nil {
		return h.respondError(c, err)
	}

	list, err := h.planner.CreateTodoList(c.Request().Context(), input)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, list)
}

func (h *Handler) UpdateTodoList(c echo.Context) error {
	var patch models.TodoListPatch
	if err := bindJSON(c, &patch); err != nil {
		return h.respondError(c, err)
	}

	list, err := h.planner.UpdateTodoList(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) DeleteTodoList(c echo.Context) error {
	list, err := h.planner.ArchiveTodoList(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":  "Todo list archived successfully",
		"todoList": list,
	})
}

func (h *Handler) ExportTodoList(c echo.Context) error {
	list, err := h.planner.GetTodoList(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.respondError(c, err)
	}

	var buf bytes.Buffer
	if err := services.EncodeTodoList(&buf, list); err != nil {
		return h.respondError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+list.ID+`.ics"`)
	return c.Blob(http.StatusOK, icalContentType, buf.Bytes())
}

func (h *Handler) AddItem(c echo.Context) error {
	var input models.TodoItemInput
	if err := bindJSON(c, &input); err != nil {
		return h.respondError(c, err)
	}

	list, err := h.planner.AddItems(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, list)
}

func (h *Handler) AddItems(c echo.Context) error {
	var body struct {
		Items json.RawMessage `json:"items"`
	}
	if err := bindJSON(c, &body); err != nil {
		return h.respondError(c, err)
	}

	raw := bytes.TrimSpace(body.Items)
	if len(raw) == 0 || raw[0] != '[' {
		return h.respondError(c, &models.ValidationError{Message: "Items must be an array"})
	}
	var items []models.TodoItemInput
	if err := json.Unmarshal(raw, &items); err != nil {
		return h.respondError(c, echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err))
	}

	list, err := h.planner.AddItems(c.Request().Context(), c.Param("id"), items...)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, list)
}

func (h *Handler) UpdateItem(c echo.Context) error {
	var patch models.TodoItemPatch
	if err := bindJSON(c, &patch); err != nil {
		return h.respondError(c, err)
	}

	list, err := h.planner.UpdateItem(c.Request().Context(), c.Param("id"), c.Param("itemId"), patch)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) RemoveItem(c echo.Context) error {
	list, err := h.planner.RemoveItem(c.Request().Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) ToggleItem(c echo.Context) error {
	list, err := h.planner.ToggleItem(c.Request().Context(), c.Param("id"), c.Param("itemId"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
