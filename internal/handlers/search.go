package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Search handles GET /api/search?q=<text>&type=events|todolists.
func (h *Handler) Search(c echo.Context) error {
	results, err := h.planner.Search(c.Request().Context(), c.QueryParam("q"), c.QueryParam("type"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, results)
}
