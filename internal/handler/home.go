package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Home renders the landing page.
func (h *Handler) Home(c echo.Context) error {
	return h.render(c, http.StatusOK, "pages/home.html", nil)
}
