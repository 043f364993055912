package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/stylelens/internal/middleware"
)

// HomeHandler handles requests for the root path.
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// HomeGet sends visitors to the gate, or straight to the app once past it.
func (h *HomeHandler) HomeGet(c echo.Context) error {
	if middleware.LoggedIn(c) {
		return c.Redirect(http.StatusSeeOther, appPath)
	}
	return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}
