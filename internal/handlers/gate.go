package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/stylelens/internal/middleware"
	"github.com/nfrund/stylelens/internal/rendering"
	"github.com/nfrund/stylelens/internal/view"
	"github.com/nfrund/stylelens/internal/view/dto/gate"
	"github.com/nfrund/stylelens/web/src/templates/pages"
)

const appPath = "/app"

// GateHandler serves the login/signup card. Nothing is verified: any submit
// or the skip button opens the app.
type GateHandler struct {
	renderer rendering.Renderer
}

// NewGateHandler creates a new GateHandler.
func NewGateHandler(r rendering.Renderer) *GateHandler {
	return &GateHandler{renderer: r}
}

// LoginGet renders the gate (GET /login, GET /login?mode=signup).
// It retrieves flash messages and the email of a rejected submit.
func (h *GateHandler) LoginGet(c echo.Context) error {
	if middleware.LoggedIn(c) {
		return c.Redirect(http.StatusSeeOther, appPath)
	}

	var prefilledEmail string
	if sess, err := session.Get("flash-session", c); err == nil {
		if flashes := sess.Flashes("form_email"); len(flashes) > 0 {
			if val, ok := flashes[0].(string); ok {
				prefilledEmail = val
			}
		}
		// Saving clears the consumed "form_email" flash.
		_ = sess.Save(c.Request(), c.Response())
	}

	data := gate.LoginData{
		Signup: c.QueryParam("mode") == "signup",
		Email:  prefilledEmail,
		Lines:  gate.Encouragement,
	}
	return h.renderer.RenderPage(c, http.StatusOK, pages.Login(data, view.GetFlashData(c)))
}

// LoginPost handles both the login and the signup variant of the form.
func (h *GateHandler) LoginPost(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	req.Email = strings.TrimSpace(req.Email)

	back := middleware.LoginPath
	if req.Mode == "signup" {
		back += "?mode=signup"
	}
	if err := c.Validate(&req); err != nil {
		if sess, serr := session.Get("flash-session", c); serr == nil {
			sess.AddFlash(req.Email, "form_email")
			_ = sess.Save(c.Request(), c.Response())
		}
		view.SetFlashError(c, "Please enter a valid email address.")
		return c.Redirect(http.StatusSeeOther, back)
	}

	return h.enter(c, req.Email)
}

// Skip opens the app without filling in the form.
func (h *GateHandler) Skip(c echo.Context) error {
	return h.enter(c, "")
}

func (h *GateHandler) enter(c echo.Context, email string) error {
	if err := middleware.StartSession(c, email); err != nil {
		slog.Error("Failed to start session", "error", err)
		view.SetFlashError(c, "Could not start your session. Please try again.")
		return c.Redirect(http.StatusSeeOther, middleware.LoginPath)
	}
	return c.Redirect(http.StatusSeeOther, appPath)
}
