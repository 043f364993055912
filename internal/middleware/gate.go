package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	// SessionName is the cookie session holding the gate flag.
	SessionName = "stylelens-session"

	sessionKeyLoggedIn = "logged_in"
	sessionKeyEmail    = "email"
	sessionKeyID       = "sid"

	// SessionIDContextKey holds the browser session id for downstream handlers.
	SessionIDContextKey = "session_id"
	// EmailContextKey holds the address entered at the gate, possibly empty.
	EmailContextKey = "email"

	LoginPath = "/login"
)

// StartSession marks the browser session as past the gate. There is no way
// back: the session only ends when the cookie expires.
func StartSession(c echo.Context, email string) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return err
	}
	sess.Values[sessionKeyLoggedIn] = true
	sess.Values[sessionKeyEmail] = email
	if _, ok := sess.Values[sessionKeyID].(string); !ok {
		sess.Values[sessionKeyID] = uuid.NewString()
	}
	return sess.Save(c.Request(), c.Response())
}

// LoggedIn reports whether the request carries a session that passed the gate.
func LoggedIn(c echo.Context) bool {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return false
	}
	ok, _ := sess.Values[sessionKeyLoggedIn].(bool)
	return ok
}

// RequireSession redirects visitors that have not passed the gate to the login page.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := session.Get(SessionName, c)
			if err != nil {
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}
			loggedIn, _ := sess.Values[sessionKeyLoggedIn].(bool)
			sid, _ := sess.Values[sessionKeyID].(string)
			if !loggedIn || sid == "" {
				if c.Request().Header.Get("HX-Request") == "true" {
					c.Response().Header().Set("HX-Redirect", LoginPath)
					return c.NoContent(http.StatusUnauthorized)
				}
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}

			email, _ := sess.Values[sessionKeyEmail].(string)
			c.Set(SessionIDContextKey, sid)
			c.Set(EmailContextKey, email)

			log := FromContext(c.Request().Context()).With("session_id", sid)
			c.SetRequest(c.Request().WithContext(WithLogger(c.Request().Context(), log)))
			return next(c)
		}
	}
}

// SessionID returns the id set by RequireSession, or "" outside gated routes.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(SessionIDContextKey).(string)
	return sid
}
