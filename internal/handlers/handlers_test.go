package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/stylelens/internal/activity"
	"github.com/nfrund/stylelens/internal/handlers"
	"github.com/nfrund/stylelens/internal/middleware"
	"github.com/nfrund/stylelens/internal/rendering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

func setupGateTest() *echo.Echo {
	e := echo.New()
	e.Validator = handlers.NewValidator()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))

	gh := handlers.NewGateHandler(rendering.NewUniversalRenderer())
	e.GET("/", handlers.NewHomeHandler().HomeGet)
	e.GET("/login", gh.LoginGet)
	e.POST("/login", gh.LoginPost)
	e.POST("/login/skip", gh.Skip)
	e.GET("/app", func(c echo.Context) error {
		return c.String(http.StatusOK, "email="+c.Get(middleware.EmailContextKey).(string))
	}, middleware.RequireSession())
	return e
}

// assertFlashMessage is a test helper to check for a specific flash message in the session.
func assertFlashMessage(t *testing.T, req *http.Request, key, expectedMessage string) {
	t.Helper()

	cookieStore := sessions.NewCookieStore([]byte(testSessionSecret))
	sess, _ := cookieStore.Get(req, "flash-session")

	flashes := sess.Flashes(key)
	require.NotEmpty(t, flashes, "expected flash message but found none for key: %s", key)
	assert.Equal(t, expectedMessage, flashes[0])
}

func serve(e *echo.Echo, req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func TestGate(t *testing.T) {
	e := setupGateTest()

	t.Run("app is closed before the gate", func(t *testing.T) {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/app", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, middleware.LoginPath, rec.Header().Get(echo.HeaderLocation))

		rec = serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, middleware.LoginPath, rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("renders login and signup", func(t *testing.T) {
		rec := serve(e, httptest.NewRequest(http.MethodGet, "/login", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Don&#39;t have an account?")
		assert.Contains(t, rec.Body.String(), `action="/login/skip"`)

		rec = serve(e, httptest.NewRequest(http.MethodGet, "/login?mode=signup", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `name="full_name"`)
	})

	t.Run("any submit opens the app", func(t *testing.T) {
		rec := serve(e, postForm("/login", url.Values{"email": {"ada@example.com"}, "password": {"x"}}))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/app", rec.Header().Get(echo.HeaderLocation))

		app := serve(e, httptest.NewRequest(http.MethodGet, "/app", nil), rec.Result().Cookies()...)
		assert.Equal(t, http.StatusOK, app.Code)
		assert.Equal(t, "email=ada@example.com", app.Body.String())

		again := serve(e, httptest.NewRequest(http.MethodGet, "/login", nil), rec.Result().Cookies()...)
		assert.Equal(t, http.StatusSeeOther, again.Code, "there is no way back to the gate")
	})

	t.Run("skip opens the app", func(t *testing.T) {
		rec := serve(e, postForm("/login/skip", url.Values{}))
		require.Equal(t, http.StatusSeeOther, rec.Code)

		app := serve(e, httptest.NewRequest(http.MethodGet, "/app", nil), rec.Result().Cookies()...)
		assert.Equal(t, http.StatusOK, app.Code)
	})

	t.Run("malformed email goes back with a flash", func(t *testing.T) {
		req := postForm("/login", url.Values{"email": {"not-an-email"}, "mode": {"signup"}})
		rec := serve(e, req)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login?mode=signup", rec.Header().Get(echo.HeaderLocation))
		assertFlashMessage(t, req, "error", "Please enter a valid email address.")
		assertFlashMessage(t, req, "form_email", "not-an-email")
	})

	t.Run("htmx requests get HX-Redirect", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/app", nil)
		req.Header.Set("HX-Request", "true")
		rec := serve(e, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, middleware.LoginPath, rec.Header().Get("HX-Redirect"))
	})
}

func TestHealth(t *testing.T) {
	e := echo.New()
	e.GET("/health", handlers.NewHealthHandler(activity.NewTracker()).HealthGet)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp handlers.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Zero(t, resp.Activity.ReportsGenerated)
}
