package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/stylelens/internal/config"
	"github.com/nfrund/stylelens/internal/logging"
	"github.com/nfrund/stylelens/internal/middleware"
)

// ConfigForTests loads the .env.test file, applies overrides and returns a
// valid config.Provider. This is the definitive way to get configuration for
// integration tests.
func ConfigForTests(t *testing.T, overrides map[string]string) config.Provider {
	t.Helper()

	// Find the project root by looking for go.mod to reliably locate .env.test.
	path, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			break
		}
		if path == filepath.Dir(path) {
			t.Fatalf("could not find project root with go.mod")
		}
		path = filepath.Dir(path)
	}

	env, err := godotenv.Read(filepath.Join(path, ".env.test"))
	if err != nil {
		t.Fatalf("failed to load .env.test file: %v", err)
	}
	for key, value := range overrides {
		env[key] = value
	}
	// t.Setenv restores the previous values when the test ends.
	for key, value := range env {
		t.Setenv(key, value)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("invalid test configuration: %v", err)
	}
	logging.New(cfg.GetLogFormat(), cfg.GetLogLevel())
	return cfg
}

// WithSession stands in for middleware.RequireSession in handler tests: every
// request belongs to the browser session sid.
func WithSession(sid string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.SessionIDContextKey, sid)
			return next(c)
		}
	}
}
