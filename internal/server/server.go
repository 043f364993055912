package server

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/stylelens/internal/activity"
	"github.com/nfrund/stylelens/internal/config"
	"github.com/nfrund/stylelens/internal/handlers"
	appmiddleware "github.com/nfrund/stylelens/internal/middleware"
	"github.com/nfrund/stylelens/internal/module"
	"github.com/nfrund/stylelens/internal/pubsub"
	"github.com/nfrund/stylelens/internal/registry"
	"github.com/nfrund/stylelens/internal/rendering"
	"github.com/nfrund/stylelens/web"
)

// Dependencies holds the services the server is built from.
type Dependencies struct {
	Config    config.Provider
	Renderer  *rendering.UniversalRenderer
	Publisher pubsub.Publisher
	Tracker   *activity.Tracker
	// Echo is optional; tests pass their own instance.
	Echo *echo.Echo
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	E         *echo.Echo
	Cfg       config.Provider
	Renderer  *rendering.UniversalRenderer
	publisher pubsub.Publisher
	tracker   *activity.Tracker
	appGroup  *echo.Group
	modules   []module.Module
}

// New creates a new Server instance with the global middleware chain and the
// gated /app group that modules mount their routes on.
func New(deps Dependencies) (*Server, error) {
	if deps.Config == nil {
		return nil, errors.New("server: config is required")
	}
	if deps.Renderer == nil {
		return nil, errors.New("server: renderer is required")
	}

	e := deps.Echo
	if e == nil {
		e = echo.New()
	}
	e.HideBanner = true
	e.Renderer = deps.Renderer
	e.Validator = handlers.NewValidator()

	e.Use(middleware.RequestID())
	e.Use(appmiddleware.Logger)
	e.Use(middleware.Recover())

	store := sessions.NewCookieStore([]byte(deps.Config.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	e.StaticFS("/static", web.Static())
	setupErrorHandling(e)

	return &Server{
		E:         e,
		Cfg:       deps.Config,
		Renderer:  deps.Renderer,
		publisher: deps.Publisher,
		tracker:   deps.Tracker,
		appGroup:  e.Group("/app", appmiddleware.RequireSession()),
	}, nil
}

// InitModules runs the register and boot phases of every module. Boot only
// starts once all modules have registered their shared services.
func (s *Server) InitModules(ctx context.Context, mods []module.Module, reg *registry.Registry) error {
	if err := module.RegisterAll(mods, reg); err != nil {
		return err
	}
	if err := module.BootAll(ctx, mods, s.appGroup, reg); err != nil {
		return err
	}
	s.modules = mods
	return nil
}

// setupErrorHandling logs unexpected errors with a stack trace and leaves the
// response to echo's default handler.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		log := appmiddleware.FromContext(c.Request().Context())

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Code >= http.StatusInternalServerError {
				log.Error("Request failed", "status", he.Code, "error", err)
			} else {
				log.Debug("Request rejected", "status", he.Code, "message", he.Message)
			}
		} else {
			log.Error("Internal Server Error (Unhandled)",
				"error", err.Error(),
				"path", c.Request().URL.Path,
				"stack_trace", string(debug.Stack()),
			)
		}

		e.DefaultHTTPErrorHandler(err, c)
	}
}
