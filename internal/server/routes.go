package server

import (
	"github.com/nfrund/stylelens/internal/handlers"
	"github.com/nfrund/stylelens/internal/middleware"
)

// gateRateLimit bounds gate submissions per client IP and minute.
const gateRateLimit = 30

// RegisterRoutes sets up the routes outside the gated /app group.
func (s *Server) RegisterRoutes() {
	homeHandler := handlers.NewHomeHandler()
	gateHandler := handlers.NewGateHandler(s.Renderer)
	healthHandler := handlers.NewHealthHandler(s.tracker)
	rateLimiter := middleware.RateLimiter(gateRateLimit)

	s.E.GET("/", homeHandler.HomeGet)

	s.E.GET(middleware.LoginPath, gateHandler.LoginGet)
	s.E.POST(middleware.LoginPath, gateHandler.LoginPost, rateLimiter)
	s.E.POST(middleware.LoginPath+"/skip", gateHandler.Skip, rateLimiter)

	s.E.GET("/health", healthHandler.HealthGet)
}
