package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/stylelens/internal/activity"
)

// HealthHandler reports liveness and the event counters.
type HealthHandler struct {
	tracker *activity.Tracker
	started time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(tracker *activity.Tracker) *HealthHandler {
	return &HealthHandler{tracker: tracker, started: time.Now()}
}

// HealthGet handles GET /health.
func (h *HealthHandler) HealthGet(c echo.Context) error {
	resp := HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.started).Round(time.Second).String(),
	}
	if h.tracker != nil {
		resp.Activity = h.tracker.Snapshot()
	}
	return c.JSON(http.StatusOK, resp)
}
