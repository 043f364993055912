package report

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/stylelens/internal/middleware"
	"github.com/nfrund/stylelens/internal/module"
	"github.com/nfrund/stylelens/internal/pubsub"
	"github.com/nfrund/stylelens/internal/registry"
	"github.com/nfrund/stylelens/internal/rendering"
)

// ReportModule relays report requests to the analysis backend and serves the
// single-use downloads.
type ReportModule struct {
	module.BaseModule
	publisher pubsub.Publisher
	renderer  rendering.Renderer
	vault     *Vault
}

// Dependencies holds all the services that the ReportModule requires to operate.
type Dependencies struct {
	Publisher pubsub.Publisher
	Renderer  rendering.Renderer
}

// New creates a new instance of the ReportModule, injecting its dependencies.
func New(deps Dependencies) *ReportModule {
	return &ReportModule{
		publisher: deps.Publisher,
		renderer:  deps.Renderer,
	}
}

// Name returns the module name.
func (m *ReportModule) Name() string {
	return "report"
}

// Boot sets up the report routes. Submissions are rate limited per client IP.
func (m *ReportModule) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	cfg := reg.Config()
	m.vault = NewVault(registry.MustGet(reg, registry.BlobStoreKey), cfg.GetReportTTL())
	handler := NewHandler(
		registry.MustGet(reg, registry.DraftsKey),
		registry.MustGet(reg, registry.AnalysisClientKey),
		m.vault,
		m.publisher,
		m.renderer,
	)

	rg := g.Group("/reports")
	rg.POST("", handler.Create, middleware.RateLimiter(cfg.GetReportRateLimit()))
	rg.GET("/:token", handler.Download)
	return nil
}

// Shutdown discards reports that were never downloaded.
func (m *ReportModule) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down ReportModule...")
	if m.vault != nil {
		m.vault.Flush()
	}
	return nil
}
