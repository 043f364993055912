package capture

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/stylelens/internal/capture"
	"github.com/nfrund/stylelens/internal/module"
	"github.com/nfrund/stylelens/internal/pubsub"
	"github.com/nfrund/stylelens/internal/registry"
	"github.com/nfrund/stylelens/internal/rendering"
)

// CaptureModule owns the main screen and the active image of each capture form.
type CaptureModule struct {
	module.BaseModule
	publisher pubsub.Publisher
	renderer  rendering.Renderer
	drafts    *capture.Drafts
}

// Dependencies holds all the services that the CaptureModule requires to operate.
type Dependencies struct {
	Publisher pubsub.Publisher
	Renderer  rendering.Renderer
}

// New creates a new instance of the CaptureModule, injecting its dependencies.
func New(deps Dependencies) *CaptureModule {
	return &CaptureModule{
		publisher: deps.Publisher,
		renderer:  deps.Renderer,
	}
}

// Name returns the module name.
func (m *CaptureModule) Name() string {
	return "capture"
}

// Register creates the draft registry and shares it with the report module.
func (m *CaptureModule) Register(reg *registry.Registry) error {
	store := registry.MustGet(reg, registry.BlobStoreKey)
	m.drafts = capture.NewDrafts(store, reg.Config().GetDraftTTL())
	registry.Set(reg, registry.DraftsKey, m.drafts)
	return nil
}

// Boot sets up the main view and the capture routes.
func (m *CaptureModule) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	cfg := reg.Config()
	handler := NewHandler(
		m.drafts,
		registry.MustGet(reg, registry.AnalysisClientKey),
		m.publisher,
		m.renderer,
		capture.Limits{MaxBytes: cfg.GetMaxUploadBytes(), AllowedTypes: cfg.GetAllowedImageTypes()},
	)

	g.GET("", handler.Page)

	cg := g.Group("/capture")
	cg.POST("/upload", handler.Upload)
	cg.POST("/snapshot", handler.Snapshot)
	cg.POST("/mode", handler.Mode)
	cg.POST("/reset", handler.Reset)
	cg.GET("/:id/image", handler.Image)
	cg.GET("/:id/color", handler.Color)
	return nil
}

// Shutdown drops every draft and its image bytes.
func (m *CaptureModule) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down CaptureModule...")
	if m.drafts != nil {
		m.drafts.Flush()
	}
	return nil
}
