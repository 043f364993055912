package server

import (
	"context"
	"fmt"

	"github.com/nfrund/stylelens/internal/activity"
	"github.com/nfrund/stylelens/internal/analysis"
	"github.com/nfrund/stylelens/internal/app"
	"github.com/nfrund/stylelens/internal/config"
	"github.com/nfrund/stylelens/internal/pubsub"
	"github.com/nfrund/stylelens/internal/registry"
	"github.com/nfrund/stylelens/internal/rendering"
	"github.com/nfrund/stylelens/internal/storage"
)

// Build wires the core services, the modules and the routes into a ready
// server. It is what cmd/server runs and what the integration tests start.
func Build(ctx context.Context, cfg config.Provider) (*Server, error) {
	bridge := pubsub.NewWatermillBridge(false)

	tracker := activity.NewTracker()
	if err := tracker.Start(ctx, bridge); err != nil {
		_ = bridge.Close()
		return nil, fmt.Errorf("start activity tracker: %w", err)
	}

	reg := registry.New(cfg)
	registry.Set(reg, registry.BlobStoreKey, storage.Store(storage.NewMemoryStore()))
	registry.Set(reg, registry.AnalysisClientKey, analysis.New(cfg.GetAnalysisBaseURL(), cfg.GetAnalysisTimeout()))

	renderer := rendering.NewUniversalRenderer()
	s, err := New(Dependencies{
		Config:    cfg,
		Renderer:  renderer,
		Publisher: bridge,
		Tracker:   tracker,
	})
	if err != nil {
		_ = bridge.Close()
		return nil, err
	}

	modules := app.NewModules(app.Dependencies{
		Publisher:  bridge,
		Subscriber: bridge,
		Renderer:   renderer,
	})
	if err := s.InitModules(ctx, modules, reg); err != nil {
		_ = bridge.Close()
		return nil, fmt.Errorf("init modules: %w", err)
	}
	s.RegisterRoutes()
	return s, nil
}
