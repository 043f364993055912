package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/stylelens/internal/module"
	"github.com/nfrund/stylelens/internal/pubsub"
	"github.com/nfrund/stylelens/internal/registry"
	"github.com/nfrund/stylelens/internal/rendering"
)

// staleReply is how long an unanswered message keeps a panel busy when the
// browser never fetched the reply.
const staleReply = 2 * time.Minute

// ChatModule implements the module.Module interface for the chat widget.
type ChatModule struct {
	module.BaseModule
	publisher pubsub.Publisher
	renderer  rendering.Renderer
	store     *Store
}

// Dependencies holds all the services that the ChatModule requires to operate.
type Dependencies struct {
	Publisher pubsub.Publisher
	Renderer  rendering.Renderer
}

// New creates a new instance of the ChatModule, injecting its dependencies.
func New(deps Dependencies) *ChatModule {
	return &ChatModule{
		publisher: deps.Publisher,
		renderer:  deps.Renderer,
	}
}

// Name returns the module name.
func (m *ChatModule) Name() string {
	return "chat"
}

// Boot sets up the chat routes under /app/chat.
func (m *ChatModule) Boot(ctx context.Context, g *echo.Group, reg *registry.Registry) error {
	m.store = NewStore(reg.Config().GetChatPanelTTL(), staleReply)
	handler := NewHandler(m.store, registry.MustGet(reg, registry.AnalysisClientKey), m.publisher, m.renderer)

	pg := g.Group("/chat/panels")
	pg.POST("", handler.OpenPanel)
	pg.GET("/:id", handler.Transcript)
	pg.POST("/:id/messages", handler.Send)
	pg.GET("/:id/reply", handler.Reply)
	return nil
}

// Shutdown is called on application termination.
func (m *ChatModule) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down ChatModule...")
	if m.store != nil {
		m.store.Flush()
	}
	return nil
}
