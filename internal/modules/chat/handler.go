package chat

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/stylelens/internal/domain"
	"github.com/nfrund/stylelens/internal/middleware"
	"github.com/nfrund/stylelens/internal/pubsub"
	"github.com/nfrund/stylelens/internal/rendering"
	"github.com/nfrund/stylelens/internal/view/dto/studio"
	"github.com/nfrund/stylelens/web/src/templates/partials"
	g "maragu.dev/gomponents"
)

// Replier answers a chat message.
type Replier interface {
	Chat(ctx context.Context, message string) (string, error)
}

// Handler serves the chat widget.
type Handler struct {
	store     *Store
	replier   Replier
	publisher pubsub.Publisher
	renderer  rendering.Renderer
}

// NewHandler creates a new chat handler with its dependencies.
func NewHandler(store *Store, replier Replier, pub pubsub.Publisher, r rendering.Renderer) *Handler {
	return &Handler{store: store, replier: replier, publisher: pub, renderer: r}
}

// OpenPanel creates a panel with the greeting.
func (h *Handler) OpenPanel(c echo.Context) error {
	conv := h.store.Open(middleware.SessionID(c))
	middleware.FromContext(c.Request().Context()).Debug("Chat panel opened", "panel_id", conv.ID)
	return h.renderer.RenderPage(c, http.StatusOK, partials.ChatPanel(panelView(conv)))
}

// Send appends the user entry and answers with its bubble plus a placeholder
// that fetches the reply. Blank messages change nothing.
func (h *Handler) Send(c echo.Context) error {
	id := c.Param("id")
	entry, err := h.store.Send(middleware.SessionID(c), id, c.FormValue("message"))
	switch {
	case errors.Is(err, domain.ErrEmptyMessage):
		return c.NoContent(http.StatusNoContent)
	case errors.Is(err, domain.ErrRequestInFlight):
		return echo.NewHTTPError(http.StatusConflict, "Please wait for the assistant to answer.")
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "This chat has expired. Please reload the page.")
	case err != nil:
		return err
	}

	return h.renderer.RenderPage(c, http.StatusOK, g.Group{
		partials.ChatBubble(bubble(entry)),
		partials.PendingBubble(id),
	})
}

// Reply performs the backend call for the pending message and appends exactly
// one bot entry: the reply, or the failure notice.
func (h *Handler) Reply(c echo.Context) error {
	ctx := c.Request().Context()
	log := middleware.FromContext(ctx)
	sid := middleware.SessionID(c)
	id := c.Param("id")

	message, err := h.store.BeginReply(sid, id)
	switch {
	case errors.Is(err, domain.ErrRequestInFlight):
		return echo.NewHTTPError(http.StatusConflict, "No message is waiting for a reply.")
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "This chat has expired. Please reload the page.")
	case err != nil:
		return err
	}

	text, err := h.replier.Chat(ctx, message)
	failed := err != nil || text == ""
	if failed {
		log.Warn("Chat reply failed", "panel_id", id, "error", err)
		text = domain.ChatFailureNotice
	}

	entry, err := h.store.CompleteReply(sid, id, text)
	if err != nil {
		return err
	}

	if h.publisher != nil {
		if err := pubsub.Publish(ctx, h.publisher, pubsub.TopicChatExchanged, sid, pubsub.ChatExchanged{
			PanelID: id,
			Failed:  failed,
			At:      time.Now().UTC(),
		}); err != nil {
			log.Warn("Failed to publish chat event", "error", err)
		}
	}

	return h.renderer.RenderPage(c, http.StatusOK, partials.ChatBubble(bubble(entry)))
}

// Transcript returns the conversation as JSON.
func (h *Handler) Transcript(c echo.Context) error {
	conv, err := h.store.Conversation(middleware.SessionID(c), c.Param("id"))
	if errors.Is(err, domain.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "chat panel not found")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, conv)
}

func bubble(e domain.ChatEntry) studio.ChatMessage {
	return studio.ChatMessage{Sender: string(e.Sender), Text: e.Text}
}

func panelView(conv domain.Conversation) studio.ChatPanelData {
	d := studio.ChatPanelData{PanelID: conv.ID}
	for _, e := range conv.Entries {
		d.Messages = append(d.Messages, bubble(e))
	}
	return d
}
