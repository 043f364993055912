package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/stylelens/internal/analysis"
	"github.com/nfrund/stylelens/internal/capture"
	"github.com/nfrund/stylelens/internal/domain"
	"github.com/nfrund/stylelens/internal/middleware"
	"github.com/nfrund/stylelens/internal/pubsub"
	"github.com/nfrund/stylelens/internal/rendering"
	"github.com/nfrund/stylelens/internal/view"
	"github.com/nfrund/stylelens/internal/view/dto/studio"
	"github.com/nfrund/stylelens/web/src/templates/partials"
	g "maragu.dev/gomponents"
)

// ReadyEvent is the htmx trigger that makes the browser save the report.
const ReadyEvent = "report-ready"

const (
	msgFixFields  = "Please fix the highlighted fields."
	msgInFlight   = "Your report is already being generated."
	msgReady      = "Your report is ready. The download has started."
	msgGone       = "This report has already been downloaded or has expired."
	msgExpired    = "This form has expired. Please reload the page."
	msgStoreError = "The report could not be prepared. Please try again."
)

// Generator produces the PDF report for a profile and image.
type Generator interface {
	GeneratePDF(ctx context.Context, p domain.Profile, img *domain.Image) (*analysis.Report, error)
}

// Handler validates report requests, relays them and hands out the download.
type Handler struct {
	drafts    *capture.Drafts
	generator Generator
	vault     *Vault
	guard     *inflight
	publisher pubsub.Publisher
	renderer  rendering.Renderer
}

// NewHandler creates a new report handler with its dependencies.
func NewHandler(drafts *capture.Drafts, gen Generator, vault *Vault, pub pubsub.Publisher, r rendering.Renderer) *Handler {
	return &Handler{
		drafts:    drafts,
		generator: gen,
		vault:     vault,
		guard:     newInflight(),
		publisher: pub,
		renderer:  r,
	}
}

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

// Create handles POST /app/reports. Validation failures answer 422, a second
// submit for the same draft 409 and a backend failure 502; only a stored
// report produces a download.
func (h *Handler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	log := middleware.FromContext(ctx)
	sid := middleware.SessionID(c)
	draftID := c.FormValue("draft_id")

	in := domain.ProfileInput{
		Name:     c.FormValue(domain.FieldName),
		Age:      c.FormValue(domain.FieldAge),
		Vibe:     c.FormValue(domain.FieldVibe),
		BodyType: c.FormValue(domain.FieldBodyType),
	}

	state, err := h.drafts.State(sid, draftID)
	if err != nil {
		return h.expired(c, err)
	}
	profile, ferrs := domain.ParseProfile(in, state.HasImage)
	if ferrs != nil {
		log.Info("Report request rejected", "draft_id", draftID, "fields", ferrs.Error())
		return h.invalid(c, ferrs)
	}

	release, err := h.guard.acquire(draftID)
	if err != nil {
		log.Info("Report request already in flight", "draft_id", draftID)
		return h.respond(c, http.StatusConflict, studio.ReportStatusData{Status: string(domain.StatusLoading), Message: msgInFlight}, nil)
	}
	defer release()

	img, err := h.drafts.Image(ctx, sid, draftID)
	if errors.Is(err, domain.ErrImageRequired) {
		return h.invalid(c, domain.FieldErrors{domain.FieldImage: domain.MsgImageMissing})
	}
	if err != nil {
		return h.expired(c, err)
	}

	started := time.Now()
	report, err := h.generator.GeneratePDF(ctx, profile, img)
	if err != nil {
		return h.failed(c, draftID, err)
	}

	token, err := h.vault.Put(ctx, sid, report)
	if err != nil {
		log.Error("Failed to store report", "draft_id", draftID, "error", err)
		return h.respond(c, http.StatusInternalServerError, studio.ReportStatusData{Status: string(domain.StatusError), Message: msgStoreError}, domain.FieldErrors{})
	}

	log.Info("Report generated", "draft_id", draftID, "bytes", len(report.Data), "duration", time.Since(started))
	h.publish(ctx, sid, func(ctx context.Context) error {
		return pubsub.Publish(ctx, h.publisher, pubsub.TopicReportGenerated, sid, pubsub.ReportGenerated{
			DraftID: draftID,
			Bytes:   len(report.Data),
			Source:  string(img.Source),
			At:      time.Now().UTC(),
		})
	})

	url := "/app/reports/" + token
	if !isHTMX(c) {
		return c.Redirect(http.StatusSeeOther, url)
	}
	trigger, err := json.Marshal(map[string]any{
		ReadyEvent: map[string]string{"url": url, "filename": report.Filename},
	})
	if err != nil {
		return err
	}
	c.Response().Header().Set("HX-Trigger", string(trigger))
	return h.respond(c, http.StatusOK, studio.ReportStatusData{Status: string(domain.StatusSuccess), Message: msgReady}, domain.FieldErrors{})
}

// Download serves a stored report exactly once.
func (h *Handler) Download(c echo.Context) error {
	r, err := h.vault.Take(c.Request().Context(), middleware.SessionID(c), c.Param("token"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, msgGone)
		}
		return err
	}

	contentType := r.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", r.Filename))
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.Blob(http.StatusOK, contentType, r.Data)
}

func (h *Handler) failed(c echo.Context, draftID string, cause error) error {
	ctx := c.Request().Context()
	sid := middleware.SessionID(c)

	msg := "Could not reach the analysis service. Please try again."
	status := 0
	var aerr *analysis.Error
	if errors.As(cause, &aerr) {
		msg = aerr.UserMessage()
		status = aerr.StatusCode
	}
	middleware.FromContext(ctx).Warn("Report generation failed", "draft_id", draftID, "upstream_status", status, "error", cause)

	h.publish(ctx, sid, func(ctx context.Context) error {
		return pubsub.Publish(ctx, h.publisher, pubsub.TopicReportFailed, sid, pubsub.ReportFailed{
			DraftID:    draftID,
			StatusCode: status,
			Message:    msg,
			At:         time.Now().UTC(),
		})
	})

	if !isHTMX(c) {
		view.SetFlashError(c, "Failed to generate report: "+msg)
		return c.Redirect(http.StatusSeeOther, "/app")
	}
	return h.respond(c, http.StatusBadGateway, studio.ReportStatusData{Status: string(domain.StatusError), Message: msg}, domain.FieldErrors{})
}

func (h *Handler) invalid(c echo.Context, ferrs domain.FieldErrors) error {
	if !isHTMX(c) {
		view.SetFlashError(c, ferrs.Error())
		return c.Redirect(http.StatusSeeOther, "/app")
	}
	return h.respond(c, http.StatusUnprocessableEntity, studio.ReportStatusData{Status: string(domain.StatusIdle), Message: msgFixFields}, ferrs)
}

func (h *Handler) expired(c echo.Context, err error) error {
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if !isHTMX(c) {
		view.SetFlashError(c, msgExpired)
		return c.Redirect(http.StatusSeeOther, "/app")
	}
	c.Response().Header().Set("HX-Refresh", "true")
	return echo.NewHTTPError(http.StatusNotFound, msgExpired)
}

// respond renders the status area; non-nil field errors also refresh every
// field slot out of band.
func (h *Handler) respond(c echo.Context, status int, d studio.ReportStatusData, ferrs domain.FieldErrors) error {
	nodes := g.Group{partials.ReportStatus(d)}
	if ferrs != nil {
		nodes = append(nodes, partials.FieldErrors(ferrs))
	}
	return h.renderer.RenderPage(c, status, nodes)
}

// publish sends an event without letting a bus failure affect the response.
func (h *Handler) publish(ctx context.Context, sid string, send func(context.Context) error) {
	if h.publisher == nil {
		return
	}
	if err := send(ctx); err != nil {
		middleware.FromContext(ctx).Warn("Failed to publish report event", "session_id", sid, "error", err)
	}
}
