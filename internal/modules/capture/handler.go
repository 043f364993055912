package capture

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/stylelens/internal/capture"
	"github.com/nfrund/stylelens/internal/domain"
	"github.com/nfrund/stylelens/internal/middleware"
	"github.com/nfrund/stylelens/internal/pubsub"
	"github.com/nfrund/stylelens/internal/rendering"
	"github.com/nfrund/stylelens/internal/view"
	"github.com/nfrund/stylelens/internal/view/dto/studio"
	"github.com/nfrund/stylelens/web/src/templates/pages"
	"github.com/nfrund/stylelens/web/src/templates/partials"
	g "maragu.dev/gomponents"
)

// ColorAnalyzer extracts the dominant colour of an image.
type ColorAnalyzer interface {
	AnalyzeColor(ctx context.Context, img *domain.Image) (domain.RGB, error)
}

// Handler serves the main view and the capture fragments.
type Handler struct {
	drafts    *capture.Drafts
	analyzer  ColorAnalyzer
	publisher pubsub.Publisher
	renderer  rendering.Renderer
	limits    capture.Limits
}

// NewHandler creates a new capture handler with its dependencies.
func NewHandler(drafts *capture.Drafts, analyzer ColorAnalyzer, pub pubsub.Publisher, r rendering.Renderer, limits capture.Limits) *Handler {
	return &Handler{
		drafts:    drafts,
		analyzer:  analyzer,
		publisher: pub,
		renderer:  r,
		limits:    limits,
	}
}

// Page renders the main screen with a fresh draft. Reloading the page
// therefore starts over with no image.
func (h *Handler) Page(c echo.Context) error {
	sid := middleware.SessionID(c)
	id := h.drafts.Open(sid)
	state, err := h.drafts.State(sid, id)
	if err != nil {
		return err
	}

	email, _ := c.Get(middleware.EmailContextKey).(string)
	data := studio.AppData{
		Email:     email,
		Capture:   captureView(state),
		Errors:    map[string]string{},
		Report:    studio.ReportStatusData{Status: string(domain.StatusIdle)},
		Vibes:     view.Options(domain.Vibes),
		BodyTypes: view.Options(domain.BodyTypes),
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return h.renderer.RenderPage(c, http.StatusOK, pages.App(data, view.GetFlashData(c)))
}

// Upload stores a picked file as the active image.
func (h *Handler) Upload(c echo.Context) error {
	h.limitBody(c, h.limits.MaxBytes)
	fh, err := c.FormFile("image")
	draftID := draftIDParam(c)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			err = domain.ErrImageRequired
		} else if isBodyTooLarge(err) {
			err = domain.ErrImageTooLarge
		}
		return h.rejectImage(c, draftID, err)
	}

	img, err := capture.FromFileHeader(fh, h.limits)
	if err != nil {
		return h.rejectImage(c, draftID, err)
	}
	return h.store(c, draftID, img)
}

// Snapshot stores a camera frame posted as a data URL.
func (h *Handler) Snapshot(c echo.Context) error {
	// Base64 inflates the payload by a third.
	h.limitBody(c, h.limits.MaxBytes/3*4+4096)
	if err := c.Request().ParseForm(); err != nil {
		if isBodyTooLarge(err) {
			return h.rejectImage(c, draftIDParam(c), domain.ErrImageTooLarge)
		}
		return echo.NewHTTPError(http.StatusBadRequest, "Malformed form data.")
	}
	dataURL := c.FormValue("image_data")
	draftID := draftIDParam(c)

	img, err := capture.FromDataURL(dataURL, h.limits)
	if err != nil {
		return h.rejectImage(c, draftID, err)
	}
	return h.store(c, draftID, img)
}

// Mode switches between file upload and camera. A camera failure reported by
// the browser forces file mode and is shown inline.
func (h *Handler) Mode(c echo.Context) error {
	sid := middleware.SessionID(c)
	draftID := c.FormValue("draft_id")
	mode := domain.ParseSource(c.FormValue("mode"))
	cameraErr := cameraMessage(c.FormValue("error"))
	if cameraErr != "" {
		mode = domain.SourceFile
		middleware.FromContext(c.Request().Context()).Info("Camera unavailable, reverting to file upload", "draft_id", draftID, "reason", cameraErr)
	}

	state, err := h.drafts.SetMode(sid, draftID, mode)
	if err != nil {
		return h.draftError(c, err)
	}
	data := captureView(state)
	data.CameraError = cameraErr
	return h.renderer.RenderPage(c, http.StatusOK, partials.CapturePanel(data))
}

// Reset discards the active image and returns the report status to idle.
func (h *Handler) Reset(c echo.Context) error {
	sid := middleware.SessionID(c)
	state, err := h.drafts.Reset(c.Request().Context(), sid, c.FormValue("draft_id"))
	if err != nil {
		return h.draftError(c, err)
	}
	return h.renderer.RenderPage(c, http.StatusOK, g.Group{
		partials.CapturePanel(captureView(state)),
		partials.ReportStatusOOB(studio.ReportStatusData{Status: string(domain.StatusIdle)}),
		partials.FieldErrors(nil),
	})
}

// Image serves the active image for the preview.
func (h *Handler) Image(c echo.Context) error {
	img, err := h.drafts.Image(c.Request().Context(), middleware.SessionID(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrImageRequired) {
			return echo.NewHTTPError(http.StatusNotFound, "no image")
		}
		return err
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, no-store")
	return c.Blob(http.StatusOK, img.ContentType, img.Data)
}

// Color asks the analysis service for the dominant colour of the image
// captured at the given time. Any failure renders nothing so the form is
// never blocked by it.
func (h *Handler) Color(c echo.Context) error {
	ctx := c.Request().Context()
	log := middleware.FromContext(ctx)
	sid := middleware.SessionID(c)
	id := c.Param("id")

	img, err := h.drafts.Image(ctx, sid, id)
	if err != nil {
		return c.NoContent(http.StatusOK)
	}
	at, err := strconv.ParseInt(c.QueryParam("at"), 10, 64)
	if err != nil || img.CapturedAt.UnixNano() != at {
		return c.NoContent(http.StatusOK)
	}

	rgb, err := h.analyzer.AnalyzeColor(ctx, img)
	if err != nil {
		log.Warn("Dominant colour unavailable", "draft_id", id, "error", err)
		return c.NoContent(http.StatusOK)
	}
	state, err := h.drafts.SetColor(sid, id, img.CapturedAt, rgb)
	if err != nil || state.Color == nil {
		return c.NoContent(http.StatusOK)
	}
	return h.renderer.RenderPage(c, http.StatusOK, partials.ColorSwatch(state.Color.CSS(), ""))
}

func (h *Handler) store(c echo.Context, draftID string, img *domain.Image) error {
	ctx := c.Request().Context()
	sid := middleware.SessionID(c)

	state, err := h.drafts.PutImage(ctx, sid, draftID, img)
	if err != nil {
		return h.draftError(c, err)
	}

	middleware.FromContext(ctx).Info("Image captured", "draft_id", draftID, "source", img.Source, "bytes", img.Size(), "content_type", img.ContentType)
	if h.publisher != nil {
		if err := pubsub.Publish(ctx, h.publisher, pubsub.TopicImageCaptured, sid, pubsub.ImageCaptured{
			DraftID: draftID,
			Source:  string(img.Source),
			Bytes:   img.Size(),
			At:      time.Now().UTC(),
		}); err != nil {
			middleware.FromContext(ctx).Warn("Failed to publish capture event", "error", err)
		}
	}

	return h.renderer.RenderPage(c, http.StatusOK, g.Group{
		partials.CapturePanel(captureView(state)),
		partials.FieldError(domain.FieldImage, "", true),
	})
}

// rejectImage re-renders the panel with the reason; the previous image, if
// any, stays active.
func (h *Handler) rejectImage(c echo.Context, draftID string, cause error) error {
	state, err := h.drafts.State(middleware.SessionID(c), draftID)
	if err != nil {
		return h.draftError(c, err)
	}
	middleware.FromContext(c.Request().Context()).Info("Image rejected", "draft_id", draftID, "error", cause)

	data := captureView(state)
	data.UploadError = uploadMessage(cause, h.limits)
	return h.renderer.RenderPage(c, http.StatusUnprocessableEntity, partials.CapturePanel(data))
}

// draftError handles a draft that expired or belongs to another session by
// asking htmx to reload the page, which opens a new draft.
func (h *Handler) draftError(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		c.Response().Header().Set("HX-Refresh", "true")
		return echo.NewHTTPError(http.StatusNotFound, "This form has expired. Please reload the page.")
	}
	return err
}

func (h *Handler) limitBody(c echo.Context, n int64) {
	if n <= 0 {
		return
	}
	// Room for the other form fields and multipart framing.
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, n+64<<10)
}

// draftIDParam prefers the query string, which survives a body cut off by
// the size limit.
func draftIDParam(c echo.Context) string {
	if id := c.QueryParam("draft_id"); id != "" {
		return id
	}
	return c.FormValue("draft_id")
}

func isBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
