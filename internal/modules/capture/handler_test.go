package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/stylelens/internal/capture"
	"github.com/nfrund/stylelens/internal/domain"
	"github.com/nfrund/stylelens/internal/rendering"
	"github.com/nfrund/stylelens/internal/storage"
	"github.com/nfrund/stylelens/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jpegBytes = append([]byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0x01}, 32)...)
	pngBytes  = append([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}, bytes.Repeat([]byte{0x02}, 32)...)
)

type fakeAnalyzer struct {
	rgb domain.RGB
	err error
}

func (f *fakeAnalyzer) AnalyzeColor(ctx context.Context, img *domain.Image) (domain.RGB, error) {
	return f.rgb, f.err
}

type testEnv struct {
	e      *echo.Echo
	drafts *capture.Drafts
}

func newTestEnv(t *testing.T, analyzer ColorAnalyzer) *testEnv {
	t.Helper()
	drafts := capture.NewDrafts(storage.NewMemoryStore(), time.Hour)
	h := NewHandler(drafts, analyzer, nil, rendering.NewUniversalRenderer(), capture.Limits{
		MaxBytes:     4096,
		AllowedTypes: []string{"image/jpeg", "image/png"},
	})

	e := echo.New()
	g := e.Group("/app", testutils.WithSession("sess-1"))
	g.GET("", h.Page)
	g.POST("/capture/upload", h.Upload)
	g.POST("/capture/snapshot", h.Snapshot)
	g.POST("/capture/mode", h.Mode)
	g.POST("/capture/reset", h.Reset)
	g.GET("/capture/:id/image", h.Image)
	g.GET("/capture/:id/color", h.Color)
	return &testEnv{e: e, drafts: drafts}
}

func (env *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) upload(t *testing.T, draftID string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("draft_id", draftID))
	fw, err := mw.CreateFormFile("image", "me.jpg")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/app/capture/upload?draft_id="+url.QueryEscape(draftID), &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	return env.serve(req)
}

func (env *testEnv) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return env.serve(req)
}

func TestHandler_Page(t *testing.T) {
	env := newTestEnv(t, &fakeAnalyzer{})

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/app", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="capture-panel"`)
	assert.Contains(t, body, `id="report-form"`)
	assert.Contains(t, body, `id="chat-launcher"`)
	assert.Equal(t, "no-store", rec.Header().Get(echo.HeaderCacheControl))
}

func TestHandler_Upload(t *testing.T) {
	env := newTestEnv(t, &fakeAnalyzer{})
	id := env.drafts.Open("sess-1")

	t.Run("accepts a photo", func(t *testing.T) {
		rec := env.upload(t, id, jpegBytes)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "/app/capture/"+id+"/image")
		assert.Contains(t, rec.Body.String(), "Image Perfectly Captured")

		state, err := env.drafts.State("sess-1", id)
		require.NoError(t, err)
		assert.True(t, state.HasImage)
		assert.Equal(t, domain.SourceFile, state.Source)
	})

	t.Run("rejects a non-image and keeps the previous photo", func(t *testing.T) {
		rec := env.upload(t, id, []byte("%PDF-1.4 definitely not a photo"))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Please choose a JPEG, PNG image.")

		state, err := env.drafts.State("sess-1", id)
		require.NoError(t, err)
		assert.True(t, state.HasImage)
	})

	t.Run("rejects an oversized photo", func(t *testing.T) {
		big := append(append([]byte{}, jpegBytes...), make([]byte, 8192)...)
		rec := env.upload(t, id, big)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "4 KB or smaller")
	})

	t.Run("reports a photo past the body limit inline", func(t *testing.T) {
		huge := append(append([]byte{}, jpegBytes...), make([]byte, 200<<10)...)
		rec := env.upload(t, id, huge)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Empty(t, rec.Header().Get("HX-Refresh"))
		assert.Contains(t, rec.Body.String(), "4 KB or smaller")
		assert.Contains(t, rec.Body.String(), "/app/capture/"+id+"/image", "the previous photo is kept")
	})

	t.Run("unknown draft asks for a reload", func(t *testing.T) {
		rec := env.upload(t, "missing", jpegBytes)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "true", rec.Header().Get("HX-Refresh"))
	})
}

func TestHandler_SnapshotAndMode(t *testing.T) {
	env := newTestEnv(t, &fakeAnalyzer{})
	id := env.drafts.Open("sess-1")

	rec := env.postForm("/app/capture/mode", url.Values{"draft_id": {id}, "mode": {"camera"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-mode="camera"`)

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
	rec = env.postForm("/app/capture/snapshot", url.Values{"draft_id": {id}, "image_data": {dataURL}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Snapshot Perfectly Captured")

	rec = env.postForm("/app/capture/mode", url.Values{"draft_id": {id}, "mode": {"camera"}, "error": {"Permission denied"}})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-mode="file"`, "a camera failure falls back to upload")
	assert.Contains(t, body, "Camera unavailable: Permission denied")
	assert.Contains(t, body, "Snapshot Perfectly Captured", "the image survives a mode switch")
}

func TestHandler_Snapshot_PastBodyLimit(t *testing.T) {
	env := newTestEnv(t, &fakeAnalyzer{})
	id := env.drafts.Open("sess-1")

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(make([]byte, 200<<10))
	rec := env.postForm("/app/capture/snapshot?draft_id="+url.QueryEscape(id), url.Values{"image_data": {dataURL}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, rec.Header().Get("HX-Refresh"))
	assert.Contains(t, rec.Body.String(), "4 KB or smaller")
}

func TestHandler_Reset(t *testing.T) {
	env := newTestEnv(t, &fakeAnalyzer{})
	id := env.drafts.Open("sess-1")
	require.Equal(t, http.StatusOK, env.upload(t, id, jpegBytes).Code)

	rec := env.postForm("/app/capture/reset", url.Values{"draft_id": {id}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Image Perfectly Captured")
	assert.Contains(t, rec.Body.String(), `id="report-status"`)

	state, err := env.drafts.State("sess-1", id)
	require.NoError(t, err)
	assert.False(t, state.HasImage)
}

func TestHandler_ImageAndColor(t *testing.T) {
	analyzer := &fakeAnalyzer{rgb: domain.RGB{200, 120, 90}}
	env := newTestEnv(t, analyzer)
	id := env.drafts.Open("sess-1")
	require.Equal(t, http.StatusOK, env.upload(t, id, jpegBytes).Code)

	rec := env.serve(httptest.NewRequest(http.MethodGet, "/app/capture/"+id+"/image", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, jpegBytes, rec.Body.Bytes())

	state, err := env.drafts.State("sess-1", id)
	require.NoError(t, err)
	at := strconv.FormatInt(state.CapturedAt.UnixNano(), 10)

	rec = env.serve(httptest.NewRequest(http.MethodGet, "/app/capture/"+id+"/color?at=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String(), "a colour for an older capture is ignored")

	rec = env.serve(httptest.NewRequest(http.MethodGet, "/app/capture/"+id+"/color?at="+at, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dominant Hue")

	analyzer.err = errors.New("backend down")
	rec = env.serve(httptest.NewRequest(http.MethodGet, "/app/capture/"+id+"/color?at="+at, nil))
	assert.Equal(t, http.StatusOK, rec.Code, "colour failures never surface as errors")
}
