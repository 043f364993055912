package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/stylelens/internal/domain"
	"github.com/nfrund/stylelens/internal/handlers"
	"github.com/nfrund/stylelens/internal/server"
	"github.com/nfrund/stylelens/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	draftIDPattern = regexp.MustCompile(`name="draft_id" value="([^"]+)"`)
	panelIDPattern = regexp.MustCompile(`data-chat-panel="([^"]+)"`)
	jpegBytes      = append([]byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0x01}, 64)...)
)

// fakeBackend stands in for the analysis service and records what it received.
type fakeBackend struct {
	mu     sync.Mutex
	fields map[string]string
	chats  []string
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze-color", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"dominant_color":[180,90,60]}`))
	})
	mux.HandleFunc("POST /generate-pdf", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile("image"); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"No image uploaded"}`))
			return
		}
		b.mu.Lock()
		b.fields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			b.fields[k] = v[0]
		}
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake report"))
	})
	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.mu.Lock()
		b.chats = append(b.chats, in.Message)
		b.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": "Earth tones suit you."})
	})
	return mux
}

type client struct {
	t    *testing.T
	http *http.Client
	base string
}

func (c *client) do(req *http.Request) (*http.Response, string) {
	c.t.Helper()
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(body)
}

func (c *client) get(path string) (*http.Response, string) {
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	require.NoError(c.t, err)
	return c.do(req)
}

func (c *client) htmx(method, path string, body io.Reader, contentType string) (*http.Response, string) {
	req, err := http.NewRequest(method, c.base+path, body)
	require.NoError(c.t, err)
	req.Header.Set("HX-Request", "true")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.do(req)
}

func (c *client) form(path string, values url.Values) (*http.Response, string) {
	return c.htmx(http.MethodPost, path, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded")
}

func setupIntegrationTest(t *testing.T) (*client, *fakeBackend) {
	t.Helper()

	backend := &fakeBackend{}
	backendSrv := httptest.NewServer(backend.handler())
	t.Cleanup(backendSrv.Close)

	cfg := testutils.ConfigForTests(t, map[string]string{"ANALYSIS_BASE_URL": backendSrv.URL})

	s, err := server.Build(context.Background(), cfg)
	require.NoError(t, err)
	srv := httptest.NewServer(s.E)
	t.Cleanup(func() {
		srv.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, http: &http.Client{Jar: jar}, base: srv.URL}, backend
}

func TestReportFlow_Integration(t *testing.T) {
	c, backend := setupIntegrationTest(t)

	resp, body := c.get("/app")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/login", resp.Request.URL.Path, "the app is behind the gate")
	assert.Contains(t, body, `action="/login/skip"`)

	resp, body = c.form("/login/skip", url.Values{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/app", resp.Request.URL.Path)
	m := draftIDPattern.FindStringSubmatch(body)
	require.Len(t, m, 2, "the page carries a draft id")
	draftID := m[1]

	// Submitting without a photo is blocked locally.
	resp, body = c.form("/app/reports", url.Values{"draft_id": {draftID}, "name": {"Ada"}, "age": {"36"}, "vibe": {"classic"}, "body_type": {"pear"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, domain.MsgImageMissing)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("draft_id", draftID))
	fw, err := mw.CreateFormFile("image", "me.jpg")
	require.NoError(t, err)
	_, _ = fw.Write(jpegBytes)
	require.NoError(t, mw.Close())
	resp, body = c.htmx(http.MethodPost, "/app/capture/upload", &buf, mw.FormDataContentType())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Image Perfectly Captured")

	resp, body = c.form("/app/reports", url.Values{"draft_id": {draftID}, "name": {"Ada"}, "age": {"36"}, "vibe": {"classic"}, "body_type": {"pear"}})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var trigger map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(resp.Header.Get("HX-Trigger")), &trigger))
	download := trigger["report-ready"]["url"]
	require.NotEmpty(t, download)

	resp, body = c.get(download)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "%PDF-1.4 fake report", body)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "color_analysis.pdf")

	resp, _ = c.get(download)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "a report downloads once")

	backend.mu.Lock()
	assert.Equal(t, map[string]string{"name": "Ada", "age": "36", "vibe": "classic", "body_type": "pear"}, backend.fields)
	backend.mu.Unlock()

	assert.Eventually(t, func() bool {
		_, body := c.get("/health")
		var h handlers.HealthResponse
		if json.Unmarshal([]byte(body), &h) != nil {
			return false
		}
		return h.Activity.ReportsGenerated == 1 && h.Activity.Captures == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestChatFlow_Integration(t *testing.T) {
	c, backend := setupIntegrationTest(t)

	resp, _ := c.form("/login", url.Values{"email": {"ada@example.com"}, "password": {"anything"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "/app", resp.Request.URL.Path)

	resp, body := c.form("/app/chat/panels", url.Values{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	m := panelIDPattern.FindStringSubmatch(body)
	require.Len(t, m, 2)
	panel := "/app/chat/panels/" + m[1]

	resp, body = c.form(panel+"/messages", url.Values{"message": {"What colours suit me?"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "What colours suit me?")

	resp, _ = c.form(panel+"/messages", url.Values{"message": {"Hello?"}})
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "one outstanding request per panel")

	resp, body = c.htmx(http.MethodGet, panel+"/reply", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Earth tones suit you.")

	resp, body = c.get(panel)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var conv domain.Conversation
	require.NoError(t, json.Unmarshal([]byte(body), &conv))
	require.Len(t, conv.Entries, 3)
	assert.Equal(t, domain.ChatGreeting, conv.Entries[0].Text)
	assert.Equal(t, domain.SenderUser, conv.Entries[1].Sender)
	assert.Equal(t, "Earth tones suit you.", conv.Entries[2].Text)

	backend.mu.Lock()
	assert.Equal(t, []string{"What colours suit me?"}, backend.chats)
	backend.mu.Unlock()
}
