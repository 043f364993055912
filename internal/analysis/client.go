// Package analysis is the HTTP client for the remote style/colour analysis backend.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"
	"strings"
	"time"

	"github.com/nfrund/stylelens/internal/domain"
)

// Remote endpoints.
const (
	PathAnalyzeColor = "/analyze-color"
	PathGeneratePDF  = "/generate-pdf"
	PathChat         = "/chat"
)

// DefaultReportFilename is used when the backend does not name the document.
const DefaultReportFilename = "color_analysis.pdf"

// maxReportBytes bounds how much of a report response is buffered. A larger
// report is rejected rather than truncated.
var maxReportBytes int64 = 64 << 20

// Report is a generated document returned by the backend.
type Report struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Client talks to the analysis backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client. A zero timeout leaves calls bounded only by their context.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient creates a Client using the given http.Client.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// AnalyzeColor asks the backend for the dominant colour of img.
func (c *Client) AnalyzeColor(ctx context.Context, img *domain.Image) (domain.RGB, error) {
	const op = "analyze-color"

	body, contentType, err := encodeMultipart(img, nil)
	if err != nil {
		return domain.RGB{}, &Error{Op: op, Err: err}
	}
	resp, err := c.post(ctx, op, PathAnalyzeColor, contentType, body)
	if err != nil {
		return domain.RGB{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		DominantColor []int `json:"dominant_color"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.RGB{}, &Error{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(payload.DominantColor) != 3 {
		return domain.RGB{}, &Error{Op: op, Message: fmt.Sprintf("expected 3 colour components, got %d", len(payload.DominantColor))}
	}
	var rgb domain.RGB
	for i, v := range payload.DominantColor {
		rgb[i] = min(max(v, 0), 255)
	}
	return rgb, nil
}

// GeneratePDF submits the profile and image and returns the generated report.
func (c *Client) GeneratePDF(ctx context.Context, p domain.Profile, img *domain.Image) (*Report, error) {
	const op = "generate-pdf"

	body, contentType, err := encodeMultipart(img, p.Fields())
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	resp, err := c.post(ctx, op, PathGeneratePDF, contentType, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReportBytes+1))
	if err != nil {
		return nil, &Error{Op: op, Err: fmt.Errorf("read report: %w", err)}
	}
	if int64(len(data)) > maxReportBytes {
		return nil, &Error{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("the generated report exceeds %d MB", maxReportBytes>>20),
		}
	}
	if len(data) == 0 {
		return nil, &Error{Op: op, Message: "the analysis service returned an empty report"}
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/pdf"
	}
	return &Report{
		Data:        data,
		ContentType: ct,
		Filename:    filenameFrom(resp.Header.Get("Content-Disposition")),
	}, nil
}

// Chat sends a free-text message and returns the backend's reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	const op = "chat"

	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return "", &Error{Op: op, Err: err}
	}
	resp, err := c.post(ctx, op, PathChat, "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return out.Reply, nil
}

// post performs the request and converts transport failures and non-2xx
// responses into *Error. On success the caller owns resp.Body.
func (c *Client) post(ctx context.Context, op, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*maxErrorBody))
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: parseErrorBody(resp.StatusCode, raw)}
	}
	return resp, nil
}

// encodeMultipart builds a body with the image part followed by one part per field.
func encodeMultipart(img *domain.Image, fields [][2]string) (io.Reader, string, error) {
	if img == nil || len(img.Data) == 0 {
		return nil, "", domain.ErrImageRequired
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	filename := img.Filename
	if filename == "" {
		filename = "capture" + extensionFor(img.ContentType)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, domain.FieldImage, filename))
	h.Set("Content-Type", img.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", err
	}

	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

func filenameFrom(disposition string) string {
	if disposition == "" {
		return DefaultReportFilename
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil || params["filename"] == "" {
		return DefaultReportFilename
	}
	return path.Base(params["filename"])
}
