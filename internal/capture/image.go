// Package capture turns uploads and camera snapshots into the active image of a
// capture form and keeps per-form drafts in memory.
package capture

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nfrund/stylelens/internal/domain"
)

// Limits bounds what is accepted as an image.
type Limits struct {
	MaxBytes     int64
	AllowedTypes []string
}

// DefaultLimits mirrors the server's MAX_UPLOAD_BYTES and ALLOWED_IMAGE_TYPES
// defaults, for callers that have no configuration of their own.
func DefaultLimits() Limits {
	return Limits{
		MaxBytes:     10 << 20,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
	}
}

// Accept sniffs data and wraps it as an Image when it is an allowed image type
// within the size limit.
func Accept(data []byte, filename string, src domain.Source, limits Limits) (*domain.Image, error) {
	if len(data) == 0 {
		return nil, domain.ErrImageRequired
	}
	if limits.MaxBytes > 0 && int64(len(data)) > limits.MaxBytes {
		return nil, fmt.Errorf("%d bytes: %w", len(data), domain.ErrImageTooLarge)
	}

	mt := mimetype.Detect(data)
	if !allowed(mt, limits.AllowedTypes) {
		return nil, fmt.Errorf("%s: %w", mt.String(), domain.ErrUnsupportedImage)
	}

	contentType := mt.String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return &domain.Image{
		Data:        data,
		ContentType: contentType,
		Filename:    cleanFilename(filename, mt.Extension()),
		Source:      src,
		CapturedAt:  time.Now().UTC(),
	}, nil
}

// FromFileHeader reads an uploaded multipart file, refusing anything over the limit.
func FromFileHeader(fh *multipart.FileHeader, limits Limits) (*domain.Image, error) {
	if fh == nil {
		return nil, domain.ErrImageRequired
	}
	if limits.MaxBytes > 0 && fh.Size > limits.MaxBytes {
		return nil, fmt.Errorf("%d bytes: %w", fh.Size, domain.ErrImageTooLarge)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	r := io.Reader(f)
	if limits.MaxBytes > 0 {
		r = io.LimitReader(f, limits.MaxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return Accept(data, fh.Filename, domain.SourceFile, limits)
}

// FromDataURL decodes a canvas snapshot of the form "data:image/jpeg;base64,...".
func FromDataURL(dataURL string, limits Limits) (*domain.Image, error) {
	data, err := DecodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	return Accept(data, "", domain.SourceCamera, limits)
}

// DecodeDataURL extracts the payload of a base64 data URL.
func DecodeDataURL(dataURL string) ([]byte, error) {
	dataURL = strings.TrimSpace(dataURL)
	if dataURL == "" {
		return nil, domain.ErrImageRequired
	}
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("malformed data URL: %w", domain.ErrUnsupportedImage)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data URL: %w", domain.ErrUnsupportedImage)
	}
	return data, nil
}

func allowed(mt *mimetype.MIME, types []string) bool {
	if len(types) == 0 {
		return strings.HasPrefix(mt.String(), "image/")
	}
	for _, t := range types {
		if mt.Is(t) {
			return true
		}
	}
	return false
}

func cleanFilename(name, ext string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "capture" + ext
	}
	return name
}
