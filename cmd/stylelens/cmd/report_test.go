package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/nfrund/stylelens/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func TestReadImage(t *testing.T) {
	t.Run("accepts a jpeg", func(t *testing.T) {
		jpeg := append([]byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0x01}, 32)...)
		img, err := readImage(writeTemp(t, "me.jpg", jpeg))
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", img.ContentType)
	})

	t.Run("rejects an svg like the server does", func(t *testing.T) {
		svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="1" height="1"></svg>`)
		_, err := readImage(writeTemp(t, "me.svg", svg))
		assert.ErrorIs(t, err, domain.ErrUnsupportedImage)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readImage(filepath.Join(t.TempDir(), "nope.jpg"))
		assert.ErrorContains(t, err, "read image")
	})
}
