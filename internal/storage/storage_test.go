package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/nfrund/stylelens/internal/domain"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoStore_Unit(t *testing.T) {
	// No disk I/O is performed.
	memFs := afero.NewMemMapFs()
	store := NewAferoStore(memFs)
	ctx := context.Background()

	filePath := "drafts/session/draft/image"
	fileContent := "pretend this is a jpeg"

	t.Run("Save", func(t *testing.T) {
		bytesWritten, err := store.Save(ctx, filePath, bytes.NewReader([]byte(fileContent)))

		require.NoError(t, err)
		assert.Equal(t, int64(len(fileContent)), bytesWritten)

		readBytes, err := afero.ReadFile(memFs, filePath)
		require.NoError(t, err)
		assert.Equal(t, fileContent, string(readBytes))
	})

	t.Run("Save replaces content wholesale", func(t *testing.T) {
		_, err := store.Save(ctx, filePath, bytes.NewReader([]byte("new")))
		require.NoError(t, err)

		readBytes, err := afero.ReadFile(memFs, filePath)
		require.NoError(t, err)
		assert.Equal(t, "new", string(readBytes))
	})

	t.Run("Open", func(t *testing.T) {
		file, err := store.Open(ctx, filePath)
		require.NoError(t, err)
		defer file.Close()

		readBytes, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "new", string(readBytes))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, filePath))

		exists, err := afero.Exists(memFs, filePath)
		require.NoError(t, err)
		assert.False(t, exists, "file should not exist after deleting")
	})

	t.Run("missing file maps to ErrNotFound", func(t *testing.T) {
		_, err := store.Open(ctx, filePath)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		assert.ErrorIs(t, store.Delete(ctx, filePath), domain.ErrNotFound)
	})

	t.Run("RemoveAll", func(t *testing.T) {
		_, err := store.Save(ctx, "drafts/s1/a/image", bytes.NewReader([]byte("a")))
		require.NoError(t, err)
		_, err = store.Save(ctx, "drafts/s1/b/image", bytes.NewReader([]byte("b")))
		require.NoError(t, err)

		require.NoError(t, store.RemoveAll(ctx, "drafts/s1"))

		exists, _ := afero.DirExists(memFs, "drafts/s1")
		assert.False(t, exists)
		assert.NoError(t, store.RemoveAll(ctx, "drafts/missing"))
	})
}

func TestCheckPath(t *testing.T) {
	for _, p := range []string{"", "../etc/passwd", "/abs", `a\b`, "a/./b", "a//b"} {
		assert.Error(t, checkPath(p), "path %q should be rejected", p)
	}
	assert.NoError(t, checkPath("reports/abc.pdf"))
}
