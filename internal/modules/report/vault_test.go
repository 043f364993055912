package report

import (
	"context"
	"testing"
	"time"

	"github.com/nfrund/stylelens/internal/analysis"
	"github.com/nfrund/stylelens/internal/domain"
	"github.com/nfrund/stylelens/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVault_SingleUse(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	v := NewVault(store, time.Minute)

	token, err := v.Put(ctx, "sess-1", &analysis.Report{Data: []byte("%PDF-1.4"), ContentType: "application/pdf", Filename: "color_analysis.pdf"})
	require.NoError(t, err)

	_, err = v.Take(ctx, "sess-2", token)
	assert.ErrorIs(t, err, domain.ErrNotFound, "another session cannot claim the report")

	r, err := v.Take(ctx, "sess-1", token)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), r.Data)
	assert.Equal(t, "color_analysis.pdf", r.Filename)

	_, err = v.Take(ctx, "sess-1", token)
	assert.ErrorIs(t, err, domain.ErrNotFound, "a token works exactly once")

	_, err = store.Open(ctx, reportPath(token))
	assert.ErrorIs(t, err, domain.ErrNotFound, "the bytes are gone after the download")
}

func TestVault_Expiry(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	v := NewVault(store, 50*time.Millisecond)

	token, err := v.Put(ctx, "sess-1", &analysis.Report{Data: []byte("pdf")})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	_, err = v.Take(ctx, "sess-1", token)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInflight(t *testing.T) {
	f := newInflight()

	release, err := f.acquire("draft-1")
	require.NoError(t, err)

	_, err = f.acquire("draft-1")
	assert.ErrorIs(t, err, domain.ErrRequestInFlight)

	other, err := f.acquire("draft-2")
	require.NoError(t, err)
	other()

	release()
	release2, err := f.acquire("draft-1")
	require.NoError(t, err)
	release2()
}
