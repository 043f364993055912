package capture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/stylelens/internal/domain"
	"github.com/nfrund/stylelens/internal/storage"
	"github.com/patrickmn/go-cache"
)

// DraftState is the metadata of one capture form instance.
type DraftState struct {
	ID         string
	Mode       domain.Source
	HasImage   bool
	Source     domain.Source
	CapturedAt time.Time
	Color      *domain.RGB
}

type draftMeta struct {
	owner       string
	mode        domain.Source
	hasImage    bool
	contentType string
	filename    string
	source      domain.Source
	capturedAt  time.Time
	color       *domain.RGB
}

// Drafts keeps the active image of each capture form. Every page render opens a
// new draft, so nothing outlives a reload; idle drafts expire after the TTL and
// their bytes are removed from the store.
type Drafts struct {
	store storage.Store
	index *cache.Cache
	mu    sync.Mutex
}

// NewDrafts creates a draft registry over store.
func NewDrafts(store storage.Store, ttl time.Duration) *Drafts {
	d := &Drafts{
		store: store,
		index: cache.New(ttl, ttl/2+time.Second),
	}
	d.index.OnEvicted(func(id string, _ interface{}) {
		if err := store.RemoveAll(context.Background(), draftDir(id)); err != nil {
			slog.Warn("Failed to remove expired draft", "draft_id", id, "error", err)
		}
	})
	return d
}

func draftDir(id string) string       { return path.Join("drafts", id) }
func draftImagePath(id string) string { return path.Join("drafts", id, "image") }

// Open starts a new draft owned by owner (the browser session id).
func (d *Drafts) Open(owner string) string {
	id := uuid.NewString()
	d.index.SetDefault(id, &draftMeta{owner: owner, mode: domain.SourceFile})
	return id
}

// lookup returns the draft metadata and refreshes its expiry. Callers hold d.mu.
func (d *Drafts) lookup(owner, id string) (*draftMeta, error) {
	v, ok := d.index.Get(id)
	if !ok {
		return nil, fmt.Errorf("draft %s: %w", id, domain.ErrNotFound)
	}
	meta := v.(*draftMeta)
	if meta.owner != owner {
		return nil, fmt.Errorf("draft %s: %w", id, domain.ErrNotFound)
	}
	d.index.SetDefault(id, meta)
	return meta, nil
}

// SetMode switches the active capture source. The current image is kept until a
// new capture replaces it.
func (d *Drafts) SetMode(owner, id string, mode domain.Source) (DraftState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	meta, err := d.lookup(owner, id)
	if err != nil {
		return DraftState{}, err
	}
	meta.mode = mode
	return meta.state(id), nil
}

// PutImage replaces the draft's image wholesale and clears any previous colour.
func (d *Drafts) PutImage(ctx context.Context, owner, id string, img *domain.Image) (DraftState, error) {
	if img == nil || len(img.Data) == 0 {
		return DraftState{}, domain.ErrImageRequired
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	meta, err := d.lookup(owner, id)
	if err != nil {
		return DraftState{}, err
	}
	if _, err := d.store.Save(ctx, draftImagePath(id), bytes.NewReader(img.Data)); err != nil {
		return DraftState{}, fmt.Errorf("store draft image: %w", err)
	}
	// The janitor evicts without d.mu; bytes saved for a draft it dropped
	// meanwhile would have no owner left to remove them.
	if _, ok := d.index.Get(id); !ok {
		if err := d.store.RemoveAll(ctx, draftDir(id)); err != nil {
			slog.Warn("Failed to remove image of expired draft", "draft_id", id, "error", err)
		}
		return DraftState{}, fmt.Errorf("draft %s: %w", id, domain.ErrNotFound)
	}
	meta.hasImage = true
	meta.contentType = img.ContentType
	meta.filename = img.Filename
	meta.source = img.Source
	meta.capturedAt = img.CapturedAt
	meta.mode = img.Source
	meta.color = nil
	return meta.state(id), nil
}

// SetColor records the dominant colour for the image captured at capturedAt.
// A colour computed for an image that has since been replaced is dropped.
func (d *Drafts) SetColor(owner, id string, capturedAt time.Time, rgb domain.RGB) (DraftState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	meta, err := d.lookup(owner, id)
	if err != nil {
		return DraftState{}, err
	}
	if meta.hasImage && meta.capturedAt.Equal(capturedAt) {
		meta.color = &rgb
	}
	return meta.state(id), nil
}

// Image loads the active image. It returns domain.ErrImageRequired when the
// draft exists but nothing has been captured yet.
func (d *Drafts) Image(ctx context.Context, owner, id string) (*domain.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	meta, err := d.lookup(owner, id)
	if err != nil {
		return nil, err
	}
	if !meta.hasImage {
		return nil, domain.ErrImageRequired
	}
	rc, err := d.store.Open(ctx, draftImagePath(id))
	if err != nil {
		return nil, fmt.Errorf("open draft image: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read draft image: %w", err)
	}
	return &domain.Image{
		Data:        data,
		ContentType: meta.contentType,
		Filename:    meta.filename,
		Source:      meta.source,
		CapturedAt:  meta.capturedAt,
	}, nil
}

// State returns the draft metadata without loading the image.
func (d *Drafts) State(owner, id string) (DraftState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	meta, err := d.lookup(owner, id)
	if err != nil {
		return DraftState{}, err
	}
	return meta.state(id), nil
}

// Reset discards the active image and returns the draft to file-upload mode.
func (d *Drafts) Reset(ctx context.Context, owner, id string) (DraftState, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	meta, err := d.lookup(owner, id)
	if err != nil {
		return DraftState{}, err
	}
	if err := d.store.RemoveAll(ctx, draftDir(id)); err != nil {
		return DraftState{}, fmt.Errorf("discard draft image: %w", err)
	}
	*meta = draftMeta{owner: meta.owner, mode: domain.SourceFile}
	return meta.state(id), nil
}

// Close drops the draft and its bytes.
func (d *Drafts) Close(owner, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.lookup(owner, id); err != nil {
		return
	}
	d.index.Delete(id) // OnEvicted removes the bytes
}

// Flush drops every draft; used on shutdown.
func (d *Drafts) Flush() {
	for id := range d.index.Items() {
		d.index.Delete(id)
	}
}

func (m *draftMeta) state(id string) DraftState {
	return DraftState{
		ID:         id,
		Mode:       m.mode,
		HasImage:   m.hasImage,
		Source:     m.source,
		CapturedAt: m.capturedAt,
		Color:      m.color,
	}
}
