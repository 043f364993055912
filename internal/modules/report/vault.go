package report

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
	"github.com/nfrund/stylelens/internal/analysis"
	"github.com/nfrund/stylelens/internal/domain"
	"github.com/nfrund/stylelens/internal/storage"
	"github.com/patrickmn/go-cache"
)

type ticket struct {
	owner       string
	contentType string
	filename    string
}

// Vault holds generated reports until their single download. Unclaimed
// reports expire after the TTL.
type Vault struct {
	store   storage.Store
	tickets *cache.Cache
	mu      sync.Mutex
}

// NewVault creates a vault over store.
func NewVault(store storage.Store, ttl time.Duration) *Vault {
	v := &Vault{
		store:   store,
		tickets: cache.New(ttl, ttl/2+time.Second),
	}
	v.tickets.OnEvicted(func(token string, _ interface{}) {
		if err := store.RemoveAll(context.Background(), reportPath(token)); err != nil {
			slog.Warn("Failed to remove report", "token", token, "error", err)
		}
	})
	return v
}

func reportPath(token string) string { return path.Join("reports", token+".pdf") }

// Put stores a report for owner and returns its download token.
func (v *Vault) Put(ctx context.Context, owner string, r *analysis.Report) (string, error) {
	token := uuid.NewString()
	if _, err := v.store.Save(ctx, reportPath(token), bytes.NewReader(r.Data)); err != nil {
		return "", fmt.Errorf("store report: %w", err)
	}
	v.tickets.SetDefault(token, &ticket{owner: owner, contentType: r.ContentType, filename: r.Filename})
	return token, nil
}

// Take returns the report once and forgets it. Unknown, expired, already
// taken and foreign tokens all yield domain.ErrNotFound.
func (v *Vault) Take(ctx context.Context, owner, token string) (*analysis.Report, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	val, ok := v.tickets.Get(token)
	if !ok {
		return nil, fmt.Errorf("report %s: %w", token, domain.ErrNotFound)
	}
	t := val.(*ticket)
	if t.owner != owner {
		return nil, fmt.Errorf("report %s: %w", token, domain.ErrNotFound)
	}

	rc, err := v.store.Open(ctx, reportPath(token))
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	v.tickets.Delete(token) // OnEvicted removes the file

	return &analysis.Report{Data: data, ContentType: t.contentType, Filename: t.filename}, nil
}

// Flush drops every pending report.
func (v *Vault) Flush() {
	for token := range v.tickets.Items() {
		v.tickets.Delete(token)
	}
}

// inflight admits one report request per draft at a time.
type inflight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{keys: make(map[string]struct{})}
}

// acquire returns a release func, or domain.ErrRequestInFlight when key is busy.
func (f *inflight) acquire(key string) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.keys[key]; busy {
		return nil, domain.ErrRequestInFlight
	}
	f.keys[key] = struct{}{}
	return func() {
		f.mu.Lock()
		delete(f.keys, key)
		f.mu.Unlock()
	}, nil
}
