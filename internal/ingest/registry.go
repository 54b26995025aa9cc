package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/docgrid/internal/core"
	"github.com/google/uuid"
)

// DefaultUploadTTL is how long an upload stays browsable.
const DefaultUploadTTL = time.Hour

// Upload is a parsed document held for browsing. Tables are never mutated
// after registration, so concurrent readers may share them.
type Upload struct {
	ID        string       `json:"id"`
	FileName  string       `json:"fileName"`
	Kind      FileKind     `json:"kind"`
	Pages     int          `json:"pages,omitempty"`
	Tables    []core.Table `json:"-"`
	CreatedAt time.Time    `json:"createdAt"`

	// path is the stored copy of the original file, removed on eviction.
	path string
}

// Registry keeps uploads in memory keyed by UUID. Entries older than the
// TTL are invisible to Get and removed by Evict.
type Registry struct {
	mu      sync.RWMutex
	uploads map[string]*Upload
	ttl     time.Duration
	now     func() time.Time
}

// NewRegistry creates an empty registry. A non-positive ttl uses
// DefaultUploadTTL.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultUploadTTL
	}
	return &Registry{
		uploads: make(map[string]*Upload),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Add assigns u an ID and creation time and stores it.
func (r *Registry) Add(u *Upload) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate upload id: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = id.String()
	u.CreatedAt = r.now().UTC()
	r.uploads[u.ID] = u
	return u.ID, nil
}

// Get returns the upload with the given id.
func (r *Registry) Get(id string) (*Upload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.uploads[id]
	if !ok || r.expired(u) {
		return nil, ErrUploadNotFound
	}
	return u, nil
}

// List returns live uploads, newest first.
func (r *Registry) List() []*Upload {
	r.mu.RLock()
	out := make([]*Upload, 0, len(r.uploads))
	for _, u := range r.uploads {
		if !r.expired(u) {
			out = append(out, u)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// Remove deletes an upload and its stored file.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	u, ok := r.uploads[id]
	delete(r.uploads, id)
	r.mu.Unlock()

	if !ok {
		return ErrUploadNotFound
	}
	removeStored(u)
	return nil
}

// Len counts entries, expired ones included until the next Evict.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.uploads)
}

// Evict drops expired uploads and their stored files. Returns the count.
func (r *Registry) Evict() int {
	r.mu.Lock()
	var expired []*Upload
	for id, u := range r.uploads {
		if r.expired(u) {
			expired = append(expired, u)
			delete(r.uploads, id)
		}
	}
	r.mu.Unlock()

	for _, u := range expired {
		removeStored(u)
	}
	return len(expired)
}

func (r *Registry) expired(u *Upload) bool {
	return r.now().Sub(u.CreatedAt) > r.ttl
}

// StartJanitor evicts expired uploads every interval until ctx is done.
func (r *Registry) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = r.ttl / 4
	}
	slog.Info("upload janitor started", "ttl", r.ttl, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("upload janitor stopped")
			return
		case <-ticker.C:
			start := time.Now()
			if n := r.Evict(); n > 0 {
				slog.Info("evicted expired uploads",
					"count", n,
					"remaining", r.Len(),
					"duration_ms", time.Since(start).Milliseconds(),
				)
			}
		}
	}
}

func removeStored(u *Upload) {
	if u.path == "" {
		return
	}
	if err := os.Remove(u.path); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to remove stored upload", "upload_id", u.ID, "path", u.path, "error", err)
	}
}
