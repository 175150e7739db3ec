package authstate

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheKey is the key the manager stores its snapshot under.
const DefaultCacheKey = "authstate:snapshot"

// DefaultMaxAge is how long a cached snapshot is trusted at startup.
const DefaultMaxAge = time.Hour

// Snapshot is the serialized copy of the session state kept in the local cache.
// Timestamp is the write time in unix milliseconds.
type Snapshot struct {
	IdentityID  string   `json:"uid"`
	Email       string   `json:"email,omitempty"`
	DisplayName string   `json:"display_name,omitempty"`
	Role        Role     `json:"role"`
	Profile     *Profile `json:"profile,omitempty"`
	Timestamp   int64    `json:"timestamp"`
}

// Fresh reports whether the snapshot is younger than maxAge at now.
// A snapshot exactly maxAge old is expired.
func (s Snapshot) Fresh(now time.Time, maxAge time.Duration) bool {
	return now.UnixMilli()-s.Timestamp < maxAge.Milliseconds()
}

// SnapshotCache persists the manager's snapshot between page loads.
type SnapshotCache interface {
	// Write stores the snapshot under key, replacing any previous value.
	Write(ctx context.Context, key string, snap Snapshot) error

	// Read returns ErrSnapshotNotFound when nothing is stored under key.
	Read(ctx context.Context, key string) (*Snapshot, error)

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// MemoryCache is a process-local SnapshotCache. Its contents vanish with the process,
// which matches the lifetime of a browsing session.
type MemoryCache struct {
	mu    sync.RWMutex
	items map[string]Snapshot
}

// NewMemoryCache creates an empty in-memory snapshot cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]Snapshot)}
}

// Write stores a copy of snap.
func (c *MemoryCache) Write(_ context.Context, key string, snap Snapshot) error {
	if snap.Profile != nil {
		p := *snap.Profile
		snap.Profile = &p
	}

	c.mu.Lock()
	c.items[key] = snap
	c.mu.Unlock()
	return nil
}

// Read returns a copy of the stored snapshot.
func (c *MemoryCache) Read(_ context.Context, key string) (*Snapshot, error) {
	c.mu.RLock()
	snap, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrSnapshotNotFound
	}
	if snap.Profile != nil {
		p := *snap.Profile
		snap.Profile = &p
	}
	return &snap, nil
}

// Delete removes key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}
