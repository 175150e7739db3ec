package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type bucketState struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// MemoryStore keeps buckets in process memory. Idle buckets are evicted
// lazily on access once they are older than the idle limit.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucketState
	idle    time.Duration
	now     func() time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithIdleLimit sets how long an untouched bucket is kept. Zero keeps buckets forever.
func WithIdleLimit(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.idle = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		buckets: make(map[string]*bucketState),
		idle:    time.Hour,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Take(_ context.Context, key string, n int, cfg Config) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	b, ok := s.buckets[key]
	if !ok {
		b = &bucketState{tokens: cfg.Capacity, lastRefill: now}
		s.buckets[key] = b
	}

	if elapsed := now.Sub(b.lastRefill) / cfg.RefillInterval; elapsed > 0 {
		// Cap the interval count so a long idle period cannot overflow.
		intervals := min(int64(elapsed), int64(cfg.Capacity/cfg.RefillRate+1))
		b.tokens = min(b.tokens+int(intervals)*cfg.RefillRate, cfg.Capacity)
		// A partial interval carries over; a full bucket accrues nothing.
		if b.tokens == cfg.Capacity {
			b.lastRefill = now
		} else {
			b.lastRefill = b.lastRefill.Add(elapsed * cfg.RefillInterval)
		}
	}

	// Denied requests don't drain the bucket further.
	if b.tokens-n < 0 {
		b.lastAccess = now
		return b.tokens - n, b.lastRefill.Add(cfg.RefillInterval), nil
	}

	b.tokens -= n
	b.lastAccess = now
	return b.tokens, b.lastRefill.Add(cfg.RefillInterval), nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}

func (s *MemoryStore) evictLocked(now time.Time) {
	if s.idle <= 0 {
		return
	}
	for key, b := range s.buckets {
		if now.Sub(b.lastAccess) > s.idle {
			delete(s.buckets, key)
		}
	}
}
