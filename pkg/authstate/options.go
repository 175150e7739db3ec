package authstate

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithIdentityProvider sets the authentication backend the manager mirrors.
// Without one the manager initializes into the unauthenticated state.
func WithIdentityProvider(p IdentityProvider) Option {
	return func(m *Manager) {
		m.provider = p
	}
}

// WithProfileStore sets the store used to resolve role and profile.
// Without one every identity resolves to RoleClient with no profile.
func WithProfileStore(s ProfileStore) Option {
	return func(m *Manager) {
		m.profiles = s
	}
}

// WithCache replaces the default in-memory snapshot cache.
func WithCache(c SnapshotCache) Option {
	return func(m *Manager) {
		if c != nil {
			m.cache = c
		}
	}
}

// WithCacheKey sets the key the snapshot is stored under.
func WithCacheKey(key string) Option {
	return func(m *Manager) {
		if key != "" {
			m.cacheKey = key
		}
	}
}

// WithMaxAge sets the freshness window of the cached snapshot.
func WithMaxAge(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.maxAge = d
		}
	}
}

// WithProfileTimeout bounds a single profile lookup. Zero means no timeout.
func WithProfileTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.profileTimeout = d
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides time.Now, mostly for tests around the freshness boundary.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}
