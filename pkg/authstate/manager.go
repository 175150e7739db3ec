package authstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/sprayshop/pkg/logger"
)

// DefaultDisplayName is returned by DisplayName when neither the profile nor
// the identity carry a usable name.
const DefaultDisplayName = "My account"

// Manager tracks the current identity, its role and profile, persists a snapshot
// to the local cache and fans out every change to subscribers.
// Create exactly one per process and share it by reference.
type Manager struct {
	provider       IdentityProvider
	profiles       ProfileStore
	cache          SnapshotCache
	cacheKey       string
	maxAge         time.Duration
	profileTimeout time.Duration
	logger         *slog.Logger
	now            func() time.Time

	// reconcileMu serializes SetIdentity and ClearIdentity.
	reconcileMu sync.Mutex

	// mu guards state and subs.
	mu    sync.RWMutex
	state State
	subs  []*subscription

	initMu      sync.Mutex
	initialized bool
	cancelWatch func()
}

type subscription struct {
	fn     func(State)
	active atomic.Bool
	// mu orders the initial replay before any broadcast delivery.
	mu   sync.Mutex
	once sync.Once
}

// New creates a manager with empty state. Call Initialize to synchronize it.
func New(opts ...Option) *Manager {
	m := &Manager{
		cache:    NewMemoryCache(),
		cacheKey: DefaultCacheKey,
		maxAge:   DefaultMaxAge,
		logger:   logger.Discard(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.logger = m.logger.With(logger.Component("authstate"))
	return m
}

// Initialize loads a fresh cached snapshot, synchronizes with the identity
// provider and subscribes to its change notifications. Calling it again is a no-op.
// Provider events are reconciled with a copy of ctx that is never cancelled.
func (m *Manager) Initialize(ctx context.Context) {
	m.initMu.Lock()
	defer m.initMu.Unlock()

	if m.initialized {
		return
	}

	m.loadSnapshot(ctx)

	if m.provider == nil {
		m.logger.InfoContext(ctx, "no identity provider configured, staying unauthenticated")
		m.clearIdentity(ctx, true)
		m.initialized = true
		return
	}

	if id := m.provider.CurrentIdentity(); id != nil {
		m.setIdentity(ctx, id, true)
	} else {
		m.clearIdentity(ctx, true)
	}

	eventCtx := context.WithoutCancel(ctx)
	m.cancelWatch = m.provider.OnIdentityChanged(func(id *Identity) {
		m.logger.DebugContext(eventCtx, "identity changed", slog.Bool("signed_in", id != nil))
		if id != nil {
			m.setIdentity(eventCtx, id, false)
			return
		}
		m.clearIdentity(eventCtx, false)
	})

	m.initialized = true
}

// Close cancels the identity provider subscription. Subscribers are kept.
func (m *Manager) Close() error {
	m.initMu.Lock()
	defer m.initMu.Unlock()

	if m.cancelWatch != nil {
		m.cancelWatch()
		m.cancelWatch = nil
	}
	return nil
}

// SetIdentity records id as the signed-in identity, resolves its role and
// profile, persists the snapshot and notifies subscribers. It never fails:
// profile lookup errors degrade to RoleClient with no profile.
// A nil id behaves like ClearIdentity.
func (m *Manager) SetIdentity(ctx context.Context, id *Identity) {
	if id == nil {
		m.clearIdentity(ctx, false)
		return
	}
	m.setIdentity(ctx, id, false)
}

// ClearIdentity resets identity, role and profile, removes the cached snapshot
// and notifies subscribers.
func (m *Manager) ClearIdentity(ctx context.Context) {
	m.clearIdentity(ctx, false)
}

// Subscribe registers fn for every future state change and invokes it once,
// synchronously, with the current state. The returned func unsubscribes;
// after it returns fn receives nothing more. Calling it twice is a no-op.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	sub := &subscription{fn: fn}
	sub.active.Store(true)

	m.mu.Lock()
	m.subs = append(m.subs, sub)
	st := m.state.clone()
	sub.mu.Lock()
	m.mu.Unlock()

	m.call(sub, st)
	sub.mu.Unlock()

	return func() {
		sub.once.Do(func() {
			sub.active.Store(false)
			m.mu.Lock()
			m.subs = slices.DeleteFunc(m.subs, func(s *subscription) bool { return s == sub })
			m.mu.Unlock()
		})
	}
}

// State returns a copy of the current state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.clone()
}

// Identity returns a copy of the signed-in identity, or nil.
func (m *Manager) Identity() *Identity {
	return m.State().Identity
}

// Profile returns a copy of the resolved profile, or nil.
func (m *Manager) Profile() *Profile {
	return m.State().Profile
}

// Role returns the current role. Signed-out users and unresolved roles are
// reported as RoleClient.
func (m *Manager) Role() Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state.Role == RoleNone {
		return RoleClient
	}
	return m.state.Role
}

// IsAuthenticated reports whether an identity is set.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Identity != nil
}

// IsAdministrator reports whether a signed-in identity holds
// RoleAdministrator. A provisional cached role alone never qualifies.
func (m *Manager) IsAdministrator() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.IsAdministrator()
}

// IsInitialized reports whether the first provider synchronization finished.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Initialized
}

// IsProvisional reports whether role and profile still come from the cached
// snapshot rather than an authoritative lookup.
func (m *Manager) IsProvisional() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Provisional
}

// DisplayName resolves the name to show for the signed-in user. See
// State.DisplayName.
func (m *Manager) DisplayName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.DisplayName()
}

func (m *Manager) setIdentity(ctx context.Context, id *Identity, initial bool) {
	m.reconcileMu.Lock()
	defer m.reconcileMu.Unlock()

	identity := *id

	m.mu.Lock()
	m.state.Identity = &identity
	m.state.Authenticated = true
	m.mu.Unlock()

	profile, role := m.resolveProfile(ctx, identity.ID)

	m.mu.Lock()
	m.state = State{
		Identity:      &identity,
		Role:          role,
		Profile:       profile,
		Authenticated: true,
		Initialized:   m.state.Initialized || initial,
	}
	st, subs := m.captureLocked()
	m.mu.Unlock()

	m.saveSnapshot(ctx, st)
	m.broadcast(st, subs)
}

func (m *Manager) clearIdentity(ctx context.Context, initial bool) {
	m.reconcileMu.Lock()
	defer m.reconcileMu.Unlock()

	m.mu.Lock()
	m.state = State{Initialized: m.state.Initialized || initial}
	st, subs := m.captureLocked()
	m.mu.Unlock()

	if err := m.cache.Delete(ctx, m.cacheKey); err != nil {
		m.logger.WarnContext(ctx, "failed to delete cached snapshot", logger.Error(err))
	}
	m.broadcast(st, subs)
}

// resolveProfile never fails; anything but a found record yields RoleClient.
func (m *Manager) resolveProfile(ctx context.Context, identityID string) (*Profile, Role) {
	if m.profiles == nil {
		return nil, RoleClient
	}

	if m.profileTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.profileTimeout)
		defer cancel()
	}

	profile, err := m.fetchProfile(ctx, identityID)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		m.logger.DebugContext(ctx, "no profile record", logger.UserID(identityID))
		return nil, RoleClient
	case err != nil:
		m.logger.WarnContext(ctx, "profile lookup failed, falling back to client role",
			logger.UserID(identityID),
			logger.Error(err),
		)
		return nil, RoleClient
	case profile == nil:
		return nil, RoleClient
	}

	p := *profile
	return &p, NormalizeRole(p.Role)
}

func (m *Manager) fetchProfile(ctx context.Context, identityID string) (p *Profile, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("profile store panic: %v", r)
		}
	}()
	return m.profiles.GetProfile(ctx, identityID)
}

func (m *Manager) loadSnapshot(ctx context.Context) {
	snap, err := m.cache.Read(ctx, m.cacheKey)
	if err != nil {
		if !errors.Is(err, ErrSnapshotNotFound) {
			m.logger.WarnContext(ctx, "failed to read cached snapshot", logger.Error(err))
			m.dropSnapshot(ctx)
		}
		return
	}

	if !snap.Fresh(m.now(), m.maxAge) {
		m.logger.DebugContext(ctx, "cached snapshot expired")
		m.dropSnapshot(ctx)
		return
	}

	role := snap.Role
	if role != RoleNone {
		role = NormalizeRole(string(role))
	}

	m.mu.Lock()
	m.state.Role = role
	m.state.Profile = snap.Profile
	m.state.Provisional = true
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "restored provisional state from cache", logger.Role(role))
}

func (m *Manager) dropSnapshot(ctx context.Context) {
	if err := m.cache.Delete(ctx, m.cacheKey); err != nil {
		m.logger.WarnContext(ctx, "failed to delete cached snapshot", logger.Error(err))
	}
}

func (m *Manager) saveSnapshot(ctx context.Context, st State) {
	if st.Identity == nil {
		return
	}

	snap := Snapshot{
		IdentityID:  st.Identity.ID,
		Email:       st.Identity.Email,
		DisplayName: st.Identity.DisplayName,
		Role:        st.Role,
		Profile:     st.Profile,
		Timestamp:   m.now().UnixMilli(),
	}
	if err := m.cache.Write(ctx, m.cacheKey, snap); err != nil {
		m.logger.WarnContext(ctx, "failed to write cached snapshot", logger.Error(err))
	}
}

// captureLocked must be called with mu held. The returned subscriber list is
// a copy, so subscriptions added or removed during delivery don't affect it.
func (m *Manager) captureLocked() (State, []*subscription) {
	return m.state.clone(), slices.Clone(m.subs)
}

func (m *Manager) broadcast(st State, subs []*subscription) {
	for _, sub := range subs {
		sub.mu.Lock()
		if sub.active.Load() {
			m.call(sub, st.clone())
		}
		sub.mu.Unlock()
	}
}

func (m *Manager) call(sub *subscription, st State) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("subscriber panicked", slog.Any("panic", r))
		}
	}()
	sub.fn(st)
}
