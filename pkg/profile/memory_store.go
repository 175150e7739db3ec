package profile

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/sprayshop/pkg/authstate"
)

// MemoryStore is a process-local Store used in tests and when running without
// a database.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]authstate.Profile
	now      func() time.Time
}

// NewMemoryStore returns a MemoryStore preloaded with seed.
func NewMemoryStore(seed ...authstate.Profile) *MemoryStore {
	s := &MemoryStore{
		profiles: make(map[string]authstate.Profile, len(seed)),
		now:      time.Now,
	}
	for _, p := range seed {
		s.profiles[p.ID] = p
	}
	return s
}

func (s *MemoryStore) GetProfile(_ context.Context, id string) (*authstate.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[id]
	if !ok {
		return nil, authstate.ErrProfileNotFound
	}
	return &p, nil
}

func (s *MemoryStore) CreateProfile(_ context.Context, p authstate.Profile) error {
	if p.ID == "" {
		return ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[p.ID]; ok {
		return ErrAlreadyExists
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now()
	}
	s.profiles[p.ID] = p
	return nil
}

func (s *MemoryStore) SetRole(_ context.Context, id string, role authstate.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return authstate.ErrProfileNotFound
	}
	p.Role = string(role)
	s.profiles[id] = p
	return nil
}

// ListProfiles returns all profiles, newest first.
func (s *MemoryStore) ListProfiles(_ context.Context) ([]authstate.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]authstate.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		list = append(list, p)
	}
	slices.SortFunc(list, func(a, b authstate.Profile) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return list, nil
}
