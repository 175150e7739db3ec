package identity

import (
	"context"
	"sync"
)

// MemoryAccountStore keeps accounts in process memory.
type MemoryAccountStore struct {
	mu       sync.RWMutex
	byID     map[string]Account
	byEmail  map[string]string
	byGoogle map[string]string
}

func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		byID:     make(map[string]Account),
		byEmail:  make(map[string]string),
		byGoogle: make(map[string]string),
	}
}

func (s *MemoryAccountStore) CreateAccount(_ context.Context, a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[a.Email]; ok {
		return ErrEmailInUse
	}
	if a.GoogleID != "" {
		if _, ok := s.byGoogle[a.GoogleID]; ok {
			return ErrEmailInUse
		}
		s.byGoogle[a.GoogleID] = a.ID
	}
	s.byEmail[a.Email] = a.ID
	s.byID[a.ID] = *a
	return nil
}

func (s *MemoryAccountStore) AccountByEmail(_ context.Context, email string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(s.byEmail[email])
}

func (s *MemoryAccountStore) AccountByGoogleID(_ context.Context, googleID string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(s.byGoogle[googleID])
}

// SetDisabled toggles the disabled flag of the account with email.
func (s *MemoryAccountStore) SetDisabled(email string, disabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[email]
	if !ok {
		return ErrUserNotFound
	}
	a := s.byID[id]
	a.Disabled = disabled
	s.byID[id] = a
	return nil
}

func (s *MemoryAccountStore) lookupLocked(id string) (*Account, error) {
	a, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &a, nil
}
