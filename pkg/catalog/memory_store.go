package catalog

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps products in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]Product
}

func NewMemoryStore(seed ...Product) *MemoryStore {
	s := &MemoryStore{products: make(map[string]Product, len(seed))}
	for _, p := range seed {
		s.products[p.ID] = p
	}
	return s
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, clone(p))
	}
	slices.SortFunc(list, func(a, b Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return list, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id string) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	p = clone(p)
	return &p, nil
}

func (s *MemoryStore) CreateProduct(_ context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, ok := s.products[p.ID]; ok {
		return ErrProductExists
	}
	s.products[p.ID] = clone(*p)
	return nil
}

func (s *MemoryStore) CountProducts(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products)), nil
}

func clone(p Product) Product {
	p.Images = slices.Clone(p.Images)
	return p
}
