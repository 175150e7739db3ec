package catalog

import (
	"context"
	"time"

	"github.com/dmitrymomot/sprayshop/pkg/cache"
)

// CachedStore serves product reads from an in-memory LRU. Creating a
// product drops every cached entry.
type CachedStore struct {
	next     Store
	products *cache.LRU[string, Product]
	listing  *cache.LRU[struct{}, []Product]
}

// NewCachedStore caches up to size products for ttl.
func NewCachedStore(next Store, size int, ttl time.Duration, opts ...cache.Option) *CachedStore {
	opts = append([]cache.Option{cache.WithTTL(ttl)}, opts...)
	return &CachedStore{
		next:     next,
		products: cache.NewLRU[string, Product](max(size, 1), opts...),
		listing:  cache.NewLRU[struct{}, []Product](1, opts...),
	}
}

func (s *CachedStore) ListProducts(ctx context.Context) ([]Product, error) {
	if list, ok := s.listing.Get(struct{}{}); ok {
		return cloneAll(list), nil
	}
	list, err := s.next.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.listing.Put(struct{}{}, cloneAll(list))
	return list, nil
}

func (s *CachedStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	if p, ok := s.products.Get(id); ok {
		p = clone(p)
		return &p, nil
	}
	p, err := s.next.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.products.Put(id, clone(*p))
	return p, nil
}

func (s *CachedStore) CreateProduct(ctx context.Context, p *Product) error {
	if err := s.next.CreateProduct(ctx, p); err != nil {
		return err
	}
	s.products.Purge()
	s.listing.Purge()
	return nil
}

func (s *CachedStore) CountProducts(ctx context.Context) (int64, error) {
	return s.next.CountProducts(ctx)
}

func cloneAll(list []Product) []Product {
	out := make([]Product, len(list))
	for i, p := range list {
		out[i] = clone(p)
	}
	return out
}
