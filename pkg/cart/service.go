package cart

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/sprayshop/pkg/catalog"
	"github.com/dmitrymomot/sprayshop/pkg/logger"
)

// Service implements the cart operations on top of a Store. Read-modify-write
// cycles are serialized per service.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
	mu     sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("cart"))
	return s
}

// Get returns the user's cart.
func (s *Service) Get(ctx context.Context, userID string) (Cart, error) {
	if userID == "" {
		return Cart{}, ErrNoUser
	}
	return s.store.Load(ctx, userID)
}

// Add puts qty units of p in the cart, merging with an existing line for the
// same product. A non-positive qty adds one unit.
func (s *Service) Add(ctx context.Context, userID string, p catalog.Product, qty int) (Cart, error) {
	if qty <= 0 {
		qty = 1
	}
	c, _, err := s.update(ctx, userID, func(c *Cart, now time.Time) bool {
		if i := index(c.Items, p.ID); i >= 0 {
			c.Items[i].Quantity += qty
			return true
		}
		c.Items = append(c.Items, Item{
			ProductID: p.ID,
			Name:      p.Name,
			Brand:     p.Brand,
			Price:     p.Price,
			Image:     p.FirstImage(),
			Quantity:  qty,
			AddedAt:   now,
		})
		return true
	})
	if err == nil {
		s.logger.DebugContext(ctx, "added to cart", logger.UserID(userID), logger.ProductID(p.ID))
	}
	return c, err
}

// Remove drops the line for productID. It reports whether a cart existed.
func (s *Service) Remove(ctx context.Context, userID, productID string) (Cart, bool, error) {
	return s.update(ctx, userID, func(c *Cart, _ time.Time) bool {
		existed := !c.UpdatedAt.IsZero()
		c.Items = slices.DeleteFunc(c.Items, func(it Item) bool { return it.ProductID == productID })
		return existed
	})
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero
// or less removes the line. It reports false when the product is not in
// the cart.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, qty int) (Cart, bool, error) {
	if qty <= 0 {
		return s.Remove(ctx, userID, productID)
	}
	return s.update(ctx, userID, func(c *Cart, _ time.Time) bool {
		i := index(c.Items, productID)
		if i < 0 {
			return false
		}
		c.Items[i].Quantity = qty
		return true
	})
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	_, _, err := s.update(ctx, userID, func(c *Cart, _ time.Time) bool {
		c.Items = []Item{}
		return true
	})
	return err
}

// Count returns the number of units in the cart, for the header badge.
func (s *Service) Count(ctx context.Context, userID string) (int, error) {
	c, err := s.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return c.Count(), nil
}

// update applies fn and saves when it reports a change.
func (s *Service) update(ctx context.Context, userID string, fn func(c *Cart, now time.Time) bool) (Cart, bool, error) {
	if userID == "" {
		return Cart{}, false, ErrNoUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.store.Load(ctx, userID)
	if err != nil {
		return Cart{}, false, err
	}

	now := s.now()
	if !fn(&c, now) {
		return c, false, nil
	}

	c.UserID = userID
	c.UpdatedAt = now
	if c.Items == nil {
		c.Items = []Item{}
	}
	if err := s.store.Save(ctx, c); err != nil {
		return Cart{}, false, err
	}
	return c, true, nil
}

func index(items []Item, productID string) int {
	return slices.IndexFunc(items, func(it Item) bool { return it.ProductID == productID })
}
