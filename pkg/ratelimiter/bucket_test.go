package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sprayshop/pkg/ratelimiter"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newLimiter(t *testing.T, c *clock, opts ...ratelimiter.MemoryStoreOption) *ratelimiter.Bucket {
	t.Helper()
	store := ratelimiter.NewMemoryStore(append([]ratelimiter.MemoryStoreOption{ratelimiter.WithClock(c.now)}, opts...)...)
	b, err := ratelimiter.NewBucket(store, ratelimiter.Config{
		Capacity:       3,
		RefillRate:     1,
		RefillInterval: time.Minute,
	})
	require.NoError(t, err)
	return b
}

func TestBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("allows up to capacity then denies", func(t *testing.T) {
		c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
		b := newLimiter(t, c)

		for i := range 3 {
			res, err := b.Allow(ctx, "k")
			require.NoError(t, err)
			assert.True(t, res.Allowed())
			assert.Equal(t, 2-i, res.Remaining)
		}

		res, err := b.Allow(ctx, "k")
		require.NoError(t, err)
		assert.False(t, res.Allowed())
		assert.Equal(t, time.Minute, res.RetryAfter(c.now()))

		other, err := b.Allow(ctx, "other")
		require.NoError(t, err)
		assert.True(t, other.Allowed())
	})

	t.Run("refills over time", func(t *testing.T) {
		c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
		b := newLimiter(t, c)

		_, err := b.AllowN(ctx, "k", 3)
		require.NoError(t, err)

		c.advance(2 * time.Minute)
		res, err := b.Peek(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, 2, res.Remaining)

		c.advance(time.Hour)
		res, err = b.Peek(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, 3, res.Remaining)
	})

	t.Run("partial intervals carry over", func(t *testing.T) {
		start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		c := &clock{t: start}
		b := newLimiter(t, c)

		_, err := b.AllowN(ctx, "k", 3)
		require.NoError(t, err)

		c.advance(90 * time.Second)
		res, err := b.Allow(ctx, "k")
		require.NoError(t, err)
		require.True(t, res.Allowed())
		assert.Equal(t, 0, res.Remaining)
		assert.Equal(t, start.Add(2*time.Minute), res.ResetAt)

		c.advance(30 * time.Second)
		res, err = b.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, res.Allowed(), "the half interval before the last refill counts")
	})

	t.Run("denied attempts do not drain further", func(t *testing.T) {
		c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
		b := newLimiter(t, c)

		_, err := b.AllowN(ctx, "k", 3)
		require.NoError(t, err)
		for range 5 {
			res, err := b.Allow(ctx, "k")
			require.NoError(t, err)
			assert.False(t, res.Allowed())
		}

		c.advance(time.Minute)
		res, err := b.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	})

	t.Run("reset restores capacity", func(t *testing.T) {
		c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
		b := newLimiter(t, c)

		_, err := b.AllowN(ctx, "k", 3)
		require.NoError(t, err)
		require.NoError(t, b.Reset(ctx, "k"))

		res, err := b.Peek(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, 3, res.Remaining)
	})

	t.Run("idle buckets are evicted", func(t *testing.T) {
		c := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
		b := newLimiter(t, c, ratelimiter.WithIdleLimit(10*time.Second))

		_, err := b.AllowN(ctx, "k", 3)
		require.NoError(t, err)

		c.advance(30 * time.Second)
		res, err := b.Peek(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, 3, res.Remaining)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{})
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)

		b := newLimiter(t, &clock{t: time.Now()})
		_, err = b.AllowN(ctx, "k", 0)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
	})
}
