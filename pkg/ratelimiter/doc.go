// Package ratelimiter implements a token bucket limiter with pluggable
// storage. The storefront uses it to throttle repeated failed sign-in
// attempts per email address.
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
//	    Capacity:       5,
//	    RefillRate:     1,
//	    RefillInterval: time.Minute,
//	})
//
//	res, err := limiter.Allow(ctx, "signin:"+email)
//	if err == nil && !res.Allowed() {
//	    // reject, retry after res.RetryAfter(time.Now())
//	}
package ratelimiter
