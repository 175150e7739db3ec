package identity

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/sprayshop/pkg/ratelimiter"
)

// Option configures a Provider.
type Option func(*Provider)

// WithProfileWriter sets where profile records are created on sign-up.
func WithProfileWriter(w ProfileWriter) Option {
	return func(p *Provider) {
		p.profiles = w
	}
}

// WithGoogle enables Google sign-in.
func WithGoogle(g GoogleAuthenticator, verifiedOnly bool) Option {
	return func(p *Provider) {
		p.google = g
		p.verifiedOnly = verifiedOnly
	}
}

// WithStateTTL sets how long an OAuth state stays valid.
func WithStateTTL(ttl time.Duration) Option {
	return func(p *Provider) {
		if ttl > 0 {
			p.stateTTL = ttl
		}
	}
}

// WithSignInLimiter throttles failed password attempts per email.
func WithSignInLimiter(b *ratelimiter.Bucket) Option {
	return func(p *Provider) {
		p.limiter = b
	}
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(p *Provider) {
		p.bcryptCost = cost
	}
}

// WithMinPasswordLength sets the shortest accepted password.
func WithMinPasswordLength(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.minPassword = n
		}
	}
}

// WithAdminSignup lets registrations request the administrator role.
// Otherwise such requests are downgraded to client.
func WithAdminSignup(allow bool) Option {
	return func(p *Provider) {
		p.adminSignup = allow
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = l
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		p.now = now
	}
}
