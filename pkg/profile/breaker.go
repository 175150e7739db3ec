package profile

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dmitrymomot/sprayshop/pkg/authstate"
	"github.com/dmitrymomot/sprayshop/pkg/logger"
)

// BreakerConfig tunes the circuit breaker around a profile Store.
type BreakerConfig struct {
	Name             string        `env:"PROFILE_CB_NAME" envDefault:"profile-store"`
	MaxRequests      uint32        `env:"PROFILE_CB_MAX_REQUESTS" envDefault:"1"`      // probes allowed while half-open
	Interval         time.Duration `env:"PROFILE_CB_INTERVAL" envDefault:"60s"`        // closed-state counter reset period
	Timeout          time.Duration `env:"PROFILE_CB_TIMEOUT" envDefault:"30s"`         // open-state duration
	FailureThreshold uint32        `env:"PROFILE_CB_FAILURE_THRESHOLD" envDefault:"5"` // consecutive failures to trip
}

// Breaker decorates a Store with a circuit breaker. Missing profiles and
// validation errors are successful outcomes; only backend failures count
// toward tripping. While open, every call fails fast with ErrCircuitOpen.
type Breaker struct {
	next Store
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps next. Zero config fields fall back to the env defaults.
func NewBreaker(next Store, cfg BreakerConfig, log *slog.Logger) *Breaker {
	if log == nil {
		log = logger.Discard()
	}
	if cfg.Name == "" {
		cfg.Name = "profile-store"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, authstate.ErrProfileNotFound) ||
				errors.Is(err, ErrAlreadyExists) ||
				errors.Is(err, ErrInvalidID)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			attrs := []any{
				logger.Component("profile"),
				slog.String("breaker", name),
				slog.String("from", from.String()),
			}
			if to == gobreaker.StateOpen {
				log.Warn("circuit breaker opened", attrs...)
				return
			}
			log.Info("circuit breaker "+to.String(), attrs...)
		},
	}

	return &Breaker{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// State reports the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func (b *Breaker) GetProfile(ctx context.Context, id string) (*authstate.Profile, error) {
	return execute(b, func() (*authstate.Profile, error) {
		return b.next.GetProfile(ctx, id)
	})
}

func (b *Breaker) CreateProfile(ctx context.Context, p authstate.Profile) error {
	_, err := execute(b, func() (struct{}, error) {
		return struct{}{}, b.next.CreateProfile(ctx, p)
	})
	return err
}

func (b *Breaker) SetRole(ctx context.Context, id string, role authstate.Role) error {
	_, err := execute(b, func() (struct{}, error) {
		return struct{}{}, b.next.SetRole(ctx, id, role)
	})
	return err
}

func (b *Breaker) ListProfiles(ctx context.Context) ([]authstate.Profile, error) {
	return execute(b, func() ([]authstate.Profile, error) {
		return b.next.ListProfiles(ctx)
	})
}

func execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	var zero T
	res, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, errors.Join(ErrCircuitOpen, err)
	}
	if err != nil {
		return zero, err
	}
	v, _ := res.(T)
	return v, nil
}
