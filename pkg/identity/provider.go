package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/sprayshop/pkg/authstate"
	"github.com/dmitrymomot/sprayshop/pkg/logger"
	"github.com/dmitrymomot/sprayshop/pkg/ratelimiter"
)

// Config carries the environment settings of the provider.
type Config struct {
	BcryptCost        int                `env:"IDENTITY_BCRYPT_COST" envDefault:"10"`
	MinPasswordLength int                `env:"IDENTITY_MIN_PASSWORD_LENGTH" envDefault:"6"`
	AllowAdminSignup  bool               `env:"IDENTITY_ALLOW_ADMIN_SIGNUP" envDefault:"false"`
	SignInLimit       ratelimiter.Config `envPrefix:"IDENTITY_SIGNIN_"`
	Google            GoogleConfig
}

// RegisterInput is a password sign-up request. Role is the raw requested
// role; it is normalized before the profile is written.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// Provider authenticates the single storefront session and tells listeners
// whenever the signed-in identity changes. It satisfies
// authstate.IdentityProvider.
type Provider struct {
	accounts     AccountStore
	profiles     ProfileWriter
	google       GoogleAuthenticator
	verifiedOnly bool
	limiter      *ratelimiter.Bucket
	bcryptCost   int
	minPassword  int
	adminSignup  bool
	stateTTL     time.Duration
	logger       *slog.Logger
	now          func() time.Time

	// eventMu serializes identity changes and their delivery.
	eventMu sync.Mutex

	mu        sync.RWMutex
	current   *authstate.Identity
	listeners []*listener
	states    map[string]time.Time
}

type listener struct {
	fn     func(*authstate.Identity)
	active atomic.Bool
}

// NewProvider returns a provider over accounts with nobody signed in.
func NewProvider(accounts AccountStore, opts ...Option) *Provider {
	p := &Provider{
		accounts:    accounts,
		bcryptCost:  bcrypt.DefaultCost,
		minPassword: 6,
		stateTTL:    10 * time.Minute,
		logger:      logger.Discard(),
		now:         time.Now,
		states:      make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(logger.Component("identity"))
	return p
}

// Register creates a password account and its profile, then signs it in.
// A failing profile write is logged and does not fail the registration.
func (p *Provider) Register(ctx context.Context, in RegisterInput) (*authstate.Identity, error) {
	email := NormalizeEmail(in.Email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if len(in.Password) < p.minPassword {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrWeakPassword
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc := &Account{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		CreatedAt:    p.now(),
	}
	if err := p.accounts.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}

	role := authstate.NormalizeRole(in.Role)
	if role == authstate.RoleAdministrator && !p.adminSignup {
		p.logger.WarnContext(ctx, "administrator sign-up not allowed, registering as client",
			logger.UserID(acc.ID))
		role = authstate.RoleClient
	}
	p.writeProfile(ctx, acc, role)

	id := acc.identity()
	p.logger.InfoContext(ctx, "account registered", logger.UserID(id.ID), logger.Role(role))
	p.setCurrent(id)
	return id, nil
}

// SignIn verifies an email and password and signs the account in.
func (p *Provider) SignIn(ctx context.Context, email, password string) (*authstate.Identity, error) {
	email = NormalizeEmail(email)
	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}

	key := "signin:" + email
	if p.limiter != nil {
		res, err := p.limiter.Peek(ctx, key)
		if err == nil && res.Remaining <= 0 {
			return nil, ErrTooManyRequests
		}
	}

	acc, err := p.accounts.AccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			p.recordFailure(ctx, key)
		}
		return nil, err
	}
	if acc.Disabled {
		return nil, ErrUserDisabled
	}
	if len(acc.PasswordHash) == 0 {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(password)); err != nil {
		p.recordFailure(ctx, key)
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrWrongPassword
		}
		return nil, errors.Join(ErrInvalidCredential, err)
	}

	if p.limiter != nil {
		_ = p.limiter.Reset(ctx, key)
	}

	id := acc.identity()
	p.logger.InfoContext(ctx, "signed in", logger.UserID(id.ID))
	p.setCurrent(id)
	return id, nil
}

// GoogleAuthURL starts a Google sign-in and returns the consent page URL.
func (p *Provider) GoogleAuthURL(ctx context.Context) (string, error) {
	if p.google == nil {
		return "", ErrOperationNotAllowed
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	state := base64.RawURLEncoding.EncodeToString(b)

	now := p.now()
	p.mu.Lock()
	for s, exp := range p.states {
		if !now.Before(exp) {
			delete(p.states, s)
		}
	}
	p.states[state] = now.Add(p.stateTTL)
	p.mu.Unlock()

	return p.google.AuthCodeURL(state), nil
}

// SignInWithGoogle completes a Google sign-in. First-time users get an
// account and a client profile. An empty code means the user backed out
// of the consent screen.
func (p *Provider) SignInWithGoogle(ctx context.Context, code, state string) (*authstate.Identity, error) {
	if p.google == nil {
		return nil, ErrOperationNotAllowed
	}
	if !p.consumeState(state) {
		return nil, ErrInvalidState
	}
	if code == "" {
		return nil, ErrOAuthCancelled
	}

	gu, err := p.google.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	gu.Email = NormalizeEmail(gu.Email)
	if p.verifiedOnly && !gu.VerifiedEmail {
		return nil, ErrInvalidCredential
	}

	acc, err := p.accounts.AccountByGoogleID(ctx, gu.ID)
	switch {
	case err == nil:
	case errors.Is(err, ErrUserNotFound):
		acc, err = p.createGoogleAccount(ctx, gu)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if acc.Disabled {
		return nil, ErrUserDisabled
	}

	id := acc.identity()
	p.logger.InfoContext(ctx, "signed in with google", logger.UserID(id.ID))
	p.setCurrent(id)
	return id, nil
}

// SignOut clears the current identity.
func (p *Provider) SignOut(ctx context.Context) {
	p.eventMu.Lock()
	defer p.eventMu.Unlock()

	p.mu.RLock()
	signedIn := p.current != nil
	p.mu.RUnlock()
	if !signedIn {
		return
	}

	p.logger.InfoContext(ctx, "signed out")
	p.publishLocked(nil)
}

// CurrentIdentity returns a copy of the signed-in identity, or nil.
func (p *Provider) CurrentIdentity() *authstate.Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.current == nil {
		return nil
	}
	id := *p.current
	return &id
}

// OnIdentityChanged registers fn for every sign-in and sign-out. Listeners
// run one at a time, in registration order, on the goroutine that caused
// the change.
func (p *Provider) OnIdentityChanged(fn func(*authstate.Identity)) (cancel func()) {
	l := &listener{fn: fn}
	l.active.Store(true)

	p.mu.Lock()
	p.listeners = append(p.listeners, l)
	p.mu.Unlock()

	return func() {
		if !l.active.CompareAndSwap(true, false) {
			return
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, x := range p.listeners {
			if x == l {
				p.listeners = append(p.listeners[:i:i], p.listeners[i+1:]...)
				break
			}
		}
	}
}

func (p *Provider) createGoogleAccount(ctx context.Context, gu *GoogleUser) (*Account, error) {
	if _, err := p.accounts.AccountByEmail(ctx, gu.Email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	acc := &Account{
		ID:        uuid.NewString(),
		Email:     gu.Email,
		FullName:  strings.TrimSpace(gu.Name),
		GoogleID:  gu.ID,
		CreatedAt: p.now(),
	}
	if err := p.accounts.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}
	p.writeProfile(ctx, acc, authstate.RoleClient)
	return acc, nil
}

func (p *Provider) writeProfile(ctx context.Context, acc *Account, role authstate.Role) {
	if p.profiles == nil {
		return
	}
	err := p.profiles.CreateProfile(ctx, authstate.Profile{
		ID:        acc.ID,
		FullName:  acc.FullName,
		Email:     acc.Email,
		Role:      string(role),
		CreatedAt: acc.CreatedAt,
	})
	if err != nil {
		p.logger.WarnContext(ctx, "failed to create profile record",
			logger.UserID(acc.ID),
			logger.Error(err),
		)
	}
}

func (p *Provider) consumeState(state string) bool {
	if state == "" {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	exp, ok := p.states[state]
	delete(p.states, state)
	return ok && p.now().Before(exp)
}

func (p *Provider) recordFailure(ctx context.Context, key string) {
	if p.limiter == nil {
		return
	}
	if _, err := p.limiter.Allow(ctx, key); err != nil {
		p.logger.WarnContext(ctx, "failed to record sign-in attempt", logger.Error(err))
	}
}

func (p *Provider) setCurrent(id *authstate.Identity) {
	p.eventMu.Lock()
	defer p.eventMu.Unlock()
	p.publishLocked(id)
}

// publishLocked must be called with eventMu held.
func (p *Provider) publishLocked(id *authstate.Identity) {
	if id != nil {
		cp := *id
		id = &cp
	}

	p.mu.Lock()
	p.current = id
	listeners := append([]*listener(nil), p.listeners...)
	p.mu.Unlock()

	for _, l := range listeners {
		if !l.active.Load() {
			continue
		}
		var ev *authstate.Identity
		if id != nil {
			cp := *id
			ev = &cp
		}
		l.fn(ev)
	}
}
