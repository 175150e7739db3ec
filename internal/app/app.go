package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/sprayshop/internal/web"
	"github.com/dmitrymomot/sprayshop/pkg/admin"
	"github.com/dmitrymomot/sprayshop/pkg/authstate"
	"github.com/dmitrymomot/sprayshop/pkg/cart"
	"github.com/dmitrymomot/sprayshop/pkg/catalog"
	"github.com/dmitrymomot/sprayshop/pkg/identity"
	"github.com/dmitrymomot/sprayshop/pkg/logger"
	"github.com/dmitrymomot/sprayshop/pkg/mongo"
	"github.com/dmitrymomot/sprayshop/pkg/profile"
	"github.com/dmitrymomot/sprayshop/pkg/ratelimiter"
	"github.com/dmitrymomot/sprayshop/pkg/redis"
	"github.com/dmitrymomot/sprayshop/pkg/requestid"
)

// App is the wired storefront.
type App struct {
	Manager  *authstate.Manager
	Provider *identity.Provider
	Handler  http.Handler
}

// NewLogger builds the process logger for cfg.
func NewLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.AppEnv, "sprayshop"),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if cfg.LogLevel != "" {
		opts = append(opts, logger.WithLevel(logger.ParseLevel(cfg.LogLevel)))
	}
	if cfg.LogFormat != "" {
		opts = append(opts, logger.WithFormat(logger.Format(cfg.LogFormat)))
	}
	return logger.New(opts...)
}

// New wires stores, the identity provider, the session manager and the HTTP
// handler. rdb may be nil, in which case the session snapshot lives in memory.
// The manager is not initialized; call Manager.Initialize before serving.
func New(ctx context.Context, cfg Config, db *mongodriver.Database, rdb goredis.UniversalClient, log *slog.Logger) (*App, error) {
	accounts := identity.NewMongoAccountStore(db)
	if err := accounts.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("account indexes: %w", err)
	}
	products := catalog.NewMongoStore(db)
	if err := products.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("catalog indexes: %w", err)
	}

	profiles := profile.NewBreaker(profile.NewMongoStore(db), cfg.Breaker, log)
	cachedProducts := catalog.NewCachedStore(products, cfg.CatalogCacheSize, cfg.CatalogCacheTTL)

	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg.Identity.SignInLimit)
	if err != nil {
		return nil, fmt.Errorf("sign-in limiter: %w", err)
	}

	providerOpts := []identity.Option{
		identity.WithProfileWriter(profiles),
		identity.WithSignInLimiter(limiter),
		identity.WithBcryptCost(cfg.Identity.BcryptCost),
		identity.WithMinPasswordLength(cfg.Identity.MinPasswordLength),
		identity.WithAdminSignup(cfg.Identity.AllowAdminSignup),
		identity.WithLogger(log),
	}
	if g := cfg.Identity.Google; g.Enabled() {
		providerOpts = append(providerOpts,
			identity.WithGoogle(identity.NewGoogleOAuth(g), g.VerifiedOnly),
			identity.WithStateTTL(g.StateTTL),
		)
	} else {
		log.InfoContext(ctx, "google sign-in disabled")
	}
	provider := identity.NewProvider(accounts, providerOpts...)

	var snapshots authstate.SnapshotCache = authstate.NewMemoryCache()
	if rdb != nil {
		snapshots = authstate.NewRedisCache(rdb, cfg.SessionMaxAge)
	}
	manager := authstate.New(
		authstate.WithIdentityProvider(provider),
		authstate.WithProfileStore(profiles),
		authstate.WithCache(snapshots),
		authstate.WithCacheKey(cfg.SessionCacheKey),
		authstate.WithMaxAge(cfg.SessionMaxAge),
		authstate.WithProfileTimeout(cfg.SessionProfileTimeout),
		authstate.WithLogger(log),
	)

	carts := cart.NewService(cart.NewMongoStore(db), cart.WithLogger(log))
	adminSvc := admin.NewService(manager, profiles, cachedProducts, admin.NewMongoCounters(db), admin.WithLogger(log))

	checks := []func(context.Context) error{mongo.Healthcheck(db.Client())}
	if rdb != nil {
		checks = append(checks, redis.Healthcheck(rdb))
	}
	srv := web.New(manager, provider, cachedProducts, carts, adminSvc,
		web.WithLogger(log),
		web.WithReadinessChecks(checks...),
	)

	return &App{Manager: manager, Provider: provider, Handler: srv.Router()}, nil
}

// Close detaches the session manager from the identity provider.
func (a *App) Close() error {
	return a.Manager.Close()
}
