package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/sprayshop/pkg/admin"
	"github.com/dmitrymomot/sprayshop/pkg/authstate"
	"github.com/dmitrymomot/sprayshop/pkg/cart"
	"github.com/dmitrymomot/sprayshop/pkg/catalog"
	"github.com/dmitrymomot/sprayshop/pkg/httpserver"
	"github.com/dmitrymomot/sprayshop/pkg/identity"
	"github.com/dmitrymomot/sprayshop/pkg/logger"
	"github.com/dmitrymomot/sprayshop/pkg/requestid"
)

// Session is the read side of the session state manager.
type Session interface {
	State() authstate.State
	Subscribe(fn func(authstate.State)) (unsubscribe func())
	Identity() *authstate.Identity
	IsAuthenticated() bool
}

// Authenticator signs the storefront user in and out.
type Authenticator interface {
	Register(ctx context.Context, in identity.RegisterInput) (*authstate.Identity, error)
	SignIn(ctx context.Context, email, password string) (*authstate.Identity, error)
	SignOut(ctx context.Context)
	GoogleAuthURL(ctx context.Context) (string, error)
	SignInWithGoogle(ctx context.Context, code, state string) (*authstate.Identity, error)
}

// Server holds the handlers and their dependencies.
type Server struct {
	session  Session
	auth     Authenticator
	products catalog.Store
	carts    *cart.Service
	admin    *admin.Service
	logger   *slog.Logger
	checks   []func(context.Context) error
}

// Option configures a Server.
type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithReadinessChecks adds checks run by /readyz.
func WithReadinessChecks(checks ...func(context.Context) error) Option {
	return func(s *Server) {
		s.checks = append(s.checks, checks...)
	}
}

func New(session Session, auth Authenticator, products catalog.Store, carts *cart.Service, adminSvc *admin.Service, opts ...Option) *Server {
	s := &Server{
		session:  session,
		auth:     auth,
		products: products,
		carts:    carts,
		admin:    adminSvc,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("web"))
	return s
}

// Router returns the HTTP handler with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		s.logRequests,
		middleware.Recoverer,
	)

	r.Get("/healthz", httpserver.HealthCheckHandler(s.logger))
	r.Get("/readyz", httpserver.HealthCheckHandler(s.logger, s.readinessChecks()...))

	r.Route("/auth", func(r chi.Router) {
		r.Get("/state", s.getState)
		r.Get("/state/stream", s.streamState)
		r.Post("/register", s.register)
		r.Post("/login", s.login)
		r.Post("/logout", s.logout)
		r.Get("/google", s.googleRedirect)
		r.Get("/google/callback", s.googleCallback)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.listProducts)
		r.Get("/{id}", s.getProduct)
	})

	r.Get("/cart/count", s.cartCount)
	r.Route("/cart", func(r chi.Router) {
		r.Use(s.RequireAuth)
		r.Get("/", s.getCart)
		r.Delete("/", s.clearCart)
		r.Post("/items", s.addCartItem)
		r.Patch("/items/{productID}", s.updateCartItem)
		r.Delete("/items/{productID}", s.removeCartItem)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.RequireAdmin)
		r.Get("/dashboard", s.dashboard)
		r.Get("/users", s.listUsers)
		r.Patch("/users/{id}/role", s.changeRole)
		r.Post("/products", s.createProduct)
	})

	return r
}

// readinessChecks always includes the session having synchronized with the
// identity provider.
func (s *Server) readinessChecks() []func(context.Context) error {
	initialized := func(context.Context) error {
		if !s.session.State().Initialized {
			return ErrSessionNotReady
		}
		return nil
	}
	return append([]func(context.Context) error{initialized}, s.checks...)
}

// userID returns the signed-in identity id, or an empty string.
func (s *Server) userID() string {
	if id := s.session.Identity(); id != nil {
		return id.ID
	}
	return ""
}
