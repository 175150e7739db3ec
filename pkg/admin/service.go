package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/sprayshop/pkg/authstate"
	"github.com/dmitrymomot/sprayshop/pkg/logger"
	"github.com/dmitrymomot/sprayshop/pkg/profile"
)

// Session is the part of the session manager the admin service relies on.
type Session interface {
	IsAuthenticated() bool
	IsAdministrator() bool
	DisplayName() string
	Identity() *authstate.Identity
	SetIdentity(ctx context.Context, id *authstate.Identity)
}

// ProductCounter counts catalog products.
type ProductCounter interface {
	CountProducts(ctx context.Context) (int64, error)
}

// Dashboard holds the admin landing page figures. A figure that could not
// be loaded is reported as zero.
type Dashboard struct {
	AdminName       string `json:"admin_name"`
	Products        int64  `json:"products"`
	Orders          int64  `json:"orders"`
	PendingMessages int64  `json:"pending_messages"`
	Users           int    `json:"users"`
	Clients         int    `json:"clients"`
	Administrators  int    `json:"administrators"`
}

// User is a row of the user management table.
type User struct {
	ID        string         `json:"id"`
	FullName  string         `json:"full_name"`
	Email     string         `json:"email"`
	Role      authstate.Role `json:"role"`
	CreatedAt time.Time      `json:"created_at,omitzero"`
}

// Service implements the role-gated administration operations.
type Service struct {
	session  Session
	profiles profile.Store
	products ProductCounter
	counters Counters
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

func NewService(session Session, profiles profile.Store, products ProductCounter, counters Counters, opts ...Option) *Service {
	s := &Service{
		session:  session,
		profiles: profiles,
		products: products,
		counters: counters,
		logger:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("admin"))
	return s
}

// Authorize returns nil when the session belongs to an administrator.
func (s *Service) Authorize() error {
	if !s.session.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if !s.session.IsAdministrator() {
		return ErrForbidden
	}
	return nil
}

// Dashboard gathers the landing page figures.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	if err := s.Authorize(); err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{AdminName: s.session.DisplayName()}
	d.Products = s.count(ctx, "products", s.products.CountProducts)
	d.Orders = s.count(ctx, "orders", s.counters.CountOrders)

	pending, err := s.counters.CountPendingMessages(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "pending message count failed, counting all messages", logger.Error(err))
		pending = s.count(ctx, "messages", s.counters.CountMessages)
	}
	d.PendingMessages = pending

	list, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to list users", logger.Error(err))
	} else {
		byRole := profile.CountByRole(list)
		d.Users = len(list)
		d.Clients = byRole[authstate.RoleClient]
		d.Administrators = byRole[authstate.RoleAdministrator]
	}
	return d, nil
}

// ListUsers returns every user, newest first, with normalized roles.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	if err := s.Authorize(); err != nil {
		return nil, err
	}

	list, err := s.profiles.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]User, 0, len(list))
	for _, p := range list {
		users = append(users, User{
			ID:        p.ID,
			FullName:  p.FullName,
			Email:     p.Email,
			Role:      authstate.NormalizeRole(p.Role),
			CreatedAt: p.CreatedAt,
		})
	}
	return users, nil
}

// ChangeRole sets the role of userID. When the administrator changes their
// own role the session is reconciled right away.
func (s *Service) ChangeRole(ctx context.Context, userID, role string) error {
	if err := s.Authorize(); err != nil {
		return err
	}

	r, err := ParseRole(role)
	if err != nil {
		return err
	}

	if err := s.profiles.SetRole(ctx, userID, r); err != nil {
		if errors.Is(err, authstate.ErrProfileNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("change role: %w", err)
	}

	s.logger.InfoContext(ctx, "user role changed", logger.UserID(userID), logger.Role(r))

	if id := s.session.Identity(); id != nil && id.ID == userID {
		s.session.SetIdentity(ctx, id)
	}
	return nil
}

// ParseRole accepts the known role names, in English or Spanish, ignoring
// case. Unlike authstate.NormalizeRole it rejects anything else.
func ParseRole(raw string) (authstate.Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "client", "cliente":
		return authstate.RoleClient, nil
	case "administrator", "administrador", "admin":
		return authstate.RoleAdministrator, nil
	default:
		return authstate.RoleNone, fmt.Errorf("%w: %q", ErrInvalidRole, raw)
	}
}

func (s *Service) count(ctx context.Context, what string, fn func(context.Context) (int64, error)) int64 {
	n, err := fn(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "dashboard count failed", slog.String("count", what), logger.Error(err))
		return 0
	}
	return n
}
