package profile

import (
	"context"

	"github.com/dmitrymomot/sprayshop/pkg/authstate"
)

// Store persists user profile records. Lookups for unknown ids return an
// error matching authstate.ErrProfileNotFound, so every Store can be handed to
// the session manager directly.
type Store interface {
	GetProfile(ctx context.Context, id string) (*authstate.Profile, error)
	CreateProfile(ctx context.Context, p authstate.Profile) error
	SetRole(ctx context.Context, id string, role authstate.Role) error
	ListProfiles(ctx context.Context) ([]authstate.Profile, error)
}
