package identity

import (
	"context"
	"time"

	"github.com/dmitrymomot/sprayshop/pkg/authstate"
)

// Account is a credential record. PasswordHash is empty for accounts created
// through Google sign-in; GoogleID is empty for password accounts.
type Account struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash []byte
	GoogleID     string
	Disabled     bool
	CreatedAt    time.Time
}

func (a *Account) identity() *authstate.Identity {
	return &authstate.Identity{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.FullName,
	}
}

// AccountStore persists accounts. Lookups return ErrUserNotFound for unknown
// keys; CreateAccount returns ErrEmailInUse when the email or Google id is taken.
type AccountStore interface {
	CreateAccount(ctx context.Context, a *Account) error
	AccountByEmail(ctx context.Context, email string) (*Account, error)
	AccountByGoogleID(ctx context.Context, googleID string) (*Account, error)
}

// ProfileWriter creates the profile record that carries an account's role.
type ProfileWriter interface {
	CreateProfile(ctx context.Context, p authstate.Profile) error
}
