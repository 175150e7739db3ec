package authstate

import "context"

// IdentityProvider is the authentication backend the manager mirrors.
type IdentityProvider interface {
	// CurrentIdentity returns the identity known right now, or nil.
	CurrentIdentity() *Identity

	// OnIdentityChanged registers fn for every sign-in, sign-out or expiry.
	// Implementations deliver events serially. The returned func cancels the registration.
	OnIdentityChanged(fn func(*Identity)) (cancel func())
}

// ProfileStore resolves the profile record of an identity.
type ProfileStore interface {
	// GetProfile returns ErrProfileNotFound when no record exists.
	GetProfile(ctx context.Context, identityID string) (*Profile, error)
}

// ProfileStoreFunc adapts a function to the ProfileStore interface.
type ProfileStoreFunc func(ctx context.Context, identityID string) (*Profile, error)

// GetProfile calls f.
func (f ProfileStoreFunc) GetProfile(ctx context.Context, identityID string) (*Profile, error) {
	return f(ctx, identityID)
}
