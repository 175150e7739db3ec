package authstate

import (
	"strings"
	"time"
)

// Role is the coarse-grained authorization tag of the signed-in user.
// The empty role means nobody is signed in.
type Role string

const (
	RoleNone          Role = ""
	RoleClient        Role = "client"
	RoleAdministrator Role = "administrator"
)

// NormalizeRole maps a raw role value from the profile store onto one of the
// two known roles. Anything unrecognized resolves to RoleClient, never to
// RoleAdministrator.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "administrator", "administrador", "admin":
		return RoleAdministrator
	default:
		return RoleClient
	}
}

// Identity is the authenticated principal issued by the identity provider.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// Profile is the denormalized user record kept by the profile store.
type Profile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// State is a point-in-time copy of the manager's session state.
// Subscribers receive it by value; mutating it has no effect on the manager.
type State struct {
	Identity      *Identity `json:"identity,omitempty"`
	Role          Role      `json:"role"`
	Profile       *Profile  `json:"profile,omitempty"`
	Authenticated bool      `json:"authenticated"`
	Initialized   bool      `json:"initialized"`
	Provisional   bool      `json:"provisional"`
}

// IsAdministrator reports whether the state has a signed-in identity with
// the administrator role.
func (s State) IsAdministrator() bool {
	return s.Identity != nil && s.Role == RoleAdministrator
}

// DisplayName returns the profile full name, then the identity display name,
// then the identity email, then DefaultDisplayName. It returns an empty
// string when nobody is signed in.
func (s State) DisplayName() string {
	id := s.Identity
	if id == nil {
		return ""
	}
	if s.Profile != nil && s.Profile.FullName != "" {
		return s.Profile.FullName
	}
	if id.DisplayName != "" {
		return id.DisplayName
	}
	if id.Email != "" {
		return id.Email
	}
	return DefaultDisplayName
}

func (s State) clone() State {
	if s.Identity != nil {
		id := *s.Identity
		s.Identity = &id
	}
	if s.Profile != nil {
		p := *s.Profile
		s.Profile = &p
	}
	return s
}
