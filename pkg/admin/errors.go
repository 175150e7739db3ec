package admin

import "errors"

var (
	ErrUnauthenticated = errors.New("admin.unauthenticated")
	ErrForbidden       = errors.New("admin.forbidden")
	ErrInvalidRole     = errors.New("admin.invalid_role")
	ErrUserNotFound    = errors.New("admin.user_not_found")
)
