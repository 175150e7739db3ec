package identity

import "errors"

var (
	ErrEmailInUse          = errors.New("identity.email_in_use")
	ErrInvalidEmail        = errors.New("identity.invalid_email")
	ErrOperationNotAllowed = errors.New("identity.operation_not_allowed")
	ErrWeakPassword        = errors.New("identity.weak_password")
	ErrUserDisabled        = errors.New("identity.user_disabled")
	ErrUserNotFound        = errors.New("identity.user_not_found")
	ErrWrongPassword       = errors.New("identity.wrong_password")
	ErrInvalidCredential   = errors.New("identity.invalid_credential")
	ErrTooManyRequests     = errors.New("identity.too_many_requests")
	ErrNetwork             = errors.New("identity.network_request_failed")
	ErrOAuthCancelled      = errors.New("identity.oauth_cancelled")
	ErrInvalidState        = errors.New("identity.invalid_oauth_state")
)
