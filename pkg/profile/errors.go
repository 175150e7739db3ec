package profile

import "errors"

var (
	ErrAlreadyExists = errors.New("profile.already_exists")
	ErrInvalidID     = errors.New("profile.invalid_id")
	ErrCircuitOpen   = errors.New("profile.circuit_open")
	ErrStoreFailure  = errors.New("profile.store_failure")
)
