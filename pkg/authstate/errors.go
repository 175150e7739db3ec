package authstate

import "errors"

var (
	// ErrProfileNotFound is returned by a ProfileStore when no record exists for the identity.
	ErrProfileNotFound = errors.New("authstate.profile_not_found")

	// ErrSnapshotNotFound is returned by a SnapshotCache when nothing is stored under the key.
	ErrSnapshotNotFound = errors.New("authstate.snapshot_not_found")

	// ErrInvalidSnapshot indicates a cached snapshot could not be decoded.
	ErrInvalidSnapshot = errors.New("authstate.invalid_snapshot")
)
