package authz

import "errors"

var (
	// ErrActorNotFound means the actor does not exist in the directory.
	// Deliberately distinct from an empty assignable set.
	ErrActorNotFound = errors.New("actor not found in directory")

	// ErrStoreUnavailable means the directory or restriction store could not
	// be read; the computation is aborted rather than answered from a
	// partial snapshot, and the caller may retry.
	ErrStoreUnavailable = errors.New("backing store unavailable")
)
