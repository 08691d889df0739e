package lead

import "errors"

var (
	// ErrLeadNotFound covers both absence and leads outside the caller's
	// visible set.
	ErrLeadNotFound = errors.New("lead not found")

	// ErrNotAssignable means the target is outside the caller's assignable set
	ErrNotAssignable = errors.New("target user is not assignable by caller")

	// ErrInvalidTransition means the requested stage change is not allowed
	// from the lead's current status. Converted leads accept none.
	ErrInvalidTransition = errors.New("invalid lead status transition")
)
