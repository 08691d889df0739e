package restriction

import "errors"

var (
	// ErrRestrictionNotFound covers both absence and ownership by another
	// admin; the two are deliberately indistinguishable to callers.
	ErrRestrictionNotFound = errors.New("restriction not found")

	ErrDuplicateRestriction = errors.New("an active restriction already exists for this admin and user")
	ErrInvalidTarget        = errors.New("restriction target must be a super_admin")
)
