package user

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailExists     = errors.New("email already exists")
	ErrManagerNotFound = errors.New("supervisor not found")
	ErrCyclicReporting = errors.New("reassignment would make the user their own ancestor")
)
