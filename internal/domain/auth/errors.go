package auth

import "errors"

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserInactive means the account exists but may not log in
	ErrUserInactive = errors.New("user is inactive")

	// ErrInvalidRefreshToken covers expired, malformed, revoked and reused
	// refresh tokens.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
