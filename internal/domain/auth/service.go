package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/loopcrm/loopcrm-api/internal/domain/user"
	"github.com/loopcrm/loopcrm-api/internal/pkg/jwt"
	"github.com/loopcrm/loopcrm-api/internal/pkg/password"
)

// Directory is the user lookup surface the auth flow needs
type Directory interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// Service handles login and refresh token rotation
type Service struct {
	dir    Directory
	jwt    *jwt.Service
	tokens TokenStore
}

// NewService creates auth service
func NewService(dir Directory, jwtService *jwt.Service, tokens TokenStore) *Service {
	return &Service{dir: dir, jwt: jwtService, tokens: tokens}
}

func (s *Service) issueTokens(ctx context.Context, u *user.User) (TokenPair, error) {
	accessToken, err := s.jwt.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, jti, _, err := s.jwt.GenerateRefreshToken(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.tokens.Save(ctx, jti, jwt.HashRefreshToken(refreshToken), s.jwt.GetRefreshTTL()); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.jwt.GetAccessTTL()),
	}, nil
}

// Login verifies credentials and issues a token pair. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (*user.User, TokenPair, error) {
	u, err := s.dir.GetByEmail(ctx, email)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if u == nil || !password.Verify(plainPassword, u.PasswordHash) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !u.IsActive() {
		return nil, TokenPair{}, ErrUserInactive
	}

	if err := s.dir.UpdateLastLogin(ctx, u.ID); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("Failed to record login time")
	}

	tokens, err := s.issueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}

	log.Info().
		Str("user_id", u.ID.String()).
		Str("role", string(u.Role)).
		Msg("User logged in")

	return u, tokens, nil
}

// Refresh rotates a refresh token: the presented token is validated, its
// stored hash consumed, and a fresh pair issued. A consumed or unknown
// token fails; so does one whose stored hash does not match, which covers
// a forged token that reuses a live jti.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	storedHash, err := s.tokens.Take(ctx, claims.ID)
	if err != nil {
		return TokenPair{}, err
	}
	if storedHash == "" || storedHash != jwt.HashRefreshToken(refreshToken) {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	u, err := s.dir.GetByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	if u == nil {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	if !u.IsActive() {
		return TokenPair{}, ErrUserInactive
	}

	return s.issueTokens(ctx, u)
}

// Logout revokes the presented refresh token. Idempotent; an already
// revoked token is not an error.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	return s.tokens.Revoke(ctx, claims.ID)
}
