package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/loopcrm/loopcrm-api/internal/domain/user"
	"github.com/loopcrm/loopcrm-api/internal/pkg/jwt"
	"github.com/loopcrm/loopcrm-api/internal/pkg/password"
)

type fakeDirectory struct {
	users      map[uuid.UUID]*user.User
	lastLogins int
}

func (f *fakeDirectory) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (f *fakeDirectory) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	f.lastLogins++
	return nil
}

type memoryTokenStore struct {
	hashes map[string]string
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{hashes: make(map[string]string)}
}

func (m *memoryTokenStore) Save(ctx context.Context, jti, tokenHash string, ttl time.Duration) error {
	m.hashes[jti] = tokenHash
	return nil
}

func (m *memoryTokenStore) Take(ctx context.Context, jti string) (string, error) {
	hash := m.hashes[jti]
	delete(m.hashes, jti)
	return hash, nil
}

func (m *memoryTokenStore) Revoke(ctx context.Context, jti string) error {
	delete(m.hashes, jti)
	return nil
}

func setupAuth(t *testing.T) (*Service, *fakeDirectory, *memoryTokenStore, *user.User) {
	t.Helper()

	hash, err := password.Hash("correct-horse-battery")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &user.User{
		ID:           uuid.New(),
		Email:        "counselor@loopcrm.test",
		Name:         "Counselor",
		PasswordHash: hash,
		Role:         user.RoleCounselor,
		Status:       user.StatusActive,
	}
	dir := &fakeDirectory{users: map[uuid.UUID]*user.User{u.ID: u}}
	tokens := newMemoryTokenStore()
	svc := NewService(dir, jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour), tokens)
	return svc, dir, tokens, u
}

func TestLogin(t *testing.T) {
	svc, dir, _, u := setupAuth(t)
	ctx := context.Background()

	got, tokens, err := svc.Login(ctx, u.Email, "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got.ID != u.ID {
		t.Error("wrong user returned")
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("expected both tokens issued")
	}
	if dir.lastLogins != 1 {
		t.Error("expected login time recorded")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _, _, u := setupAuth(t)
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, u.Email, "wrong-password"); err != ErrInvalidCredentials {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@loopcrm.test", "correct-horse-battery"); err != ErrInvalidCredentials {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	svc, _, _, u := setupAuth(t)
	u.Status = user.StatusInactive

	if _, _, err := svc.Login(context.Background(), u.Email, "correct-horse-battery"); err != ErrUserInactive {
		t.Errorf("expected ErrUserInactive, got %v", err)
	}
}

func TestRefreshRotation(t *testing.T) {
	svc, _, _, u := setupAuth(t)
	ctx := context.Background()

	_, tokens, err := svc.Login(ctx, u.Email, "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	rotated, err := svc.Refresh(ctx, tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.RefreshToken == tokens.RefreshToken {
		t.Error("rotation must issue a new refresh token")
	}

	// The consumed token is dead.
	if _, err := svc.Refresh(ctx, tokens.RefreshToken); err != ErrInvalidRefreshToken {
		t.Errorf("replayed token: expected ErrInvalidRefreshToken, got %v", err)
	}
	// The rotated one works.
	if _, err := svc.Refresh(ctx, rotated.RefreshToken); err != nil {
		t.Errorf("rotated token: %v", err)
	}
}

func TestRefreshGarbageToken(t *testing.T) {
	svc, _, _, _ := setupAuth(t)

	if _, err := svc.Refresh(context.Background(), "not-a-jwt"); err != ErrInvalidRefreshToken {
		t.Errorf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestLogoutRevokes(t *testing.T) {
	svc, _, store, u := setupAuth(t)
	ctx := context.Background()

	_, tokens, err := svc.Login(ctx, u.Email, "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if len(store.hashes) != 1 {
		t.Fatalf("expected 1 stored hash, got %d", len(store.hashes))
	}

	if err := svc.Logout(ctx, tokens.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(store.hashes) != 0 {
		t.Error("expected stored hash revoked")
	}
	if _, err := svc.Refresh(ctx, tokens.RefreshToken); err != ErrInvalidRefreshToken {
		t.Errorf("post-logout refresh: expected ErrInvalidRefreshToken, got %v", err)
	}

	// Logging out twice is fine.
	if err := svc.Logout(ctx, tokens.RefreshToken); err != nil {
		t.Errorf("second logout: %v", err)
	}
}
