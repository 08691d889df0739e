package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeRepo struct {
	users map[uuid.UUID]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: make(map[uuid.UUID]*User)}
}

func (f *fakeRepo) Create(ctx context.Context, u *User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return ErrEmailExists
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) List(ctx context.Context) ([]*User, error) {
	out := make([]*User, 0, len(f.users))
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) ListActiveByRoles(ctx context.Context, roles []Role) ([]*User, error) {
	var out []*User
	for _, u := range f.users {
		if u.Status != StatusActive {
			continue
		}
		for _, role := range roles {
			if u.Role == role {
				cp := *u
				out = append(out, &cp)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, u *User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if u, ok := f.users[id]; ok {
		u.Status = status
	}
	return nil
}

func (f *fakeRepo) UpdateReportsTo(ctx context.Context, id uuid.UUID, reportsTo uuid.NullUUID) error {
	if u, ok := f.users[id]; ok {
		u.ReportsTo = reportsTo
	}
	return nil
}

func (f *fakeRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	if u, ok := f.users[id]; ok {
		now := time.Now()
		u.LastLoginAt.Time = now
		u.LastLoginAt.Valid = true
	}
	return nil
}

// closureResolver computes the subordinate closure straight off the fake
// repo, mirroring what the authorization engine does in production.
type closureResolver struct {
	repo *fakeRepo
}

func (c *closureResolver) SubordinateIDs(ctx context.Context, id uuid.UUID) (map[uuid.UUID]struct{}, error) {
	children := make(map[uuid.UUID][]uuid.UUID)
	for _, u := range c.repo.users {
		if u.ReportsTo.Valid {
			children[u.ReportsTo.UUID] = append(children[u.ReportsTo.UUID], u.ID)
		}
	}
	visited := map[uuid.UUID]struct{}{id: {}}
	out := make(map[uuid.UUID]struct{})
	queue := []uuid.UUID{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range children[current] {
			if _, seen := visited[child]; seen {
				continue
			}
			visited[child] = struct{}{}
			out[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return out, nil
}

func seedUser(repo *fakeRepo, name string, role Role, reportsTo uuid.UUID) *User {
	u := &User{
		ID:     uuid.New(),
		Email:  name + "@loopcrm.test",
		Name:   name,
		Role:   role,
		Status: StatusActive,
	}
	if reportsTo != uuid.Nil {
		u.ReportsTo = uuid.NullUUID{UUID: reportsTo, Valid: true}
	}
	repo.users[u.ID] = u
	return u
}

func TestCreateUser(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &closureResolver{repo: repo})
	ctx := context.Background()

	manager := seedUser(repo, "manager", RoleManager, uuid.Nil)

	u, err := svc.Create(ctx, &CreateUserRequest{
		Email:     "new@loopcrm.test",
		Name:      "New Counselor",
		Password:  "long-enough-pass",
		Role:      string(RoleCounselor),
		ReportsTo: manager.ID.String(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Status != StatusActive {
		t.Error("new users start active")
	}
	if !u.ReportsTo.Valid || u.ReportsTo.UUID != manager.ID {
		t.Error("reports_to not recorded")
	}

	if _, err := svc.Create(ctx, &CreateUserRequest{
		Email:    "new@loopcrm.test",
		Name:     "Duplicate",
		Password: "long-enough-pass",
		Role:     string(RoleCounselor),
	}); err != ErrEmailExists {
		t.Errorf("duplicate email: expected ErrEmailExists, got %v", err)
	}

	if _, err := svc.Create(ctx, &CreateUserRequest{
		Email:     "orphan@loopcrm.test",
		Name:      "Orphan",
		Password:  "long-enough-pass",
		Role:      string(RoleCounselor),
		ReportsTo: uuid.NewString(),
	}); err != ErrManagerNotFound {
		t.Errorf("unknown manager: expected ErrManagerNotFound, got %v", err)
	}
}

func TestReassign(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &closureResolver{repo: repo})
	ctx := context.Background()

	top := seedUser(repo, "top", RoleSeniorManager, uuid.Nil)
	mid := seedUser(repo, "mid", RoleManager, top.ID)
	leaf := seedUser(repo, "leaf", RoleCounselor, mid.ID)

	// Moving leaf directly under top is fine.
	u, err := svc.Reassign(ctx, leaf.ID, uuid.NullUUID{UUID: top.ID, Valid: true})
	if err != nil {
		t.Fatalf("Reassign: %v", err)
	}
	if !u.ReportsTo.Valid || u.ReportsTo.UUID != top.ID {
		t.Error("reassignment not applied")
	}

	// Clearing the supervisor is fine too.
	if _, err := svc.Reassign(ctx, mid.ID, uuid.NullUUID{}); err != nil {
		t.Errorf("clear supervisor: %v", err)
	}
}

func TestReassignRejectsCycles(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &closureResolver{repo: repo})
	ctx := context.Background()

	top := seedUser(repo, "top", RoleSeniorManager, uuid.Nil)
	mid := seedUser(repo, "mid", RoleManager, top.ID)
	leaf := seedUser(repo, "leaf", RoleCounselor, mid.ID)

	// Self-supervision.
	if _, err := svc.Reassign(ctx, top.ID, uuid.NullUUID{UUID: top.ID, Valid: true}); err != ErrCyclicReporting {
		t.Errorf("self: expected ErrCyclicReporting, got %v", err)
	}
	// Direct subordinate as supervisor.
	if _, err := svc.Reassign(ctx, top.ID, uuid.NullUUID{UUID: mid.ID, Valid: true}); err != ErrCyclicReporting {
		t.Errorf("direct subordinate: expected ErrCyclicReporting, got %v", err)
	}
	// Transitive subordinate as supervisor.
	if _, err := svc.Reassign(ctx, top.ID, uuid.NullUUID{UUID: leaf.ID, Valid: true}); err != ErrCyclicReporting {
		t.Errorf("transitive subordinate: expected ErrCyclicReporting, got %v", err)
	}
	// Unknown supervisor.
	if _, err := svc.Reassign(ctx, leaf.ID, uuid.NullUUID{UUID: uuid.New(), Valid: true}); err != ErrManagerNotFound {
		t.Errorf("unknown supervisor: expected ErrManagerNotFound, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &closureResolver{repo: repo})
	ctx := context.Background()

	u := seedUser(repo, "someone", RoleCounselor, uuid.Nil)

	updated, err := svc.UpdateStatus(ctx, u.ID, StatusInactive)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != StatusInactive {
		t.Error("status not applied")
	}

	if _, err := svc.UpdateStatus(ctx, uuid.New(), StatusActive); err != ErrUserNotFound {
		t.Errorf("unknown user: expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, &closureResolver{repo: repo})
	ctx := context.Background()

	u := seedUser(repo, "someone", RoleCounselor, uuid.Nil)

	name := "Renamed"
	role := string(RoleTeamLeader)
	updated, err := svc.Update(ctx, u.ID, &UpdateUserRequest{Name: &name, Role: &role})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Renamed" || updated.Role != RoleTeamLeader {
		t.Errorf("patch not applied: %q %q", updated.Name, updated.Role)
	}
	if updated.Email != u.Email {
		t.Error("untouched fields must survive a partial patch")
	}

	if _, err := svc.Update(ctx, uuid.New(), &UpdateUserRequest{Name: &name}); err != ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
