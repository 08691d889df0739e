package authz

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/loopcrm/loopcrm-api/internal/domain/user"
)

type fakeDirectory struct {
	users []*user.User
	err   error
}

func (f *fakeDirectory) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) List(ctx context.Context) ([]*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func makeUser(name string, role user.Role, reportsTo uuid.UUID) *user.User {
	u := &user.User{
		ID:     uuid.New(),
		Name:   name,
		Email:  name + "@loopcrm.test",
		Role:   role,
		Status: user.StatusActive,
	}
	if reportsTo != uuid.Nil {
		u.ReportsTo = uuid.NullUUID{UUID: reportsTo, Valid: true}
	}
	return u
}

func idsOf(users []*user.User) map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(users))
	for _, u := range users {
		out[u.ID] = true
	}
	return out
}

func TestSubordinateClosure(t *testing.T) {
	root := makeUser("root", user.RoleManager, uuid.Nil)
	mid := makeUser("mid", user.RoleTeamLeader, root.ID)
	leaf := makeUser("leaf", user.RoleCounselor, mid.ID)
	outsider := makeUser("outsider", user.RoleCounselor, uuid.Nil)

	h := NewHierarchy(&fakeDirectory{users: []*user.User{root, mid, leaf, outsider}})

	subs, err := h.SubordinatesOf(context.Background(), root.ID)
	if err != nil {
		t.Fatalf("SubordinatesOf: %v", err)
	}
	got := idsOf(subs)
	if len(got) != 2 || !got[mid.ID] || !got[leaf.ID] {
		t.Errorf("expected closure {mid, leaf}, got %d users", len(subs))
	}
	if got[root.ID] {
		t.Error("closure must exclude the root")
	}
	if got[outsider.ID] {
		t.Error("closure must exclude unrelated users")
	}
}

func TestSubordinateClosureBreadthFirst(t *testing.T) {
	root := makeUser("root", user.RoleSeniorManager, uuid.Nil)
	a := makeUser("a", user.RoleManager, root.ID)
	b := makeUser("b", user.RoleManager, root.ID)
	aChild := makeUser("a-child", user.RoleCounselor, a.ID)

	subs := SubordinatesIn([]*user.User{aChild, b, a, root}, root.ID)
	if len(subs) != 3 {
		t.Fatalf("expected 3 subordinates, got %d", len(subs))
	}
	// Direct reports come before the next level down.
	if subs[2].ID != aChild.ID {
		t.Errorf("expected grandchild last, got %s", subs[2].Name)
	}
}

func TestSubordinateClosureCycle(t *testing.T) {
	// a reports to b and b reports to a. Corrupt, but traversal must still
	// terminate and return the reachable nodes exactly once.
	a := makeUser("a", user.RoleManager, uuid.Nil)
	b := makeUser("b", user.RoleTeamLeader, a.ID)
	a.ReportsTo = uuid.NullUUID{UUID: b.ID, Valid: true}

	subs := SubordinatesIn([]*user.User{a, b}, a.ID)
	if len(subs) != 1 || subs[0].ID != b.ID {
		t.Fatalf("cycle: expected exactly {b}, got %d users", len(subs))
	}
}

func TestSubordinateClosureSelfReference(t *testing.T) {
	a := makeUser("a", user.RoleManager, uuid.Nil)
	a.ReportsTo = uuid.NullUUID{UUID: a.ID, Valid: true}
	b := makeUser("b", user.RoleCounselor, a.ID)

	subs := SubordinatesIn([]*user.User{a, b}, a.ID)
	if len(subs) != 1 || subs[0].ID != b.ID {
		t.Fatalf("self-loop: expected exactly {b}, got %d users", len(subs))
	}
}

func TestSubordinateClosureDanglingManager(t *testing.T) {
	// Reports-to pointing at an id absent from the snapshot is ignored.
	ghost := uuid.New()
	a := makeUser("a", user.RoleCounselor, ghost)
	root := makeUser("root", user.RoleManager, uuid.Nil)

	subs := SubordinatesIn([]*user.User{a, root}, root.ID)
	if len(subs) != 0 {
		t.Errorf("expected empty closure, got %d users", len(subs))
	}
	if got := SubordinatesIn([]*user.User{a, root}, ghost); len(got) != 1 || got[0].ID != a.ID {
		t.Errorf("closure of the dangling id itself should reach a")
	}
}

func TestSubordinatesOfUnavailableDirectory(t *testing.T) {
	h := NewHierarchy(&fakeDirectory{err: sql.ErrConnDone})

	if _, err := h.SubordinatesOf(context.Background(), uuid.New()); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestSubordinateIDs(t *testing.T) {
	root := makeUser("root", user.RoleManager, uuid.Nil)
	child := makeUser("child", user.RoleCounselor, root.ID)

	h := NewHierarchy(&fakeDirectory{users: []*user.User{root, child}})
	ids, err := h.SubordinateIDs(context.Background(), root.ID)
	if err != nil {
		t.Fatalf("SubordinateIDs: %v", err)
	}
	if _, ok := ids[child.ID]; !ok || len(ids) != 1 {
		t.Errorf("expected id set {child}, got %d entries", len(ids))
	}
}
