package authz

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/loopcrm/loopcrm-api/internal/domain/restriction"
	"github.com/loopcrm/loopcrm-api/internal/domain/user"
)

type fakeRestrictionSource struct {
	byUser map[uuid.UUID][]*restriction.Restriction
	err    error
}

func (f *fakeRestrictionSource) ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]*restriction.Restriction, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byUser[userID], nil
}

func TestAssignableIncludesSelf(t *testing.T) {
	solo := makeUser("solo", user.RoleCounselor, uuid.Nil)
	r := NewResolver(&fakeDirectory{users: []*user.User{solo}}, nil)

	set, err := r.AssignableUsersFor(context.Background(), solo.ID)
	if err != nil {
		t.Fatalf("AssignableUsersFor: %v", err)
	}
	if len(set.Users) != 1 || set.Users[0].ID != solo.ID {
		t.Fatalf("expected only self, got %d users", len(set.Users))
	}
}

func TestAssignableIncludesInactiveSelf(t *testing.T) {
	solo := makeUser("solo", user.RoleCounselor, uuid.Nil)
	solo.Status = user.StatusInactive
	r := NewResolver(&fakeDirectory{users: []*user.User{solo}}, nil)

	set, err := r.AssignableUsersFor(context.Background(), solo.ID)
	if err != nil {
		t.Fatalf("AssignableUsersFor: %v", err)
	}
	if len(set.Users) != 1 || set.Users[0].ID != solo.ID {
		t.Error("actor belongs to their own assignable set regardless of status")
	}
}

func TestAssignableExcludesInactiveSubordinates(t *testing.T) {
	root := makeUser("root", user.RoleManager, uuid.Nil)
	active := makeUser("active", user.RoleCounselor, root.ID)
	inactive := makeUser("inactive", user.RoleCounselor, root.ID)
	inactive.Status = user.StatusInactive

	r := NewResolver(&fakeDirectory{users: []*user.User{root, active, inactive}}, nil)
	set, err := r.AssignableUsersFor(context.Background(), root.ID)
	if err != nil {
		t.Fatalf("AssignableUsersFor: %v", err)
	}
	got := idsOf(set.Users)
	if !got[root.ID] || !got[active.ID] {
		t.Error("expected root and active subordinate in the set")
	}
	if got[inactive.ID] {
		t.Error("inactive subordinate must be excluded")
	}
}

func TestAssignableSuperAdminGetsEveryone(t *testing.T) {
	super := makeUser("super", user.RoleSuperAdmin, uuid.Nil)
	others := []*user.User{
		makeUser("admin", user.RoleAdmin, uuid.Nil),
		makeUser("sm", user.RoleSeniorManager, uuid.Nil),
		makeUser("mgr", user.RoleManager, uuid.Nil),
		makeUser("tl", user.RoleTeamLeader, uuid.Nil),
		makeUser("c", user.RoleCounselor, uuid.Nil),
	}
	inactive := makeUser("gone", user.RoleCounselor, uuid.Nil)
	inactive.Status = user.StatusInactive

	all := append([]*user.User{super, inactive}, others...)
	r := NewResolver(&fakeDirectory{users: all}, nil)

	set, err := r.AssignableUsersFor(context.Background(), super.ID)
	if err != nil {
		t.Fatalf("AssignableUsersFor: %v", err)
	}
	if len(set.Users) != 1+len(others) {
		t.Fatalf("expected %d users, got %d", 1+len(others), len(set.Users))
	}
	if idsOf(set.Users)[inactive.ID] {
		t.Error("role grants never include inactive users")
	}
}

func TestAssignableSeniorManagerGrants(t *testing.T) {
	sm := makeUser("sm", user.RoleSeniorManager, uuid.Nil)
	mgr := makeUser("mgr", user.RoleManager, uuid.Nil)
	tl := makeUser("tl", user.RoleTeamLeader, uuid.Nil)
	counselor := makeUser("c", user.RoleCounselor, uuid.Nil)
	peer := makeUser("peer", user.RoleSeniorManager, uuid.Nil)
	admin := makeUser("admin", user.RoleAdmin, uuid.Nil)

	r := NewResolver(&fakeDirectory{users: []*user.User{sm, mgr, tl, counselor, peer, admin}}, nil)
	set, err := r.AssignableUsersFor(context.Background(), sm.ID)
	if err != nil {
		t.Fatalf("AssignableUsersFor: %v", err)
	}
	got := idsOf(set.Users)
	for _, want := range []*user.User{sm, mgr, tl, counselor} {
		if !got[want.ID] {
			t.Errorf("expected %s in assignable set", want.Name)
		}
	}
	if got[peer.ID] {
		t.Error("senior manager peers are not granted")
	}
	if got[admin.ID] {
		t.Error("admins are not granted to senior managers")
	}
}

func TestAssignableNoDuplicates(t *testing.T) {
	// tl is both a direct subordinate of mgr and covered by the manager role
	// grant; it must appear once.
	mgr := makeUser("mgr", user.RoleManager, uuid.Nil)
	tl := makeUser("tl", user.RoleTeamLeader, mgr.ID)
	counselor := makeUser("c", user.RoleCounselor, tl.ID)

	r := NewResolver(&fakeDirectory{users: []*user.User{mgr, tl, counselor}}, nil)
	set, err := r.AssignableUsersFor(context.Background(), mgr.ID)
	if err != nil {
		t.Fatalf("AssignableUsersFor: %v", err)
	}
	seen := make(map[uuid.UUID]int)
	for _, u := range set.Users {
		seen[u.ID]++
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("user %s appears %d times", id, n)
		}
	}
	if len(set.Users) != 3 {
		t.Errorf("expected 3 distinct users, got %d", len(set.Users))
	}
}

func TestAssignableStableOrdering(t *testing.T) {
	mgr := makeUser("mgr", user.RoleManager, uuid.Nil)
	tl := makeUser("tl", user.RoleTeamLeader, mgr.ID)
	freeAgent := makeUser("free", user.RoleCounselor, uuid.Nil)

	dir := &fakeDirectory{users: []*user.User{mgr, tl, freeAgent}}
	r := NewResolver(dir, nil)

	first, err := r.AssignableIDs(context.Background(), mgr.ID)
	if err != nil {
		t.Fatalf("AssignableIDs: %v", err)
	}
	second, err := r.AssignableIDs(context.Background(), mgr.ID)
	if err != nil {
		t.Fatalf("AssignableIDs: %v", err)
	}
	if len(first) != len(second) {
		t.Fatal("repeated resolutions disagree on size")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("order unstable at %d", i)
		}
	}
	// Self first, then closure, then grants.
	if first[0] != mgr.ID || first[1] != tl.ID || first[2] != freeAgent.ID {
		t.Error("expected self, subordinate, grant order")
	}
}

func TestAssignableUnknownActor(t *testing.T) {
	r := NewResolver(&fakeDirectory{users: []*user.User{makeUser("a", user.RoleAdmin, uuid.Nil)}}, nil)

	if _, err := r.AssignableUsersFor(context.Background(), uuid.New()); !errors.Is(err, ErrActorNotFound) {
		t.Errorf("expected ErrActorNotFound, got %v", err)
	}
}

func TestAssignableUnavailableStores(t *testing.T) {
	if _, err := NewResolver(&fakeDirectory{err: sql.ErrConnDone}, nil).AssignableUsersFor(context.Background(), uuid.New()); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("directory failure: expected ErrStoreUnavailable, got %v", err)
	}

	super := makeUser("super", user.RoleSuperAdmin, uuid.Nil)
	r := NewResolver(
		&fakeDirectory{users: []*user.User{super}},
		&fakeRestrictionSource{err: sql.ErrConnDone},
	)
	if _, err := r.AssignableUsersFor(context.Background(), super.ID); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("restriction store failure: expected ErrStoreUnavailable, got %v", err)
	}
}

func TestAssignableCarriesRestrictions(t *testing.T) {
	super := makeUser("super", user.RoleSuperAdmin, uuid.Nil)
	counselor := makeUser("c", user.RoleCounselor, uuid.Nil)

	restr := &restriction.Restriction{
		ID:               uuid.New(),
		AdminID:          uuid.New(),
		RestrictedUserID: super.ID,
		IsActive:         true,
	}
	r := NewResolver(
		&fakeDirectory{users: []*user.User{super, counselor}},
		&fakeRestrictionSource{byUser: map[uuid.UUID][]*restriction.Restriction{super.ID: {restr}}},
	)

	set, err := r.AssignableUsersFor(context.Background(), super.ID)
	if err != nil {
		t.Fatalf("AssignableUsersFor: %v", err)
	}
	if len(set.Restrictions) != 1 || set.Restrictions[0].ID != restr.ID {
		t.Fatalf("expected the active restriction attached, got %d", len(set.Restrictions))
	}
	// The membership itself is untouched; interpretation of the scope is the
	// caller's concern.
	if len(set.Users) != 2 {
		t.Errorf("restrictions must not filter the set, got %d users", len(set.Users))
	}

	// Unrestricted actor resolves with an empty overlay.
	cset, err := r.AssignableUsersFor(context.Background(), counselor.ID)
	if err != nil {
		t.Fatalf("AssignableUsersFor: %v", err)
	}
	if len(cset.Restrictions) != 0 {
		t.Errorf("expected no restrictions, got %d", len(cset.Restrictions))
	}
}

func TestCanAssign(t *testing.T) {
	mgr := makeUser("mgr", user.RoleManager, uuid.Nil)
	tl := makeUser("tl", user.RoleTeamLeader, mgr.ID)
	admin := makeUser("admin", user.RoleAdmin, uuid.Nil)

	r := NewResolver(&fakeDirectory{users: []*user.User{mgr, tl, admin}}, nil)
	ctx := context.Background()

	if ok, err := r.CanAssign(ctx, mgr.ID, tl.ID); err != nil || !ok {
		t.Errorf("manager should assign to subordinate: ok=%v err=%v", ok, err)
	}
	if ok, err := r.CanAssign(ctx, mgr.ID, admin.ID); err != nil || ok {
		t.Errorf("manager must not assign to admin: ok=%v err=%v", ok, err)
	}
	if ok, err := r.CanAssign(ctx, tl.ID, tl.ID); err != nil || !ok {
		t.Errorf("self-assignment is always allowed: ok=%v err=%v", ok, err)
	}
}
