package restriction

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/loopcrm/loopcrm-api/internal/domain/user"
)

type fakeRepo struct {
	items map[uuid.UUID]*Restriction
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[uuid.UUID]*Restriction)}
}

func (f *fakeRepo) Create(ctx context.Context, r *Restriction) error {
	for _, existing := range f.items {
		if existing.IsActive && existing.AdminID == r.AdminID && existing.RestrictedUserID == r.RestrictedUserID {
			return ErrDuplicateRestriction
		}
	}
	cp := *r
	f.items[r.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Restriction, error) {
	r, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) GetActiveByPair(ctx context.Context, adminID, restrictedUserID uuid.UUID) (*Restriction, error) {
	for _, r := range f.items {
		if r.IsActive && r.AdminID == adminID && r.RestrictedUserID == restrictedUserID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListActiveByAdmin(ctx context.Context, adminID uuid.UUID) ([]*Restriction, error) {
	var out []*Restriction
	for _, r := range f.items {
		if r.IsActive && r.AdminID == adminID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]*Restriction, error) {
	var out []*Restriction
	for _, r := range f.items {
		if r.IsActive && r.RestrictedUserID == userID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, r *Restriction) error {
	stored, ok := f.items[r.ID]
	if !ok || !stored.IsActive {
		return nil
	}
	cp := *r
	f.items[r.ID] = &cp
	return nil
}

func (f *fakeRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	if r, ok := f.items[id]; ok {
		r.IsActive = false
	}
	return nil
}

type fakeDirectory struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeDirectory) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func setupService() (*Service, uuid.UUID, uuid.UUID, uuid.UUID) {
	adminID := uuid.New()
	superID := uuid.New()
	counselorID := uuid.New()

	dir := &fakeDirectory{users: map[uuid.UUID]*user.User{
		adminID:     {ID: adminID, Role: user.RoleAdmin, Status: user.StatusActive},
		superID:     {ID: superID, Role: user.RoleSuperAdmin, Status: user.StatusActive},
		counselorID: {ID: counselorID, Role: user.RoleCounselor, Status: user.StatusActive},
	}}

	return NewService(newFakeRepo(), dir, nil), adminID, superID, counselorID
}

func TestCreateRestriction(t *testing.T) {
	svc, adminID, superID, _ := setupService()

	scope := json.RawMessage(`{"modules":["exports"]}`)
	r, err := svc.Create(context.Background(), adminID, superID, scope, "quarterly review")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !r.IsActive {
		t.Error("expected new restriction to be active")
	}
	if string(r.Scope) != string(scope) {
		t.Errorf("scope altered: got %s", r.Scope)
	}
	if r.AdminID != adminID || r.RestrictedUserID != superID {
		t.Error("restriction does not reference creator and target")
	}
}

func TestCreateRestrictionInvalidTarget(t *testing.T) {
	svc, adminID, _, counselorID := setupService()

	if _, err := svc.Create(context.Background(), adminID, counselorID, nil, ""); err != ErrInvalidTarget {
		t.Errorf("non-super-admin target: expected ErrInvalidTarget, got %v", err)
	}
	if _, err := svc.Create(context.Background(), adminID, uuid.New(), nil, ""); err != ErrInvalidTarget {
		t.Errorf("unknown target: expected ErrInvalidTarget, got %v", err)
	}
}

func TestCreateRestrictionDuplicate(t *testing.T) {
	svc, adminID, superID, _ := setupService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, adminID, superID, nil, ""); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(ctx, adminID, superID, nil, ""); err != ErrDuplicateRestriction {
		t.Errorf("expected ErrDuplicateRestriction, got %v", err)
	}

	// A different admin may restrict the same target.
	otherAdmin := uuid.New()
	if _, err := svc.Create(ctx, otherAdmin, superID, nil, ""); err != nil {
		t.Errorf("second admin restricting same target: %v", err)
	}
}

func TestDeactivateThenRecreate(t *testing.T) {
	svc, adminID, superID, _ := setupService()
	ctx := context.Background()

	r, err := svc.Create(ctx, adminID, superID, nil, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deactivated, err := svc.Deactivate(ctx, r.ID, adminID)
	if err != nil {
		t.Fatalf("Deactivate: %v", err)
	}
	if deactivated.IsActive {
		t.Error("expected deactivated restriction to be inactive")
	}

	// The pair is free again once the old restriction is retired.
	if _, err := svc.Create(ctx, adminID, superID, nil, ""); err != nil {
		t.Errorf("recreate after deactivation: %v", err)
	}
}

func TestMutateNotOwned(t *testing.T) {
	svc, adminID, superID, _ := setupService()
	ctx := context.Background()

	r, err := svc.Create(ctx, adminID, superID, nil, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stranger := uuid.New()
	notes := "mine now"
	if _, err := svc.Update(ctx, r.ID, stranger, &UpdateRestrictionRequest{Notes: &notes}); err != ErrRestrictionNotFound {
		t.Errorf("update by non-owner: expected ErrRestrictionNotFound, got %v", err)
	}
	if _, err := svc.Deactivate(ctx, r.ID, stranger); err != ErrRestrictionNotFound {
		t.Errorf("deactivate by non-owner: expected ErrRestrictionNotFound, got %v", err)
	}
}

func TestMutateDeactivated(t *testing.T) {
	svc, adminID, superID, _ := setupService()
	ctx := context.Background()

	r, err := svc.Create(ctx, adminID, superID, nil, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Deactivate(ctx, r.ID, adminID); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	notes := "too late"
	if _, err := svc.Update(ctx, r.ID, adminID, &UpdateRestrictionRequest{Notes: &notes}); err != ErrRestrictionNotFound {
		t.Errorf("update after deactivation: expected ErrRestrictionNotFound, got %v", err)
	}
	if _, err := svc.Deactivate(ctx, r.ID, adminID); err != ErrRestrictionNotFound {
		t.Errorf("double deactivation: expected ErrRestrictionNotFound, got %v", err)
	}
}

func TestUpdateScope(t *testing.T) {
	svc, adminID, superID, _ := setupService()
	ctx := context.Background()

	r, err := svc.Create(ctx, adminID, superID, json.RawMessage(`{"modules":["exports"]}`), "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newScope := json.RawMessage(`{"modules":["exports","reports"],"until":"2026-12-31"}`)
	updated, err := svc.Update(ctx, r.ID, adminID, &UpdateRestrictionRequest{Scope: newScope})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if string(updated.Scope) != string(newScope) {
		t.Errorf("scope not stored verbatim: got %s", updated.Scope)
	}
	if !updated.UpdatedAt.After(r.CreatedAt) && !updated.UpdatedAt.Equal(r.CreatedAt) {
		t.Error("expected UpdatedAt to advance")
	}
}
