package restriction

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/loopcrm/loopcrm-api/internal/domain/user"
)

// Directory is the subset of the user directory the engine needs to
// validate restriction targets.
type Directory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Notifier pushes a restriction event to the affected user. Optional.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event string, payload interface{})
}

// Service validates, stores and applies restrictions
type Service struct {
	repo     Repository
	dir      Directory
	notifier Notifier
}

// NewService creates restriction service. notifier may be nil.
func NewService(repo Repository, dir Directory, notifier Notifier) *Service {
	return &Service{repo: repo, dir: dir, notifier: notifier}
}

// Create validates and persists a new active restriction.
//
// Validation order: the target must exist and hold the super_admin role;
// restrictions only ever point at super_admin accounts. Then no active
// restriction may already exist for this admin/target pair. The
// store's unique index settles create races, so a storage-level duplicate is
// reported as the same conflict.
func (s *Service) Create(ctx context.Context, adminID, restrictedUserID uuid.UUID, scope json.RawMessage, notes string) (*Restriction, error) {
	target, err := s.dir.GetByID(ctx, restrictedUserID)
	if err != nil {
		return nil, err
	}
	if target == nil || target.Role != user.RoleSuperAdmin {
		return nil, ErrInvalidTarget
	}

	existing, err := s.repo.GetActiveByPair(ctx, adminID, restrictedUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateRestriction
	}

	now := time.Now()
	restriction := &Restriction{
		ID:               uuid.New(),
		AdminID:          adminID,
		RestrictedUserID: restrictedUserID,
		Scope:            scope,
		Notes:            sql.NullString{String: notes, Valid: notes != ""},
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Create(ctx, restriction); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, restrictedUserID, "restriction_created", map[string]interface{}{
			"restriction_id": restriction.ID,
		})
	}

	log.Info().
		Str("admin_id", adminID.String()).
		Str("restricted_user_id", restrictedUserID.String()).
		Msg("Restriction created")

	return restriction, nil
}

// List returns the caller's active restrictions
func (s *Service) List(ctx context.Context, adminID uuid.UUID) ([]*Restriction, error) {
	return s.repo.ListActiveByAdmin(ctx, adminID)
}

// ListActiveForUser returns active restrictions targeting a user, from any
// admin. Used as the overlay source by the assignment resolver.
func (s *Service) ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]*Restriction, error) {
	return s.repo.ListActiveForUser(ctx, userID)
}

// getOwnedActive loads a restriction the caller may mutate. Absence,
// ownership by another admin and a deactivated record all answer NotFound.
func (s *Service) getOwnedActive(ctx context.Context, id, adminID uuid.UUID) (*Restriction, error) {
	restriction, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if restriction == nil || restriction.AdminID != adminID || !restriction.IsActive {
		return nil, ErrRestrictionNotFound
	}
	return restriction, nil
}

// Update patches the scope and/or notes of an owned active restriction
func (s *Service) Update(ctx context.Context, id, adminID uuid.UUID, patch *UpdateRestrictionRequest) (*Restriction, error) {
	restriction, err := s.getOwnedActive(ctx, id, adminID)
	if err != nil {
		return nil, err
	}

	if patch.Scope != nil {
		restriction.Scope = patch.Scope
	}
	if patch.Notes != nil {
		restriction.Notes = sql.NullString{String: *patch.Notes, Valid: *patch.Notes != ""}
	}
	restriction.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, restriction); err != nil {
		return nil, err
	}
	return restriction, nil
}

// Deactivate soft-deletes an owned active restriction. Deactivated is
// terminal: re-enabling requires creating a new restriction, which keeps the
// history unambiguous.
func (s *Service) Deactivate(ctx context.Context, id, adminID uuid.UUID) (*Restriction, error) {
	restriction, err := s.getOwnedActive(ctx, id, adminID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return nil, err
	}
	restriction.IsActive = false
	restriction.UpdatedAt = time.Now()

	log.Info().
		Str("admin_id", adminID.String()).
		Str("restriction_id", id.String()).
		Msg("Restriction deactivated")

	return restriction, nil
}
