package restriction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines restriction data access. The backing table carries a
// partial unique index on (admin_id, restricted_user_id) WHERE is_active,
// which arbitrates concurrent creates for the same pair.
type Repository interface {
	Create(ctx context.Context, r *Restriction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Restriction, error)
	GetActiveByPair(ctx context.Context, adminID, restrictedUserID uuid.UUID) (*Restriction, error)
	ListActiveByAdmin(ctx context.Context, adminID uuid.UUID) ([]*Restriction, error)
	ListActiveForUser(ctx context.Context, restrictedUserID uuid.UUID) ([]*Restriction, error)
	Update(ctx context.Context, r *Restriction) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates restriction repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, restriction *Restriction) error {
	query := `
		INSERT INTO restrictions (id, admin_id, restricted_user_id, scope, notes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		restriction.ID,
		restriction.AdminID,
		restriction.RestrictedUserID,
		restriction.Scope,
		restriction.Notes,
		restriction.IsActive,
		restriction.CreatedAt,
		restriction.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// Lost a create race for the same pair; the unique index is
			// the arbiter and nothing was written.
			return ErrDuplicateRestriction
		}
		return fmt.Errorf("restriction repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Restriction, error) {
	query := `SELECT * FROM restrictions WHERE id = $1`
	var restriction Restriction
	err := r.db.GetContext(ctx, &restriction, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &restriction, nil
}

func (r *repository) GetActiveByPair(ctx context.Context, adminID, restrictedUserID uuid.UUID) (*Restriction, error) {
	query := `SELECT * FROM restrictions WHERE admin_id = $1 AND restricted_user_id = $2 AND is_active`
	var restriction Restriction
	err := r.db.GetContext(ctx, &restriction, query, adminID, restrictedUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &restriction, nil
}

func (r *repository) ListActiveByAdmin(ctx context.Context, adminID uuid.UUID) ([]*Restriction, error) {
	query := `SELECT * FROM restrictions WHERE admin_id = $1 AND is_active ORDER BY created_at DESC`
	var restrictions []*Restriction
	err := r.db.SelectContext(ctx, &restrictions, query, adminID)
	return restrictions, err
}

func (r *repository) ListActiveForUser(ctx context.Context, restrictedUserID uuid.UUID) ([]*Restriction, error) {
	query := `SELECT * FROM restrictions WHERE restricted_user_id = $1 AND is_active ORDER BY created_at DESC`
	var restrictions []*Restriction
	err := r.db.SelectContext(ctx, &restrictions, query, restrictedUserID)
	return restrictions, err
}

func (r *repository) Update(ctx context.Context, restriction *Restriction) error {
	query := `
		UPDATE restrictions SET
			scope = $2, notes = $3, updated_at = NOW()
		WHERE id = $1 AND is_active
	`
	_, err := r.db.ExecContext(ctx, query,
		restriction.ID,
		restriction.Scope,
		restriction.Notes,
	)
	return err
}

// Deactivate is a soft delete; the row is kept as history and there is no
// path back to active.
func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE restrictions SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
