package lead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ListFilter narrows a visibility-scoped lead listing
type ListFilter struct {
	Status Status
	Source Source
	Limit  int
	Offset int
}

// Repository defines lead data access
type Repository interface {
	Create(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id uuid.UUID) (*Lead, error)
	ListByAssignees(ctx context.Context, assignees []uuid.UUID, includeUnassigned bool, filter ListFilter) ([]*Lead, error)
	CountByAssignees(ctx context.Context, assignees []uuid.UUID, includeUnassigned bool, filter ListFilter) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, notes sql.NullString) error
	UpdateAssignedTo(ctx context.Context, id uuid.UUID, assignedTo uuid.NullUUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new lead repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, lead *Lead) error {
	query := `
		INSERT INTO leads (id, contact_name, contact_email, contact_phone, company_name, source, status,
			assigned_to, notes, utm_source, utm_medium, utm_campaign, ip_address, user_agent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.db.ExecContext(ctx, query,
		lead.ID,
		lead.ContactName,
		lead.ContactEmail,
		lead.ContactPhone,
		lead.CompanyName,
		lead.Source,
		lead.Status,
		lead.AssignedTo,
		lead.Notes,
		lead.UTMSource,
		lead.UTMMedium,
		lead.UTMCampaign,
		lead.IPAddress,
		lead.UserAgent,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("lead repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Lead, error) {
	query := `SELECT * FROM leads WHERE id = $1`
	var lead Lead
	err := r.db.GetContext(ctx, &lead, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &lead, nil
}

// visibilityClause builds the assignee scope and filter predicate shared by
// ListByAssignees and CountByAssignees. Placeholders start at $1.
func visibilityClause(assignees []uuid.UUID, includeUnassigned bool, filter ListFilter) (string, []interface{}) {
	ids := make([]string, len(assignees))
	for i, id := range assignees {
		ids[i] = id.String()
	}

	where := `(assigned_to = ANY($1)`
	if includeUnassigned {
		where += ` OR assigned_to IS NULL`
	}
	where += `)`
	args := []interface{}{pq.Array(ids)}

	if filter.Status != "" {
		args = append(args, filter.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if filter.Source != "" {
		args = append(args, filter.Source)
		where += fmt.Sprintf(` AND source = $%d`, len(args))
	}
	return where, args
}

func (r *repository) ListByAssignees(ctx context.Context, assignees []uuid.UUID, includeUnassigned bool, filter ListFilter) ([]*Lead, error) {
	where, args := visibilityClause(assignees, includeUnassigned, filter)

	query := `SELECT * FROM leads WHERE ` + where + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	var leads []*Lead
	err := r.db.SelectContext(ctx, &leads, query, args...)
	return leads, err
}

func (r *repository) CountByAssignees(ctx context.Context, assignees []uuid.UUID, includeUnassigned bool, filter ListFilter) (int, error) {
	where, args := visibilityClause(assignees, includeUnassigned, filter)
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM leads WHERE `+where, args...)
	return count, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, notes sql.NullString) error {
	query := `UPDATE leads SET status = $2, notes = COALESCE($3, notes), updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status, notes)
	return err
}

func (r *repository) UpdateAssignedTo(ctx context.Context, id uuid.UUID, assignedTo uuid.NullUUID) error {
	query := `UPDATE leads SET assigned_to = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, assignedTo)
	return err
}
