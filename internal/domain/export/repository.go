package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines export job data access
type Repository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)
	ListByRequester(ctx context.Context, requestedBy uuid.UUID) ([]*Job, error)
	ClaimNextPending(ctx context.Context) (*Job, error)
	MarkDone(ctx context.Context, id uuid.UUID, objectKey string) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new export job repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, job *Job) error {
	query := `
		INSERT INTO export_jobs (id, requested_by, kind, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, job.ID, job.RequestedBy, job.Kind, job.Status, job.CreatedAt)
	if err != nil {
		return fmt.Errorf("export repository create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	query := `SELECT * FROM export_jobs WHERE id = $1`
	var job Job
	err := r.db.GetContext(ctx, &job, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *repository) ListByRequester(ctx context.Context, requestedBy uuid.UUID) ([]*Job, error) {
	query := `SELECT * FROM export_jobs WHERE requested_by = $1 ORDER BY created_at DESC`
	var jobs []*Job
	err := r.db.SelectContext(ctx, &jobs, query, requestedBy)
	return jobs, err
}

// ClaimNextPending atomically moves the oldest pending job to running and
// returns it. SKIP LOCKED lets concurrent workers claim disjoint jobs.
// Returns (nil, nil) when the queue is empty.
func (r *repository) ClaimNextPending(ctx context.Context) (*Job, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
		SELECT * FROM export_jobs
		WHERE status = 'pending'
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`
	var job Job
	if err := tx.GetContext(ctx, &job, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	update := `UPDATE export_jobs SET status = 'running', started_at = NOW() WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, job.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	job.Status = StatusRunning
	return &job, nil
}

func (r *repository) MarkDone(ctx context.Context, id uuid.UUID, objectKey string) error {
	query := `UPDATE export_jobs SET status = 'done', object_key = $2, completed_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, objectKey)
	return err
}

func (r *repository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	query := `UPDATE export_jobs SET status = 'failed', error = $2, completed_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, reason)
	return err
}
