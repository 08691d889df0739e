package export

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Kind identifies what an export job extracts
type Kind string

const (
	KindLeads Kind = "leads"
)

// JobStatus represents an export job's lifecycle stage
type JobStatus string

const (
	StatusPending JobStatus = "pending"
	StatusRunning JobStatus = "running"
	StatusDone    JobStatus = "done"
	StatusFailed  JobStatus = "failed"
)

// Job represents one requested export. Jobs are claimed by the worker and
// run with the requester's visibility at run time, not request time.
type Job struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	RequestedBy uuid.UUID      `db:"requested_by" json:"requested_by"`
	Kind        Kind           `db:"kind" json:"kind"`
	Status      JobStatus      `db:"status" json:"status"`
	ObjectKey   sql.NullString `db:"object_key" json:"-"`
	Error       sql.NullString `db:"error" json:"-"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	StartedAt   sql.NullTime   `db:"started_at" json:"-"`
	CompletedAt sql.NullTime   `db:"completed_at" json:"-"`
}
