package export

import (
	"time"

	"github.com/google/uuid"
)

type RequestExportRequest struct {
	Kind string `json:"kind" validate:"required,oneof=leads"`
}

type JobResponse struct {
	ID          uuid.UUID  `json:"id"`
	Kind        Kind       `json:"kind"`
	Status      JobStatus  `json:"status"`
	DownloadURL string     `json:"download_url,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func toResponse(job *Job, downloadURL string) *JobResponse {
	resp := &JobResponse{
		ID:          job.ID,
		Kind:        job.Kind,
		Status:      job.Status,
		DownloadURL: downloadURL,
		Error:       job.Error.String,
		CreatedAt:   job.CreatedAt,
	}
	if job.StartedAt.Valid {
		t := job.StartedAt.Time
		resp.StartedAt = &t
	}
	if job.CompletedAt.Valid {
		t := job.CompletedAt.Time
		resp.CompletedAt = &t
	}
	return resp
}
