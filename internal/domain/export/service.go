package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/loopcrm/loopcrm-api/internal/pkg/storage"
)

// QueueChannel is the Redis channel the worker watches for wake-ups.
// Polling still drives the queue; the publish only shortens pickup latency.
const QueueChannel = "exports:requested"

// CSVSource writes a CSV extract scoped to one requester. Implemented by
// the lead service.
type CSVSource interface {
	WriteCSV(ctx context.Context, actorID uuid.UUID, w io.Writer) error
}

// Service manages the export job queue and runs claimed jobs
type Service struct {
	repo    Repository
	leads   CSVSource
	storage storage.Storage
	redis   *redis.Client
}

// NewService creates export service. redisClient may be nil; the worker
// then relies on polling alone.
func NewService(repo Repository, leads CSVSource, store storage.Storage, redisClient *redis.Client) *Service {
	return &Service{repo: repo, leads: leads, storage: store, redis: redisClient}
}

// Request enqueues an export job for the caller
func (s *Service) Request(ctx context.Context, requestedBy uuid.UUID, kind Kind) (*Job, error) {
	if kind != KindLeads {
		return nil, ErrUnknownKind
	}

	job := &Job{
		ID:          uuid.New(),
		RequestedBy: requestedBy,
		Kind:        kind,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.Publish(ctx, QueueChannel, job.ID.String()).Err(); err != nil {
			log.Warn().Err(err).Msg("Export wake-up publish failed")
		}
	}

	log.Info().
		Str("job_id", job.ID.String()).
		Str("requested_by", requestedBy.String()).
		Msg("Export job queued")

	return job, nil
}

// GetByID returns a job requested by the caller. Jobs requested by others
// answer NotFound.
func (s *Service) GetByID(ctx context.Context, id, requestedBy uuid.UUID) (*Job, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil || job.RequestedBy != requestedBy {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// List returns the caller's jobs, newest first
func (s *Service) List(ctx context.Context, requestedBy uuid.UUID) ([]*Job, error) {
	return s.repo.ListByRequester(ctx, requestedBy)
}

// DownloadURL resolves the stored object URL for a finished job
func (s *Service) DownloadURL(job *Job) string {
	if job.Status != StatusDone || !job.ObjectKey.Valid {
		return ""
	}
	return s.storage.GetURL(job.ObjectKey.String)
}

// RunNext claims and runs one pending job. Returns false when the queue is
// empty. The extract is scoped to the requester's assignable set at run
// time, so directory edits between request and run take effect.
func (s *Service) RunNext(ctx context.Context) (bool, error) {
	job, err := s.repo.ClaimNextPending(ctx)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}

	if err := s.run(ctx, job); err != nil {
		log.Error().Err(err).
			Str("job_id", job.ID.String()).
			Msg("Export job failed")
		if markErr := s.repo.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			return true, markErr
		}
		return true, nil
	}
	return true, nil
}

func (s *Service) run(ctx context.Context, job *Job) error {
	var buf bytes.Buffer
	if err := s.leads.WriteCSV(ctx, job.RequestedBy, &buf); err != nil {
		return fmt.Errorf("build csv: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.csv", job.RequestedBy, job.ID)
	if err := s.storage.Put(ctx, key, &buf, "text/csv"); err != nil {
		return fmt.Errorf("upload csv: %w", err)
	}

	if err := s.repo.MarkDone(ctx, job.ID, key); err != nil {
		return fmt.Errorf("mark done: %w", err)
	}

	log.Info().
		Str("job_id", job.ID.String()).
		Str("object_key", key).
		Msg("Export job completed")

	return nil
}
