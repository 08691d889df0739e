package lead

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/loopcrm/loopcrm-api/internal/pkg/leadgen"
)

// Resolver answers assignment questions for an actor. Implemented by the
// authorization engine.
type Resolver interface {
	AssignableIDs(ctx context.Context, actorID uuid.UUID) ([]uuid.UUID, error)
	CanAssign(ctx context.Context, actorID, targetID uuid.UUID) (bool, error)
}

// Notifier pushes a lead event to a user. Optional.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, event string, payload interface{})
}

// Service manages leads with visibility scoped to the caller's assignable set
type Service struct {
	repo     Repository
	resolver Resolver
	notifier Notifier
}

// NewService creates lead service. notifier may be nil.
func NewService(repo Repository, resolver Resolver, notifier Notifier) *Service {
	return &Service{repo: repo, resolver: resolver, notifier: notifier}
}

// visibleTo reports whether a lead falls inside the actor's scope. Unassigned
// leads are visible to everyone who reaches the leads surface at all.
func visibleTo(l *Lead, assignable []uuid.UUID) bool {
	if !l.AssignedTo.Valid {
		return true
	}
	for _, id := range assignable {
		if id == l.AssignedTo.UUID {
			return true
		}
	}
	return false
}

// Create records a manually entered lead
func (s *Service) Create(ctx context.Context, actorID uuid.UUID, req *CreateLeadRequest) (*Lead, error) {
	now := time.Now()
	l := &Lead{
		ID:          uuid.New(),
		ContactName: req.ContactName,
		Source:      SourceWebsite,
		Status:      StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Source != "" {
		l.Source = Source(req.Source)
	}
	if req.ContactEmail != "" {
		l.ContactEmail = sql.NullString{String: req.ContactEmail, Valid: true}
	}
	if req.ContactPhone != "" {
		l.ContactPhone = sql.NullString{String: req.ContactPhone, Valid: true}
	}
	if req.CompanyName != "" {
		l.CompanyName = sql.NullString{String: req.CompanyName, Valid: true}
	}
	if req.Notes != "" {
		l.Notes = sql.NullString{String: req.Notes, Valid: true}
	}

	if req.AssignedTo != nil {
		ok, err := s.resolver.CanAssign(ctx, actorID, *req.AssignedTo)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrNotAssignable
		}
		l.AssignedTo = uuid.NullUUID{UUID: *req.AssignedTo, Valid: true}
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Ingest records a lead arriving from a provider webhook. Webhook leads start
// unassigned, so they surface for every lead worker until someone claims them.
func (s *Service) Ingest(ctx context.Context, provider leadgen.Provider, payload *leadgen.LeadPayload, ip, userAgent string) (*Lead, error) {
	now := time.Now()
	l := &Lead{
		ID:          uuid.New(),
		ContactName: payload.ContactName,
		Source:      Source(provider),
		Status:      StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if payload.ContactEmail != "" {
		l.ContactEmail = sql.NullString{String: payload.ContactEmail, Valid: true}
	}
	if payload.ContactPhone != "" {
		l.ContactPhone = sql.NullString{String: payload.ContactPhone, Valid: true}
	}
	if payload.CompanyName != "" {
		l.CompanyName = sql.NullString{String: payload.CompanyName, Valid: true}
	}
	if payload.CampaignID != "" {
		l.UTMCampaign = sql.NullString{String: payload.CampaignID, Valid: true}
		l.UTMSource = sql.NullString{String: string(provider), Valid: true}
	}
	if ip != "" {
		l.IPAddress = sql.NullString{String: ip, Valid: true}
	}
	if userAgent != "" {
		l.UserAgent = sql.NullString{String: userAgent, Valid: true}
	}

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	log.Info().
		Str("lead_id", l.ID.String()).
		Str("provider", string(provider)).
		Msg("Lead ingested from webhook")

	return l, nil
}

// List returns the leads visible to the actor
func (s *Service) List(ctx context.Context, actorID uuid.UUID, filter ListFilter) ([]*Lead, int, error) {
	ids, err := s.resolver.AssignableIDs(ctx, actorID)
	if err != nil {
		return nil, 0, err
	}
	leads, err := s.repo.ListByAssignees(ctx, ids, true, filter)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.repo.CountByAssignees(ctx, ids, true, filter)
	if err != nil {
		return nil, 0, err
	}
	return leads, count, nil
}

// GetByID returns a visible lead. Leads outside the actor's scope answer
// NotFound, same as absent ones.
func (s *Service) GetByID(ctx context.Context, actorID, id uuid.UUID) (*Lead, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrLeadNotFound
	}
	ids, err := s.resolver.AssignableIDs(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !visibleTo(l, ids) {
		return nil, ErrLeadNotFound
	}
	return l, nil
}

// UpdateStatus moves a visible lead to a new pipeline stage
func (s *Service) UpdateStatus(ctx context.Context, actorID, id uuid.UUID, status Status, notes string) (*Lead, error) {
	l, err := s.GetByID(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(l.Status, status) {
		return nil, ErrInvalidTransition
	}

	noteCol := sql.NullString{String: notes, Valid: notes != ""}
	if err := s.repo.UpdateStatus(ctx, id, status, noteCol); err != nil {
		return nil, err
	}
	l.Status = status
	if noteCol.Valid {
		l.Notes = noteCol
	}
	l.UpdatedAt = time.Now()
	return l, nil
}

// Assign hands a visible lead to a target inside the actor's assignable set
func (s *Service) Assign(ctx context.Context, actorID, leadID, targetID uuid.UUID) (*Lead, error) {
	l, err := s.GetByID(ctx, actorID, leadID)
	if err != nil {
		return nil, err
	}

	ok, err := s.resolver.CanAssign(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAssignable
	}

	assigned := uuid.NullUUID{UUID: targetID, Valid: true}
	if err := s.repo.UpdateAssignedTo(ctx, leadID, assigned); err != nil {
		return nil, err
	}
	l.AssignedTo = assigned
	l.UpdatedAt = time.Now()

	if s.notifier != nil && targetID != actorID {
		s.notifier.Notify(ctx, targetID, "lead_assigned", map[string]interface{}{
			"lead_id":      l.ID,
			"contact_name": l.ContactName,
		})
	}

	log.Info().
		Str("lead_id", leadID.String()).
		Str("assigned_to", targetID.String()).
		Msg("Lead assigned")

	return l, nil
}

// csvHeader fixes the export column order
var csvHeader = []string{
	"id", "contact_name", "contact_email", "contact_phone", "company_name",
	"source", "status", "assigned_to", "utm_source", "utm_medium",
	"utm_campaign", "created_at", "updated_at",
}

// WriteCSV streams the actor's visible leads as CSV. Also backs the export
// worker, which calls it with the requester as actor.
func (s *Service) WriteCSV(ctx context.Context, actorID uuid.UUID, w io.Writer) error {
	ids, err := s.resolver.AssignableIDs(ctx, actorID)
	if err != nil {
		return err
	}
	leads, err := s.repo.ListByAssignees(ctx, ids, true, ListFilter{})
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, l := range leads {
		assignedTo := ""
		if l.AssignedTo.Valid {
			assignedTo = l.AssignedTo.UUID.String()
		}
		row := []string{
			l.ID.String(),
			l.ContactName,
			l.ContactEmail.String,
			l.ContactPhone.String,
			l.CompanyName.String,
			string(l.Source),
			string(l.Status),
			assignedTo,
			l.UTMSource.String,
			l.UTMMedium.String,
			l.UTMCampaign.String,
			l.CreatedAt.Format(time.RFC3339),
			l.UpdatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("lead csv export: %w", err)
	}
	return nil
}
