package user

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/loopcrm/loopcrm-api/internal/pkg/password"
)

// SubordinateResolver reports the transitive subordinate closure of a user.
// Implemented by the authorization engine; used here to keep the reporting
// graph acyclic on reassignment.
type SubordinateResolver interface {
	SubordinateIDs(ctx context.Context, id uuid.UUID) (map[uuid.UUID]struct{}, error)
}

// Service handles directory management
type Service struct {
	repo         Repository
	subordinates SubordinateResolver
}

// NewService creates user service
func NewService(repo Repository, subordinates SubordinateResolver) *Service {
	return &Service{repo: repo, subordinates: subordinates}
}

// Create creates a new directory user
func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	u := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         Role(req.Role),
		Status:       StatusActive,
		Department:   sql.NullString{String: req.Department, Valid: req.Department != ""},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if req.ReportsTo != "" {
		managerID, parseErr := uuid.Parse(req.ReportsTo)
		if parseErr != nil {
			return nil, ErrManagerNotFound
		}
		manager, mgrErr := s.repo.GetByID(ctx, managerID)
		if mgrErr != nil {
			return nil, mgrErr
		}
		if manager == nil {
			return nil, ErrManagerNotFound
		}
		u.ReportsTo = uuid.NullUUID{UUID: managerID, Valid: true}
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID returns a user by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// List returns directory users. When roles are given, only active users
// holding one of those roles are returned.
func (s *Service) List(ctx context.Context, roles ...Role) ([]*User, error) {
	if len(roles) > 0 {
		return s.repo.ListActiveByRoles(ctx, roles)
	}
	return s.repo.List(ctx)
}

// Update patches profile fields on a user
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Role != nil {
		u.Role = Role(*req.Role)
	}
	if req.Department != nil {
		u.Department = sql.NullString{String: *req.Department, Valid: *req.Department != ""}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateStatus activates or deactivates a user
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	u.Status = status
	return u, nil
}

// Reassign changes who a user reports to. The new supervisor must exist and
// must not be the user themselves or anyone in the user's own subordinate
// closure; either would make the user their own ancestor.
func (s *Service) Reassign(ctx context.Context, id uuid.UUID, managerID uuid.NullUUID) (*User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if managerID.Valid {
		if managerID.UUID == id {
			return nil, ErrCyclicReporting
		}

		manager, err := s.repo.GetByID(ctx, managerID.UUID)
		if err != nil {
			return nil, err
		}
		if manager == nil {
			return nil, ErrManagerNotFound
		}

		subs, err := s.subordinates.SubordinateIDs(ctx, id)
		if err != nil {
			return nil, err
		}
		if _, ok := subs[managerID.UUID]; ok {
			return nil, ErrCyclicReporting
		}
	}

	if err := s.repo.UpdateReportsTo(ctx, id, managerID); err != nil {
		return nil, err
	}
	u.ReportsTo = managerID
	return u, nil
}
