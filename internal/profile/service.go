// File: internal/profile/service.go
package profile

import (
	"context"
	"errors"
	"fmt"

	"barberlink_backend/internal/common"
	"barberlink_backend/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements the server side of the profile store contract.
type Service struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
}

// NewService creates a new profile service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		cfg:    cfg,
		logger: logger.Named("ProfileService"),
	}
}

// List retrieves profiles filtered by email and/or role.
func (s *Service) List(ctx context.Context, email, role string, limit int) ([]Profile, error) {
	records, err := s.repo.FindAll(ctx, email, role, limit)
	if err != nil {
		s.logger.Error("Failed to list profiles", zap.Error(err))
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	profiles := make([]Profile, len(records))
	for i := range records {
		profiles[i] = ToProfile(&records[i])
	}
	return profiles, nil
}

// GetByID retrieves a single profile by its ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := ToProfile(record)
	return &p, nil
}

// CreateOrAdopt creates a profile for an email, or adopts the existing one.
// Profile creation is idempotent by email: a second create for the same email
// never produces a second record. When the existing record was created by the
// reconciliation fallback path (role client) and the request carries an
// explicit non-client role, the role is upgraded; a stored barber/admin role
// is never downgraded back to client.
func (s *Service) CreateOrAdopt(ctx context.Context, req CreateRequest) (*Profile, bool, error) {
	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil && existing != nil {
		return s.adopt(ctx, existing, req)
	}
	if err != nil && !errNotFound(err) {
		s.logger.Error("Failed to check existing profile by email", zap.Error(err), zap.String("email", req.Email))
		return nil, false, fmt.Errorf("failed to check existing profile: %w", err)
	}

	record := &Record{
		Email: req.Email,
		Name:  req.Name,
		Role:  req.Role,
	}
	record.ID = uuid.New()
	if req.Phone != "" {
		phone := req.Phone
		record.Phone = &phone
	}

	if err := s.repo.Create(ctx, record); err != nil {
		// A concurrent create won the race. Re-run the adopt path so an
		// explicit role still upgrades the winner's fallback record.
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.Code == common.ErrConflict.Code {
			if winner, findErr := s.repo.FindByEmail(ctx, req.Email); findErr == nil {
				return s.adopt(ctx, winner, req)
			}
		}
		s.logger.Error("Failed to create profile", zap.Error(err), zap.String("email", req.Email))
		return nil, false, err
	}

	s.logger.Info("Profile created",
		zap.String("profileID", record.ID.String()),
		zap.String("email", record.Email),
		zap.String("role", record.Role),
	)
	p := ToProfile(record)
	return &p, true, nil
}

// adopt returns the existing record for a repeated create, upgrading a
// fallback-seeded client role when the request carries an explicit one and
// backfilling a missing phone. Roles are never downgraded.
func (s *Service) adopt(ctx context.Context, existing *Record, req CreateRequest) (*Profile, bool, error) {
	changed := false
	if req.Role != common.RoleClient && existing.Role == common.RoleClient {
		s.logger.Info("Upgrading profile role on explicit registration",
			zap.String("email", existing.Email),
			zap.String("from", existing.Role),
			zap.String("to", req.Role),
		)
		existing.Role = req.Role
		changed = true
	}
	if req.Phone != "" && existing.Phone == nil {
		phone := req.Phone
		existing.Phone = &phone
		changed = true
	}
	if changed {
		if err := s.repo.Update(ctx, existing); err != nil {
			s.logger.Error("Failed to update adopted profile", zap.Error(err), zap.String("email", existing.Email))
			return nil, false, err
		}
	}
	p := ToProfile(existing)
	return &p, false, nil
}

// errNotFound reports whether err represents a missing record.
func errNotFound(err error) bool {
	if apiErr, ok := common.IsAPIError(err); ok {
		return apiErr.Code == common.ErrNotFound.Code
	}
	return errors.Is(err, ErrNotFound)
}
