package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/access"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// ProfileService exposes role records. Roles cannot be changed once set.
type ProfileService struct {
	profiles repository.ProfileRepository
}

// NewProfileService constructs the service.
func NewProfileService(profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// ListProfiles returns every profile.
func (s *ProfileService) ListProfiles(ctx context.Context) ([]domain.UserProfile, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []domain.UserProfile{}
	}
	return profiles, nil
}

// GetProfile fetches the profile of userID.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("profile", nil)
		}
		return nil, err
	}
	return profile, nil
}

// ErrAgentSelfGrant rejects self-service creation of agent profiles. Agent
// roles are only assigned at registration.
var ErrAgentSelfGrant = apperrors.NewForbidden("agent profiles can only be created at registration")

// CreateProfile gives the caller a customer role when it has none. Roles are
// never raised this way, so deleting and recreating a profile cannot turn a
// customer into an agent.
func (s *ProfileService) CreateProfile(ctx context.Context, caller access.Caller, role domain.Role) (*domain.UserProfile, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("invalid payload", map[string]any{
			"role": "must be one of: customer agent",
		})
	}
	if caller.Profile != nil {
		return nil, apperrors.NewConflict("profile already exists", nil)
	}
	if role != domain.RoleCustomer {
		return nil, ErrAgentSelfGrant
	}
	profile := &domain.UserProfile{UserID: caller.User.ID, Role: role, User: caller.User}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("profile already exists", nil)
		}
		return nil, err
	}
	return profile, nil
}

// DeleteProfile removes the caller's own profile. Afterwards the caller sees no tickets.
func (s *ProfileService) DeleteProfile(ctx context.Context, caller access.Caller, userID string) error {
	if caller.User == nil || caller.User.ID != userID {
		return apperrors.NewForbidden("profiles can only be deleted by their owner")
	}
	if err := s.profiles.Delete(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("profile", nil)
		}
		return err
	}
	return nil
}
