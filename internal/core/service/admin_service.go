package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

// AdminService is the privileged path for changing job titles, company names
// and deactivating identities. Callers are expected to be admins; the HTTP
// layer enforces that before any method runs.
type AdminService struct {
	users    ports.IdentityRepository
	activity ports.ActivityRecorder
	log      zerolog.Logger
	now      func() time.Time
}

func NewAdminService(users ports.IdentityRepository, activity ports.ActivityRecorder, log zerolog.Logger) *AdminService {
	if activity == nil {
		activity = NopRecorder{}
	}
	return &AdminService{users: users, activity: activity, log: log, now: time.Now}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SetRole changes the job title and company name of userID. Nil leaves a field as is.
func (s *AdminService) SetRole(ctx context.Context, actorID, userID string, jobTitle, companyName *string) (*domain.User, error) {
	if jobTitle == nil && companyName == nil {
		return nil, domain.Validation("Nothing to update")
	}
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	previous := user.JobTitle
	if jobTitle != nil {
		user.JobTitle = strings.TrimSpace(*jobTitle)
	}
	if companyName != nil {
		user.CompanyName = strings.TrimSpace(*companyName)
	}
	now := s.now().UTC()
	user.LastModifiedAt = &now

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}

	s.activity.Record(domain.Activity{OwnerID: actorID, Action: domain.ActionRoleChanged, EntityID: user.ID, At: now})
	s.log.Info().
		Str("actor_id", actorID).
		Str("user_id", user.ID).
		Str("from", previous).
		Str("to", user.JobTitle).
		Msg("job title changed")
	return user, nil
}

// Deactivate soft-deletes userID. Existing tokens keep validating until they
// expire but can no longer be refreshed.
func (s *AdminService) Deactivate(ctx context.Context, actorID, userID string) error {
	if actorID == userID {
		return domain.Conflict("You cannot deactivate your own account")
	}
	user, err := s.find(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}

	now := s.now().UTC()
	user.IsActive = false
	user.LastModifiedAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}

	s.activity.Record(domain.Activity{OwnerID: actorID, Action: domain.ActionUserDeactivated, EntityID: user.ID, At: now})
	s.log.Info().Str("actor_id", actorID).Str("user_id", user.ID).Msg("user deactivated")
	return nil
}

func (s *AdminService) find(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
