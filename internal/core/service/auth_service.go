package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/legalvibes/practice-api/internal/api/metrics"
	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

const (
	nameMinLength  = 2
	phoneMinLength = 10
)

// AuthService implements registration, login, profile management and token
// refresh on top of the password and token services.
type AuthService struct {
	users     ports.IdentityRepository
	passwords *PasswordService
	tokens    *TokenService
	activity  ports.ActivityRecorder
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(
	users ports.IdentityRepository,
	passwords *PasswordService,
	tokens *TokenService,
	activity ports.ActivityRecorder,
	log zerolog.Logger,
) *AuthService {
	if activity == nil {
		activity = NopRecorder{}
	}
	return &AuthService{
		users:     users,
		passwords: passwords,
		tokens:    tokens,
		activity:  activity,
		log:       log,
		now:       time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	switch {
	case email == "":
		return nil, domain.Validation("Email is required")
	case !strings.Contains(email, "@"):
		return nil, domain.Validation("Email must be a valid email address")
	case strings.TrimSpace(in.FirstName) == "":
		return nil, domain.Validation("First name is required")
	case strings.TrimSpace(in.LastName) == "":
		return nil, domain.Validation("Last name is required")
	}
	if ok, reason := s.passwords.ValidateStrength(in.Password); !ok {
		return nil, domain.Validation("%s", reason)
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		s.log.Warn().Str("email", email).Msg("registration with existing email")
		return nil, domain.Conflict("A user with this email already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		CompanyName:  strings.TrimSpace(in.CompanyName),
		JobTitle:     strings.TrimSpace(in.JobTitle),
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Conflict("A user with this email already exists")
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.Inc()
	s.record(user.ID, domain.ActionRegistered, user.ID)
	s.log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("user registered")
	return result, nil
}

// Login fails with domain.ErrInvalidCredentials for unknown emails, inactive
// identities and wrong passwords alike.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.Validation("Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("login: %w", err)
		}
		s.passwords.VerifyDummy(password)
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.log.Warn().Str("email", email).Msg("login for unknown email")
		return nil, domain.ErrInvalidCredentials
	}

	if !s.passwords.Verify(password, user.PasswordHash) || !user.IsActive {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.log.Warn().Str("user_id", user.ID).Bool("active", user.IsActive).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.record(user.ID, domain.ActionLoggedIn, user.ID)
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return result, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("User not found")
		}
		return nil, fmt.Errorf("profile: %w", err)
	}
	return user, nil
}

// UpdateProfile changes name and phone only. Any attempt to change the job
// title or company name is Forbidden, even when the values are otherwise valid.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, patch ports.ProfilePatch) (*domain.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.Unauthorized("Account is inactive")
	}

	firstName := trimmed(patch.FirstName)
	lastName := trimmed(patch.LastName)
	phone := trimmed(patch.PhoneNumber)

	switch {
	case firstName != "" && len([]rune(firstName)) < nameMinLength:
		return nil, domain.Validation("First name must be at least 2 characters long")
	case lastName != "" && len([]rune(lastName)) < nameMinLength:
		return nil, domain.Validation("Last name must be at least 2 characters long")
	case phone != "" && len(phone) < phoneMinLength:
		return nil, domain.Validation("Phone number must be at least 10 characters long")
	}

	if patch.JobTitle != nil && *patch.JobTitle != user.JobTitle {
		s.log.Warn().
			Str("user_id", userID).
			Str("current", user.JobTitle).
			Str("requested", *patch.JobTitle).
			Msg("attempt to change job title through profile update")
		return nil, domain.Forbidden("Job title cannot be changed through profile updates. Contact your administrator for role changes.")
	}
	if patch.CompanyName != nil && *patch.CompanyName != user.CompanyName {
		s.log.Warn().
			Str("user_id", userID).
			Str("current", user.CompanyName).
			Str("requested", *patch.CompanyName).
			Msg("attempt to change company name through profile update")
		return nil, domain.Forbidden("Company name cannot be changed through profile updates. Contact your administrator for organization changes.")
	}

	if firstName != "" {
		user.FirstName = firstName
	}
	if lastName != "" {
		user.LastName = lastName
	}
	if phone != "" {
		user.PhoneNumber = phone
	}
	now := s.now().UTC()
	user.LastModifiedAt = &now

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.record(user.ID, domain.ActionProfileUpdated, user.ID)
	s.log.Info().Str("user_id", user.ID).Msg("profile updated")
	return user, nil
}

// Refresh accepts an expired but well-formed token and issues a new one from
// the stored identity, never from the presented claims.
func (s *AuthService) Refresh(ctx context.Context, token string) (*ports.AuthResult, error) {
	claims, err := s.tokens.ValidateIgnoringExpiry(token)
	if err != nil {
		metrics.RefreshesTotal.WithLabelValues("rejected").Inc()
		return nil, domain.Unauthorized("Invalid token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", err)
		}
		metrics.RefreshesTotal.WithLabelValues("rejected").Inc()
		s.log.Warn().Str("user_id", claims.UserID).Msg("refresh for missing identity")
		return nil, domain.Unauthorized("User not found or inactive")
	}
	if !user.IsActive {
		metrics.RefreshesTotal.WithLabelValues("rejected").Inc()
		s.log.Warn().Str("user_id", user.ID).Msg("refresh for inactive identity")
		return nil, domain.Unauthorized("User not found or inactive")
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}
	metrics.RefreshesTotal.WithLabelValues("issued").Inc()
	s.log.Debug().Str("user_id", user.ID).Msg("token refreshed")
	return result, nil
}

func (s *AuthService) issue(user *domain.User) (*ports.AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) record(ownerID string, action domain.ActivityAction, entityID string) {
	s.activity.Record(domain.Activity{OwnerID: ownerID, Action: action, EntityID: entityID, At: s.now().UTC()})
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// NopRecorder discards activity.
type NopRecorder struct{}

func (NopRecorder) Record(domain.Activity) {}
