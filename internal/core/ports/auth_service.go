package ports

import (
	"context"
	"time"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

// RegisterInput is the DTO for self-service registration.
type RegisterInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	PhoneNumber string
	CompanyName string
	JobTitle    string
}

// ProfilePatch lists the fields a caller wants to change. Nil means untouched.
type ProfilePatch struct {
	FirstName   *string
	LastName    *string
	PhoneNumber *string
	CompanyName *string
	JobTitle    *string
}

// AuthResult is returned by every operation that issues a session token.
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, patch ProfilePatch) (*domain.User, error)
	// Refresh exchanges a possibly expired token for a new one built from the
	// identity as currently stored.
	Refresh(ctx context.Context, token string) (*AuthResult, error)
}

// TokenValidator is the subset of the token service the transport needs.
type TokenValidator interface {
	Validate(token string) (*domain.TokenClaims, error)
}

// AdminService is the privileged path for identity administration.
type AdminService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	SetRole(ctx context.Context, actorID, userID string, jobTitle, companyName *string) (*domain.User, error)
	Deactivate(ctx context.Context, actorID, userID string) error
}
