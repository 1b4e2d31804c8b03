package service

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

const (
	DefaultTokenIssuer   = "https://localhost:7032"
	DefaultTokenAudience = "https://localhost:5173"
	DefaultTokenTTL      = 1440 * time.Minute
)

// TokenConfig configures token signing and validation.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// sessionClaims is the JWT payload: registered claims plus the identity snapshot.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Company    string `json:"company"`
	JobTitle   string `json:"job_title"`
	IsActive   bool   `json:"is_active"`
}

// TokenService issues and validates HS256 session tokens. It keeps no state
// between calls.
type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token service: secret is required")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = DefaultTokenIssuer
	}
	if cfg.Audience == "" {
		cfg.Audience = DefaultTokenAudience
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTokenTTL
	}
	return &TokenService{cfg: cfg, now: time.Now}, nil
}

// Issue signs a new token for user with a fresh id, valid for the configured window.
func (s *TokenService) Issue(user *domain.User) (string, time.Time, error) {
	now := s.now().UTC().Truncate(time.Second)
	expiresAt := now.Add(s.cfg.TTL)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Issuer:    s.cfg.Issuer,
			Audience:  jwt.ClaimStrings{s.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email:      user.Email,
		Name:       user.FullName(),
		GivenName:  user.FirstName,
		FamilyName: user.LastName,
		Company:    user.CompanyName,
		JobTitle:   user.JobTitle,
		IsActive:   user.IsActive,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Validate checks signature, issuer, audience and expiry with no leeway.
func (s *TokenService) Validate(token string) (*domain.TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithAudience(s.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	var claims sessionClaims
	if _, err := parser.ParseWithClaims(token, &claims, s.keyFunc); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.Unauthorized("token expired")
		}
		return nil, domain.Unauthorized("invalid token")
	}
	return claims.toDomain(), nil
}

// ValidateIgnoringExpiry checks signature, issuer and audience but accepts an
// expired token. Only the refresh path uses it.
func (s *TokenService) ValidateIgnoringExpiry(token string) (*domain.TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims sessionClaims
	if _, err := parser.ParseWithClaims(token, &claims, s.keyFunc); err != nil {
		return nil, domain.Unauthorized("malformed token")
	}
	if claims.Issuer != s.cfg.Issuer || !slices.Contains(claims.Audience, s.cfg.Audience) {
		return nil, domain.Unauthorized("malformed token")
	}
	if claims.Subject == "" {
		return nil, domain.Unauthorized("malformed token")
	}
	return claims.toDomain(), nil
}

// IsExpired inspects token without verifying it. Anything unreadable counts
// as expired.
func (s *TokenService) IsExpired(token string) bool {
	var claims sessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return !s.now().Before(claims.ExpiresAt.Time)
}

func (s *TokenService) keyFunc(*jwt.Token) (any, error) {
	return []byte(s.cfg.Secret), nil
}

func (c *sessionClaims) toDomain() *domain.TokenClaims {
	out := &domain.TokenClaims{
		UserID:      c.Subject,
		Email:       c.Email,
		Name:        c.Name,
		FirstName:   c.GivenName,
		LastName:    c.FamilyName,
		CompanyName: c.Company,
		JobTitle:    c.JobTitle,
		IsActive:    c.IsActive,
		TokenID:     c.ID,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
