package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

const testSecret = "test-secret-key-with-enough-length-1234567890"

func newTestTokenService(t *testing.T, now time.Time) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenConfig{Secret: testSecret, TTL: time.Hour})
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	svc.now = func() time.Time { return now }
	return svc
}

func testUser() *domain.User {
	return &domain.User{
		ID:          "user-1",
		Email:       "a@x.com",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		CompanyName: "Acme",
		JobTitle:    "Senior Partner",
		IsActive:    true,
	}
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, now)

	token, expiresAt, err := svc.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !expiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "a@x.com" || claims.Name != "Ada Lovelace" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.JobTitle != "Senior Partner" || claims.CompanyName != "Acme" || !claims.IsActive {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.TokenID == "" || !claims.IssuedAt.Equal(now) {
		t.Fatalf("expected jti and iat, got %+v", claims)
	}
}

func TestTokenService_UniqueTokens(t *testing.T) {
	svc := newTestTokenService(t, time.Now())
	t1, _, _ := svc.Issue(testUser())
	t2, _, _ := svc.Issue(testUser())
	if t1 == t2 {
		t.Fatalf("expected distinct tokens for the same identity")
	}
}

func TestTokenService_Validate_ExpiredNoLeeway(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, now)
	token, expiresAt, _ := svc.Issue(testUser())

	svc.now = func() time.Time { return expiresAt.Add(-time.Second) }
	if _, err := svc.Validate(token); err != nil {
		t.Fatalf("expected valid one second before expiry, got %v", err)
	}

	svc.now = func() time.Time { return expiresAt.Add(time.Second) }
	if _, err := svc.Validate(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after expiry, got %v", err)
	}
	if !svc.IsExpired(token) {
		t.Fatalf("expected IsExpired after expiry")
	}
}

func TestTokenService_Validate_WrongIssuerAudienceSecret(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(t, now)
	token, _, _ := svc.Issue(testUser())

	others := []TokenConfig{
		{Secret: testSecret, Issuer: "https://evil.example"},
		{Secret: testSecret, Audience: "https://evil.example"},
		{Secret: "another-secret-key-with-enough-length-0987654321"},
	}
	for _, cfg := range others {
		other, err := NewTokenService(cfg)
		if err != nil {
			t.Fatalf("new token service: %v", err)
		}
		if _, err := other.Validate(token); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected rejection for %+v, got %v", cfg, err)
		}
		if _, err := other.ValidateIgnoringExpiry(token); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected structural rejection for %+v, got %v", cfg, err)
		}
	}
}

func TestTokenService_Validate_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTestTokenService(t, time.Now())

	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    DefaultTokenIssuer,
		Audience:  jwt.ClaimStrings{DefaultTokenAudience},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := svc.Validate(token); err == nil {
		t.Fatalf("expected HS512 token to be rejected")
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.ValidateIgnoringExpiry(none); err == nil {
		t.Fatalf("expected unsigned token to be rejected")
	}
}

func TestTokenService_ValidateIgnoringExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, now)
	token, _, _ := svc.Issue(testUser())

	svc.now = func() time.Time { return now.Add(48 * time.Hour) }
	claims, err := svc.ValidateIgnoringExpiry(token)
	if err != nil {
		t.Fatalf("expected expired token to pass structural validation, got %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("unexpected subject %q", claims.UserID)
	}

	// Flip one character of the signature.
	tampered := token[:len(token)-2] + flip(token[len(token)-2]) + token[len(token)-1:]
	if _, err := svc.ValidateIgnoringExpiry(tampered); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected tampered token to be rejected, got %v", err)
	}
}

func TestTokenService_IsExpired(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(t, now)
	token, _, _ := svc.Issue(testUser())

	if svc.IsExpired(token) {
		t.Fatalf("fresh token reported expired")
	}
	for _, bad := range []string{"", "garbage", "a.b.c", strings.Repeat("x", 40)} {
		if !svc.IsExpired(bad) {
			t.Fatalf("malformed %q should count as expired", bad)
		}
	}
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	if _, err := NewTokenService(TokenConfig{}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func flip(b byte) string {
	if b == 'A' {
		return "B"
	}
	return "A"
}
