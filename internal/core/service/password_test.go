package service

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

func TestPasswordService_HashAndVerify(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	h1, err := svc.Hash("Str0ng!Pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := svc.Hash("Str0ng!Pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected distinct salted hashes")
	}
	if !svc.Verify("Str0ng!Pass", h1) || !svc.Verify("Str0ng!Pass", h2) {
		t.Fatalf("expected both hashes to verify")
	}
	if svc.Verify("wrong", h1) {
		t.Fatalf("wrong password verified")
	}
}

func TestPasswordService_Hash_Empty(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)
	if _, err := svc.Hash(""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPasswordService_Verify_MalformedHash(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)
	for _, h := range []string{"", "not-a-hash", "$2a$04$short"} {
		if svc.Verify("Str0ng!Pass", h) {
			t.Fatalf("malformed hash %q verified", h)
		}
	}
}

func TestPasswordService_LongPassword(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)
	long := "Aa1!" + strings.Repeat("x", 100)

	h, err := svc.Hash(long)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !svc.Verify(long, h) {
		t.Fatalf("long password did not verify")
	}
	// Differs only after byte 72.
	if svc.Verify(long[:len(long)-1]+"y", h) {
		t.Fatalf("passwords differing past 72 bytes must not collide")
	}
}

func TestPasswordService_DefaultCost(t *testing.T) {
	if got := NewPasswordService(0).cost; got != DefaultBcryptCost {
		t.Fatalf("expected default cost %d, got %d", DefaultBcryptCost, got)
	}
}

func TestPasswordService_ValidateStrength(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	cases := []struct {
		name     string
		password string
		reason   string
	}{
		{"empty", "", "Password is required"},
		{"too short", "Ab1!", "Password must be at least 8 characters long"},
		{"too long", "Aa1!" + strings.Repeat("x", 125), "Password must not exceed 128 characters"},
		{"no upper", "str0ng!pass", "Password must contain at least one uppercase letter"},
		{"no lower", "STR0NG!PASS", "Password must contain at least one lowercase letter"},
		{"no digit", "Strong!Pass", "Password must contain at least one number"},
		{"no special", "Str0ngPass", "Password must contain at least one special character"},
		// Length is checked before character classes.
		{"short and weak", "abc", "Password must be at least 8 characters long"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := svc.ValidateStrength(tc.password)
			if ok {
				t.Fatalf("expected %q to be rejected", tc.password)
			}
			if !strings.HasPrefix(reason, tc.reason) {
				t.Fatalf("expected reason %q, got %q", tc.reason, reason)
			}
		})
	}

	if ok, reason := svc.ValidateStrength("Str0ng!Pass"); !ok || reason != "" {
		t.Fatalf("expected strong password to pass, got %v %q", ok, reason)
	}
	if ok, _ := svc.ValidateStrength("Aa1!" + strings.Repeat("x", 124)); !ok {
		t.Fatalf("expected 128-char password to pass")
	}
}
