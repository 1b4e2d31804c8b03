package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

const (
	DefaultBcryptCost = 12

	passwordMinLength = 8
	passwordMaxLength = 128

	// bcrypt ignores input past 72 bytes; longer passwords are digested first.
	bcryptMaxInput = 72

	passwordSpecialChars = `!@#$%^&*(),.?":{}|<>`
)

// PasswordService hashes and verifies credentials and enforces the password
// strength policy.
type PasswordService struct {
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewPasswordService returns a PasswordService using the given bcrypt cost.
// Out-of-range costs fall back to DefaultBcryptCost.
func NewPasswordService(cost int) *PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordService{cost: cost}
}

// Hash returns a salted bcrypt hash of password.
func (s *PasswordService) Hash(password string) (string, error) {
	if password == "" {
		return "", domain.Validation("Password is required")
	}
	hash, err := bcrypt.GenerateFromPassword(bcryptInput(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A malformed hash is a mismatch.
func (s *PasswordService) Verify(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil
}

// VerifyDummy burns the same work as Verify against a throwaway hash so that
// unknown emails take as long to reject as wrong passwords.
func (s *PasswordService) VerifyDummy(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("legalvibes-dummy-password"), s.cost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, bcryptInput(password))
}

// ValidateStrength checks password against the policy and returns the first
// rule it breaks.
func (s *PasswordService) ValidateStrength(password string) (bool, string) {
	if password == "" {
		return false, "Password is required"
	}
	n := len([]rune(password))
	if n < passwordMinLength {
		return false, "Password must be at least 8 characters long"
	}
	if n > passwordMaxLength {
		return false, "Password must not exceed 128 characters"
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
		if strings.ContainsRune(passwordSpecialChars, r) {
			special = true
		}
	}

	switch {
	case !upper:
		return false, "Password must contain at least one uppercase letter"
	case !lower:
		return false, "Password must contain at least one lowercase letter"
	case !digit:
		return false, "Password must contain at least one number"
	case !special:
		return false, "Password must contain at least one special character (!@#$%^&*(),.?\":{}|<>)"
	}
	return true, ""
}

func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}
