package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User models an authenticated identity. JobTitle and CompanyName are only
// changed through the admin path; the derived role depends on JobTitle.
type User struct {
	ID             string     `json:"id" bson:"_id"`
	Email          string     `json:"email" bson:"email"`
	PasswordHash   string     `json:"-" bson:"password_hash"`
	FirstName      string     `json:"firstName" bson:"first_name"`
	LastName       string     `json:"lastName" bson:"last_name"`
	PhoneNumber    string     `json:"phoneNumber" bson:"phone_number"`
	CompanyName    string     `json:"companyName,omitempty" bson:"company_name,omitempty"`
	JobTitle       string     `json:"jobTitle,omitempty" bson:"job_title,omitempty"`
	IsActive       bool       `json:"isActive" bson:"is_active"`
	CreatedAt      time.Time  `json:"createdAt" bson:"created_at"`
	LastModifiedAt *time.Time `json:"lastModifiedAt,omitempty" bson:"last_modified_at,omitempty"`
}

// FullName is the display name carried in session tokens.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Role derives the authorization role from the job title.
func (u *User) Role() string {
	if IsAdmin(u.JobTitle) {
		return RoleAdmin
	}
	return RoleUser
}

// IsAdmin reports whether jobTitle grants the admin role: a case-insensitive
// match on "admin" or "partner" anywhere in the title.
func IsAdmin(jobTitle string) bool {
	t := strings.ToLower(jobTitle)
	return strings.Contains(t, "admin") || strings.Contains(t, "partner")
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
