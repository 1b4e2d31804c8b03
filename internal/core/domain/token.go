package domain

import "time"

// TokenClaims is the identity snapshot carried by a session token.
type TokenClaims struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	CompanyName string    `json:"companyName,omitempty"`
	JobTitle    string    `json:"jobTitle,omitempty"`
	IsActive    bool      `json:"isActive"`
	TokenID     string    `json:"tokenId"`
	IssuedAt    time.Time `json:"issuedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
