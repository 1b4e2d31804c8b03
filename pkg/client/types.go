package client

import (
	"strings"
	"time"
)

// User is an identity as returned by the API.
type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	PhoneNumber    string     `json:"phoneNumber,omitempty"`
	CompanyName    string     `json:"companyName,omitempty"`
	JobTitle       string     `json:"jobTitle,omitempty"`
	IsActive       bool       `json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastModifiedAt *time.Time `json:"lastModifiedAt,omitempty"`
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// AuthResult is the payload of register, login and refresh.
type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

// TokenInfo is the payload of validate-token.
type TokenInfo struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	JobTitle    string `json:"jobTitle,omitempty"`
}

// ProfileUpdate carries only the fields to change.
type ProfileUpdate struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	CompanyName *string `json:"companyName,omitempty"`
	JobTitle    *string `json:"jobTitle,omitempty"`
}

// Apply copies the set fields of p onto u.
func (p ProfileUpdate) Apply(u *User) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&u.FirstName, p.FirstName)
	set(&u.LastName, p.LastName)
	set(&u.PhoneNumber, p.PhoneNumber)
	set(&u.CompanyName, p.CompanyName)
	set(&u.JobTitle, p.JobTitle)
}

// ClientRecord is a law-firm client owned by the caller.
type ClientRecord struct {
	ID             string     `json:"id"`
	OwnerID        string     `json:"ownerId"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	PhoneNumber    string     `json:"phoneNumber"`
	CompanyName    string     `json:"companyName,omitempty"`
	Address        string     `json:"address,omitempty"`
	IsActive       bool       `json:"isActive"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastModifiedAt *time.Time `json:"lastModifiedAt,omitempty"`
}

type ClientInput struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	Address     string `json:"address,omitempty"`
}

type Project struct {
	ID                    string        `json:"id"`
	OwnerID               string        `json:"ownerId"`
	Name                  string        `json:"name"`
	Description           string        `json:"description,omitempty"`
	Type                  string        `json:"type"`
	Status                string        `json:"status"`
	DueDate               *time.Time    `json:"dueDate,omitempty"`
	ReferenceNumber       string        `json:"referenceNumber,omitempty"`
	ClientID              string        `json:"clientId"`
	Client                *ClientRecord `json:"client,omitempty"`
	TrademarkName         string        `json:"trademarkName,omitempty"`
	TrademarkDescription  string        `json:"trademarkDescription,omitempty"`
	GoodsAndServices      string        `json:"goodsAndServices,omitempty"`
	SpecialConsiderations string        `json:"specialConsiderations,omitempty"`
	CreatedAt             time.Time     `json:"createdAt"`
	LastModifiedAt        *time.Time    `json:"lastModifiedAt,omitempty"`
}

type ProjectInput struct {
	Name                  string     `json:"name,omitempty"`
	Description           string     `json:"description,omitempty"`
	Type                  string     `json:"type,omitempty"`
	Status                string     `json:"status,omitempty"`
	DueDate               *time.Time `json:"dueDate,omitempty"`
	ReferenceNumber       string     `json:"referenceNumber,omitempty"`
	ClientID              string     `json:"clientId,omitempty"`
	TrademarkName         string     `json:"trademarkName,omitempty"`
	TrademarkDescription  string     `json:"trademarkDescription,omitempty"`
	GoodsAndServices      string     `json:"goodsAndServices,omitempty"`
	SpecialConsiderations string     `json:"specialConsiderations,omitempty"`
}

type Document struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerId"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Type          string    `json:"type"`
	Status        string    `json:"status"`
	ContentType   string    `json:"contentType,omitempty"`
	StoragePath   string    `json:"storagePath,omitempty"`
	SizeInBytes   int64     `json:"sizeInBytes"`
	ProjectID     string    `json:"projectId"`
	IsAIGenerated bool      `json:"isAiGenerated"`
	CreatedAt     time.Time `json:"createdAt"`
}

type DocumentInput struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Type          string `json:"type,omitempty"`
	ContentType   string `json:"contentType,omitempty"`
	StoragePath   string `json:"storagePath,omitempty"`
	SizeInBytes   int64  `json:"sizeInBytes"`
	ProjectID     string `json:"projectId"`
	IsAIGenerated bool   `json:"isAiGenerated"`
}

type Activity struct {
	ID       string    `json:"id"`
	OwnerID  string    `json:"ownerId"`
	Action   string    `json:"action"`
	EntityID string    `json:"entityId,omitempty"`
	At       time.Time `json:"at"`
}
