package domain

import "time"

// Owned is implemented by every entity scoped to the identity that created it.
type Owned interface {
	GetID() string
	GetOwnerID() string
	// Claim stamps a new entity with its id, owner and creation time.
	Claim(id, ownerID string, at time.Time)
	// Touch records a modification and re-asserts the owner.
	Touch(ownerID string, at time.Time)
}

// Ownership is embedded by owned entities to satisfy Owned.
type Ownership struct {
	ID             string     `json:"id" bson:"_id"`
	OwnerID        string     `json:"ownerId" bson:"owner_id"`
	CreatedAt      time.Time  `json:"createdAt" bson:"created_at"`
	LastModifiedAt *time.Time `json:"lastModifiedAt,omitempty" bson:"last_modified_at,omitempty"`
}

func (o *Ownership) GetID() string      { return o.ID }
func (o *Ownership) GetOwnerID() string { return o.OwnerID }

func (o *Ownership) Claim(id, ownerID string, at time.Time) {
	o.ID = id
	o.OwnerID = ownerID
	o.CreatedAt = at
	o.LastModifiedAt = nil
}

func (o *Ownership) Touch(ownerID string, at time.Time) {
	o.OwnerID = ownerID
	o.LastModifiedAt = &at
}
