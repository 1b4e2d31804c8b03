package domain

import "time"

// ActivityAction names something an identity did.
type ActivityAction string

const (
	ActionRegistered      ActivityAction = "user.registered"
	ActionLoggedIn        ActivityAction = "user.logged_in"
	ActionProfileUpdated  ActivityAction = "user.profile_updated"
	ActionClientCreated   ActivityAction = "client.created"
	ActionClientUpdated   ActivityAction = "client.updated"
	ActionClientDeleted   ActivityAction = "client.deleted"
	ActionProjectCreated  ActivityAction = "project.created"
	ActionProjectUpdated  ActivityAction = "project.updated"
	ActionProjectDeleted  ActivityAction = "project.deleted"
	ActionDocumentCreated ActivityAction = "document.created"
	ActionDocumentDeleted ActivityAction = "document.deleted"
	ActionRoleChanged     ActivityAction = "admin.role_changed"
	ActionUserDeactivated ActivityAction = "admin.user_deactivated"
)

// Activity is an entry in an identity's audit trail.
type Activity struct {
	ID       string         `json:"id" bson:"_id"`
	OwnerID  string         `json:"ownerId" bson:"owner_id"`
	Action   ActivityAction `json:"action" bson:"action"`
	EntityID string         `json:"entityId,omitempty" bson:"entity_id,omitempty"`
	At       time.Time      `json:"at" bson:"at"`
}
