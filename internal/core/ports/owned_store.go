package ports

import (
	"context"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

// OwnedStore is the persistence contract for owner-scoped entities. Every
// method filters by owner; a row owned by someone else is domain.ErrNotFound.
type OwnedStore[T domain.Owned] interface {
	ListByOwner(ctx context.Context, ownerID string) ([]T, error)
	FindOwned(ctx context.Context, id, ownerID string) (T, error)
	Insert(ctx context.Context, entity T) error
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, id, ownerID string) error
}

type ClientStore interface {
	OwnedStore[*domain.Client]
	// FindActiveByEmail returns the owner's active client with this email.
	FindActiveByEmail(ctx context.Context, ownerID, email string) (*domain.Client, error)
}

type ProjectStore interface {
	OwnedStore[*domain.Project]
	// CountActiveByClient counts the client's projects that are not archived.
	CountActiveByClient(ctx context.Context, ownerID, clientID string) (int64, error)
	// Search matches term against name, description, reference number and
	// trademark name, case-insensitively.
	Search(ctx context.Context, ownerID, term string) ([]*domain.Project, error)
}

type DocumentStore interface {
	OwnedStore[*domain.Document]
	CountByProject(ctx context.Context, ownerID, projectID string) (int64, error)
	ListByProject(ctx context.Context, ownerID, projectID string) ([]*domain.Document, error)
}

// IdempotencyStore remembers which entity a client-supplied key created.
// A key is reserved before the create runs so that concurrent retries
// cannot both insert.
type IdempotencyStore interface {
	// Reserve claims key. When another request already holds it, entityID is
	// the id it created, or empty while that create is still running.
	Reserve(ctx context.Context, ownerID, scope, key string) (entityID string, reserved bool, err error)
	// Complete records the entity created under a reserved key.
	Complete(ctx context.Context, ownerID, scope, key, entityID string) error
	// Release gives up a reservation whose create failed.
	Release(ctx context.Context, ownerID, scope, key string) error
}
