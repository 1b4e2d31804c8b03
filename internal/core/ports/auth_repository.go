package ports

import (
	"context"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

// IdentityRepository defines persistence for user identities. Lookups fail
// with domain.ErrNotFound; Create fails with domain.ErrConflict on a taken email.
type IdentityRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
}
