package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

// DeleteGuard is consulted before a delete and returns a Conflict error when
// dependent entities block it.
type DeleteGuard[T domain.Owned] func(ctx context.Context, entity T) error

// ScopedRepository enforces ownership for one entity type. Rows that are
// missing and rows owned by someone else both surface as NotFound.
type ScopedRepository[T domain.Owned] struct {
	store ports.OwnedStore[T]
	kind  string
	now   func() time.Time
}

// NewScopedRepository wraps store. kind names the entity in error messages.
func NewScopedRepository[T domain.Owned](store ports.OwnedStore[T], kind string) *ScopedRepository[T] {
	return &ScopedRepository[T]{store: store, kind: kind, now: time.Now}
}

func (r *ScopedRepository[T]) List(ctx context.Context, ownerID string) ([]T, error) {
	items, err := r.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", r.kind, err)
	}
	return items, nil
}

func (r *ScopedRepository[T]) Get(ctx context.Context, id, ownerID string) (T, error) {
	var zero T
	if id == "" || ownerID == "" {
		return zero, r.notFound()
	}
	entity, err := r.store.FindOwned(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return zero, r.notFound()
		}
		return zero, fmt.Errorf("get %s: %w", r.kind, err)
	}
	// Stores filter by owner already; this catches one that does not.
	if entity.GetOwnerID() != ownerID {
		return zero, r.notFound()
	}
	return entity, nil
}

// Create stamps entity with a new id and ownerID, then persists it.
func (r *ScopedRepository[T]) Create(ctx context.Context, entity T, ownerID string) (T, error) {
	var zero T
	if ownerID == "" {
		return zero, domain.Unauthorized("missing owner")
	}
	entity.Claim(uuid.NewString(), ownerID, r.now().UTC())
	if err := r.store.Insert(ctx, entity); err != nil {
		return zero, fmt.Errorf("create %s: %w", r.kind, err)
	}
	return entity, nil
}

// Update loads the owned entity, applies mutate and saves it. mutate may
// return an error to abort without writing.
func (r *ScopedRepository[T]) Update(ctx context.Context, id, ownerID string, mutate func(T) error) (T, error) {
	var zero T
	entity, err := r.Get(ctx, id, ownerID)
	if err != nil {
		return zero, err
	}
	if err := mutate(entity); err != nil {
		return zero, err
	}
	entity.Touch(ownerID, r.now().UTC())
	if err := r.store.Update(ctx, entity); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return zero, r.notFound()
		}
		return zero, fmt.Errorf("update %s: %w", r.kind, err)
	}
	return entity, nil
}

// Delete removes the owned entity after guard, if any, allows it.
func (r *ScopedRepository[T]) Delete(ctx context.Context, id, ownerID string, guard DeleteGuard[T]) error {
	entity, err := r.Get(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if guard != nil {
		if err := guard(ctx, entity); err != nil {
			return err
		}
	}
	if err := r.store.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return r.notFound()
		}
		return fmt.Errorf("delete %s: %w", r.kind, err)
	}
	return nil
}

func (r *ScopedRepository[T]) notFound() error {
	return domain.NotFound("%s not found", r.kind)
}
