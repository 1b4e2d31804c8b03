package service

import (
	"context"
	"errors"
	"testing"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

func TestScopedRepository_OwnershipIsolation(t *testing.T) {
	store := newMemClientStore()
	repo := NewScopedRepository[*domain.Client](store, "client")
	ctx := context.Background()

	c, err := repo.Create(ctx, &domain.Client{Name: "Acme", Email: "acme@x.com", IsActive: true}, "owner-a")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == "" || c.OwnerID != "owner-a" || c.CreatedAt.IsZero() {
		t.Fatalf("entity not stamped: %+v", c)
	}

	if _, err := repo.Get(ctx, c.ID, "owner-a"); err != nil {
		t.Fatalf("owner get: %v", err)
	}

	_, foreignErr := repo.Get(ctx, c.ID, "owner-b")
	_, missingErr := repo.Get(ctx, "does-not-exist", "owner-b")
	if !errors.Is(foreignErr, domain.ErrNotFound) || !errors.Is(missingErr, domain.ErrNotFound) {
		t.Fatalf("expected NotFound for both, got %v / %v", foreignErr, missingErr)
	}
	if domain.Message(foreignErr) != domain.Message(missingErr) {
		t.Fatalf("foreign and missing must look the same: %q vs %q", domain.Message(foreignErr), domain.Message(missingErr))
	}

	list, _ := repo.List(ctx, "owner-b")
	if len(list) != 0 {
		t.Fatalf("owner-b sees %d foreign entities", len(list))
	}
}

func TestScopedRepository_CreateOverridesOwner(t *testing.T) {
	repo := NewScopedRepository[*domain.Client](newMemClientStore(), "client")
	c := &domain.Client{Name: "Acme"}
	c.OwnerID = "spoofed"
	c.ID = "chosen-id"

	created, err := repo.Create(context.Background(), c, "owner-a")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.OwnerID != "owner-a" || created.ID == "chosen-id" {
		t.Fatalf("caller-supplied identity leaked through: %+v", created)
	}
}

func TestScopedRepository_Update(t *testing.T) {
	repo := NewScopedRepository[*domain.Client](newMemClientStore(), "client")
	ctx := context.Background()
	c, _ := repo.Create(ctx, &domain.Client{Name: "Acme"}, "owner-a")

	if _, err := repo.Update(ctx, c.ID, "owner-b", func(c *domain.Client) error {
		t.Fatalf("mutate must not run for a foreign owner")
		return nil
	}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}

	updated, err := repo.Update(ctx, c.ID, "owner-a", func(c *domain.Client) error {
		c.Name = "Acme Ltd"
		c.OwnerID = "owner-b" // re-asserted by Touch
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Acme Ltd" || updated.OwnerID != "owner-a" || updated.LastModifiedAt == nil {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	abort := domain.Validation("nope")
	if _, err := repo.Update(ctx, c.ID, "owner-a", func(*domain.Client) error { return abort }); !errors.Is(err, abort) {
		t.Fatalf("expected mutate error, got %v", err)
	}
}

func TestScopedRepository_DeleteGuard(t *testing.T) {
	repo := NewScopedRepository[*domain.Client](newMemClientStore(), "client")
	ctx := context.Background()
	c, _ := repo.Create(ctx, &domain.Client{Name: "Acme"}, "owner-a")

	blocked := func(context.Context, *domain.Client) error { return domain.Conflict("blocked") }
	if err := repo.Delete(ctx, c.ID, "owner-a", blocked); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}
	if err := repo.Delete(ctx, c.ID, "owner-b", nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFound for foreign delete, got %v", err)
	}
	if err := repo.Delete(ctx, c.ID, "owner-a", nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, c.ID, "owner-a"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFound after delete, got %v", err)
	}
}
