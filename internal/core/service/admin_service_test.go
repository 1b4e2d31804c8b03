package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

func seedUser(repo *stubIdentityRepo, id, jobTitle string) *domain.User {
	u := &domain.User{ID: id, Email: id + "@x.com", JobTitle: jobTitle, IsActive: true, CreatedAt: time.Now()}
	repo.users[id] = u
	return u
}

func TestAdminService_SetRole(t *testing.T) {
	repo := newStubIdentityRepo()
	seedUser(repo, "admin", "Partner")
	seedUser(repo, "u1", "Associate")
	svc := NewAdminService(repo, nil, discardLogger)

	updated, err := svc.SetRole(context.Background(), "admin", "u1", strPtr("Office Admin"), nil)
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	if updated.JobTitle != "Office Admin" || updated.Role() != domain.RoleAdmin {
		t.Fatalf("unexpected user: %+v", updated)
	}
	if repo.users["u1"].JobTitle != "Office Admin" {
		t.Fatalf("change not persisted")
	}

	if _, err := svc.SetRole(context.Background(), "admin", "ghost", strPtr("x"), nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.SetRole(context.Background(), "admin", "u1", nil, nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAdminService_Deactivate(t *testing.T) {
	repo := newStubIdentityRepo()
	seedUser(repo, "admin", "Partner")
	seedUser(repo, "u1", "Associate")
	svc := NewAdminService(repo, nil, discardLogger)

	if err := svc.Deactivate(context.Background(), "admin", "admin"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict for self-deactivation, got %v", err)
	}
	if err := svc.Deactivate(context.Background(), "admin", "u1"); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if repo.users["u1"].IsActive {
		t.Fatalf("expected u1 to be inactive")
	}
	// Idempotent.
	if err := svc.Deactivate(context.Background(), "admin", "u1"); err != nil {
		t.Fatalf("second deactivate: %v", err)
	}
}
