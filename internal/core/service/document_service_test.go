package service

import (
	"context"
	"errors"
	"testing"

	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

func TestDocumentService_CreateAndList(t *testing.T) {
	f := newEntityFixture()
	ctx := context.Background()
	c := f.mustClient(t, "owner-a", "a@x.com")
	p1, _, _ := f.projectSvc.Create(ctx, "owner-a", ports.ProjectInput{Name: "P1", ClientID: c.ID}, "")
	p2, _, _ := f.projectSvc.Create(ctx, "owner-a", ports.ProjectInput{Name: "P2", ClientID: c.ID}, "")

	d, err := f.documentSvc.Create(ctx, "owner-a", ports.DocumentInput{
		Name:        " brief.pdf ",
		ProjectID:   p1.ID,
		ContentType: "application/pdf",
		SizeInBytes: 1024,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.Name != "brief.pdf" || d.Status != "draft" || d.OwnerID != "owner-a" {
		t.Fatalf("unexpected document: %+v", d)
	}
	if _, err := f.documentSvc.Create(ctx, "owner-a", ports.DocumentInput{Name: "other.pdf", ProjectID: p2.ID}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	inP1, err := f.documentSvc.ListByProject(ctx, "owner-a", p1.ID)
	if err != nil || len(inP1) != 1 || inP1[0].ID != d.ID {
		t.Fatalf("expected one document in p1, got %v err=%v", inP1, err)
	}
	all, err := f.documentSvc.ListByProject(ctx, "owner-a", "")
	if err != nil || len(all) != 2 {
		t.Fatalf("expected two documents overall, got %d err=%v", len(all), err)
	}
}

func TestDocumentService_Validation(t *testing.T) {
	f := newEntityFixture()
	ctx := context.Background()
	c := f.mustClient(t, "owner-a", "a@x.com")
	p, _, _ := f.projectSvc.Create(ctx, "owner-a", ports.ProjectInput{Name: "P1", ClientID: c.ID}, "")

	for i, in := range []ports.DocumentInput{
		{ProjectID: p.ID},
		{Name: "x.pdf"},
		{Name: "x.pdf", ProjectID: p.ID, SizeInBytes: -1},
	} {
		if _, err := f.documentSvc.Create(ctx, "owner-a", in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
	if _, err := f.documentSvc.Create(ctx, "owner-a", ports.DocumentInput{Name: "x.pdf", ProjectID: "missing"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown project, got %v", err)
	}
}

func TestDocumentService_DeleteIsOwnerScoped(t *testing.T) {
	f := newEntityFixture()
	ctx := context.Background()
	c := f.mustClient(t, "owner-a", "a@x.com")
	p, _, _ := f.projectSvc.Create(ctx, "owner-a", ports.ProjectInput{Name: "P1", ClientID: c.ID}, "")
	d, _ := f.documentSvc.Create(ctx, "owner-a", ports.DocumentInput{Name: "x.pdf", ProjectID: p.ID})

	if err := f.documentSvc.Delete(ctx, d.ID, "owner-b"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
	if err := f.documentSvc.Delete(ctx, d.ID, "owner-a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.documentSvc.Delete(ctx, d.ID, "owner-a"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	got := f.activity.actions()
	if got[len(got)-1] != domain.ActionDocumentDeleted {
		t.Fatalf("expected a document deleted activity, got %v", got)
	}
}
