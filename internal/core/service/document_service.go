package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/legalvibes/practice-api/internal/api/metrics"
	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

const documentStatusDraft = "draft"

// DocumentService manages document metadata. File contents are out of scope;
// StoragePath only points at them.
type DocumentService struct {
	repo      *ScopedRepository[*domain.Document]
	documents ports.DocumentStore
	projects  *ScopedRepository[*domain.Project]
	activity  ports.ActivityRecorder
	log       zerolog.Logger
}

func NewDocumentService(
	documents ports.DocumentStore,
	projects ports.ProjectStore,
	activity ports.ActivityRecorder,
	log zerolog.Logger,
) *DocumentService {
	if activity == nil {
		activity = NopRecorder{}
	}
	return &DocumentService{
		repo:      NewScopedRepository[*domain.Document](documents, "document"),
		documents: documents,
		projects:  NewScopedRepository[*domain.Project](projects, "project"),
		activity:  activity,
		log:       log,
	}
}

// ListByProject returns the documents of one of the caller's projects.
func (s *DocumentService) ListByProject(ctx context.Context, ownerID, projectID string) ([]*domain.Document, error) {
	if projectID == "" {
		return s.repo.List(ctx, ownerID)
	}
	if _, err := s.projects.Get(ctx, projectID, ownerID); err != nil {
		return nil, err
	}
	docs, err := s.documents.ListByProject(ctx, ownerID, projectID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (s *DocumentService) Create(ctx context.Context, ownerID string, in ports.DocumentInput) (*domain.Document, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return nil, domain.Validation("Document name is required")
	case in.ProjectID == "":
		return nil, domain.Validation("Project is required")
	case in.SizeInBytes < 0:
		return nil, domain.Validation("Document size cannot be negative")
	}
	if _, err := s.projects.Get(ctx, in.ProjectID, ownerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NotFound("Project not found")
		}
		return nil, err
	}

	d, err := s.repo.Create(ctx, &domain.Document{
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Type:          strings.TrimSpace(in.Type),
		Status:        documentStatusDraft,
		ContentType:   strings.TrimSpace(in.ContentType),
		StoragePath:   strings.TrimSpace(in.StoragePath),
		SizeInBytes:   in.SizeInBytes,
		ProjectID:     in.ProjectID,
		IsAIGenerated: in.IsAIGenerated,
	}, ownerID)
	if err != nil {
		return nil, err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues("document").Inc()
	s.activity.Record(domain.Activity{OwnerID: ownerID, Action: domain.ActionDocumentCreated, EntityID: d.ID, At: d.CreatedAt})
	s.log.Info().Str("document_id", d.ID).Str("project_id", d.ProjectID).Msg("document created")
	return d, nil
}

func (s *DocumentService) Delete(ctx context.Context, id, ownerID string) error {
	if err := s.repo.Delete(ctx, id, ownerID, nil); err != nil {
		return err
	}
	s.activity.Record(domain.Activity{OwnerID: ownerID, Action: domain.ActionDocumentDeleted, EntityID: id, At: s.repo.now().UTC()})
	s.log.Info().Str("document_id", id).Str("user_id", ownerID).Msg("document deleted")
	return nil
}
