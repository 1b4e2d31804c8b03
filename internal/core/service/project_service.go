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

const idempotencyScopeProject = "project"

// ProjectService manages the caller's projects. A project's client must
// belong to the same owner; deletion is refused while documents reference it.
type ProjectService struct {
	repo        *ScopedRepository[*domain.Project]
	projects    ports.ProjectStore
	clients     *ScopedRepository[*domain.Client]
	documents   ports.DocumentStore
	idempotency ports.IdempotencyStore
	activity    ports.ActivityRecorder
	log         zerolog.Logger
}

func NewProjectService(
	projects ports.ProjectStore,
	clients ports.ClientStore,
	documents ports.DocumentStore,
	idempotency ports.IdempotencyStore,
	activity ports.ActivityRecorder,
	log zerolog.Logger,
) *ProjectService {
	if activity == nil {
		activity = NopRecorder{}
	}
	return &ProjectService{
		repo:        NewScopedRepository[*domain.Project](projects, "project"),
		projects:    projects,
		clients:     NewScopedRepository[*domain.Client](clients, "client"),
		documents:   documents,
		idempotency: idempotency,
		activity:    activity,
		log:         log,
	}
}

// List returns the caller's projects, narrowed by search when it is non-empty.
func (s *ProjectService) List(ctx context.Context, ownerID, search string) ([]*domain.Project, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return s.repo.List(ctx, ownerID)
	}
	projects, err := s.projects.Search(ctx, ownerID, search)
	if err != nil {
		return nil, fmt.Errorf("search projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, id, ownerID string) (*domain.ProjectDetail, error) {
	p, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	detail := &domain.ProjectDetail{Project: p}
	c, err := s.clients.Get(ctx, p.ClientID, ownerID)
	switch {
	case err == nil && c.IsActive:
		detail.Client = c
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return detail, nil
}

// Create inserts a project under one of the caller's clients. Retries with
// the same idempotencyKey replay the first project.
func (s *ProjectService) Create(ctx context.Context, ownerID string, in ports.ProjectInput, idempotencyKey string) (*domain.Project, bool, error) {
	return idempotentCreate(ctx, s.idempotency, s.log, ownerID, idempotencyScopeProject, idempotencyKey,
		func(ctx context.Context, id string) (*domain.Project, error) { return s.repo.Get(ctx, id, ownerID) },
		func() (*domain.Project, error) { return s.create(ctx, ownerID, in) },
	)
}

func (s *ProjectService) create(ctx context.Context, ownerID string, in ports.ProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateProjectName(name, true); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.ClientID) == "" {
		return nil, domain.Validation("Client is required")
	}
	projectType := in.Type
	if projectType == "" {
		projectType = domain.ProjectOther
	}
	if !projectType.Valid() {
		return nil, domain.Validation("Invalid project type %q", in.Type)
	}
	status := in.Status
	if status == "" {
		status = domain.ProjectDraft
	}
	if !status.Valid() {
		return nil, domain.Validation("Invalid project status %q", in.Status)
	}
	if err := s.ensureClient(ctx, in.ClientID, ownerID); err != nil {
		return nil, err
	}

	p, err := s.repo.Create(ctx, &domain.Project{
		Name:                  name,
		Description:           strings.TrimSpace(in.Description),
		Type:                  projectType,
		Status:                status,
		DueDate:               in.DueDate,
		ReferenceNumber:       strings.TrimSpace(in.ReferenceNumber),
		ClientID:              in.ClientID,
		TrademarkName:         strings.TrimSpace(in.TrademarkName),
		TrademarkDescription:  strings.TrimSpace(in.TrademarkDescription),
		GoodsAndServices:      strings.TrimSpace(in.GoodsAndServices),
		SpecialConsiderations: strings.TrimSpace(in.SpecialConsiderations),
	}, ownerID)
	if err != nil {
		return nil, err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues("project").Inc()
	s.activity.Record(domain.Activity{OwnerID: ownerID, Action: domain.ActionProjectCreated, EntityID: p.ID, At: p.CreatedAt})
	s.log.Info().Str("project_id", p.ID).Str("client_id", p.ClientID).Str("user_id", ownerID).Msg("project created")
	return p, nil
}

// Update applies the non-empty fields of in. Moving the project to another
// client requires that client to be owned by the caller as well.
func (s *ProjectService) Update(ctx context.Context, id, ownerID string, in ports.ProjectInput) (*domain.Project, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateProjectName(name, false); err != nil {
		return nil, err
	}
	if in.Type != "" && !in.Type.Valid() {
		return nil, domain.Validation("Invalid project type %q", in.Type)
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, domain.Validation("Invalid project status %q", in.Status)
	}

	p, err := s.repo.Update(ctx, id, ownerID, func(p *domain.Project) error {
		if in.ClientID != "" && in.ClientID != p.ClientID {
			if err := s.ensureClient(ctx, in.ClientID, ownerID); err != nil {
				return err
			}
			p.ClientID = in.ClientID
		}
		if name != "" {
			p.Name = name
		}
		if in.Type != "" {
			p.Type = in.Type
		}
		if in.Status != "" {
			p.Status = in.Status
		}
		if in.DueDate != nil {
			p.DueDate = in.DueDate
		}
		setIfPresent(&p.Description, in.Description)
		setIfPresent(&p.ReferenceNumber, in.ReferenceNumber)
		setIfPresent(&p.TrademarkName, in.TrademarkName)
		setIfPresent(&p.TrademarkDescription, in.TrademarkDescription)
		setIfPresent(&p.GoodsAndServices, in.GoodsAndServices)
		setIfPresent(&p.SpecialConsiderations, in.SpecialConsiderations)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(domain.Activity{OwnerID: ownerID, Action: domain.ActionProjectUpdated, EntityID: p.ID, At: *p.LastModifiedAt})
	s.log.Info().Str("project_id", p.ID).Str("user_id", ownerID).Msg("project updated")
	return p, nil
}

func (s *ProjectService) UpdateStatus(ctx context.Context, id, ownerID string, status domain.ProjectStatus) (*domain.Project, error) {
	if !status.Valid() {
		return nil, domain.Validation("Invalid project status %q", status)
	}
	p, err := s.repo.Update(ctx, id, ownerID, func(p *domain.Project) error {
		p.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(domain.Activity{OwnerID: ownerID, Action: domain.ActionProjectUpdated, EntityID: p.ID, At: *p.LastModifiedAt})
	s.log.Info().Str("project_id", p.ID).Str("status", string(status)).Msg("project status updated")
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, id, ownerID string) error {
	err := s.repo.Delete(ctx, id, ownerID, func(ctx context.Context, p *domain.Project) error {
		n, err := s.documents.CountByProject(ctx, ownerID, p.ID)
		if err != nil {
			return fmt.Errorf("count documents: %w", err)
		}
		if n > 0 {
			s.log.Warn().Str("project_id", p.ID).Int64("documents", n).Msg("project delete blocked")
			return domain.Conflict("Cannot delete project with existing documents. Please delete documents first.")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.activity.Record(domain.Activity{OwnerID: ownerID, Action: domain.ActionProjectDeleted, EntityID: id, At: s.repo.now().UTC()})
	s.log.Info().Str("project_id", id).Str("user_id", ownerID).Msg("project deleted")
	return nil
}

// ensureClient fails with NotFound unless clientID is an active client of ownerID.
func (s *ProjectService) ensureClient(ctx context.Context, clientID, ownerID string) error {
	c, err := s.clients.Get(ctx, clientID, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Str("client_id", clientID).Str("user_id", ownerID).Msg("project references foreign or missing client")
			return domain.NotFound("Client not found")
		}
		return err
	}
	if !c.IsActive {
		return domain.NotFound("Client not found")
	}
	return nil
}

// validateProjectName checks the length bounds. An empty name is only an
// error when required is set.
func validateProjectName(name string, required bool) error {
	n := len([]rune(name))
	switch {
	case n == 0 && required:
		return domain.Validation("Project name is required")
	case n == 0:
		return nil
	case n < domain.ProjectNameMin:
		return domain.Validation("Project name must be at least 2 characters long")
	case n > domain.ProjectNameMax:
		return domain.Validation("Project name cannot exceed 200 characters")
	}
	return nil
}
