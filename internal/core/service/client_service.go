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

const idempotencyScopeClient = "client"

// ClientService manages the caller's clients. Deleting a client deactivates
// it; inactive clients are invisible to every read.
type ClientService struct {
	repo        *ScopedRepository[*domain.Client]
	clients     ports.ClientStore
	projects    ports.ProjectStore
	idempotency ports.IdempotencyStore
	activity    ports.ActivityRecorder
	log         zerolog.Logger
}

func NewClientService(
	clients ports.ClientStore,
	projects ports.ProjectStore,
	idempotency ports.IdempotencyStore,
	activity ports.ActivityRecorder,
	log zerolog.Logger,
) *ClientService {
	if activity == nil {
		activity = NopRecorder{}
	}
	return &ClientService{
		repo:        NewScopedRepository[*domain.Client](clients, "client"),
		clients:     clients,
		projects:    projects,
		idempotency: idempotency,
		activity:    activity,
		log:         log,
	}
}

func (s *ClientService) List(ctx context.Context, ownerID string) ([]*domain.Client, error) {
	all, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	active := make([]*domain.Client, 0, len(all))
	for _, c := range all {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

func (s *ClientService) Get(ctx context.Context, id, ownerID string) (*domain.Client, error) {
	c, err := s.repo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, domain.NotFound("Client not found")
	}
	return c, nil
}

// Create inserts a client. A non-empty idempotencyKey makes retries replay
// the first client instead of inserting again; replayed reports that case.
func (s *ClientService) Create(ctx context.Context, ownerID string, in ports.ClientInput, idempotencyKey string) (*domain.Client, bool, error) {
	return idempotentCreate(ctx, s.idempotency, s.log, ownerID, idempotencyScopeClient, idempotencyKey,
		func(ctx context.Context, id string) (*domain.Client, error) { return s.Get(ctx, id, ownerID) },
		func() (*domain.Client, error) { return s.create(ctx, ownerID, in) },
	)
}

func (s *ClientService) create(ctx context.Context, ownerID string, in ports.ClientInput) (*domain.Client, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	switch {
	case name == "":
		return nil, domain.Validation("Client name is required")
	case email == "":
		return nil, domain.Validation("Client email is required")
	case !strings.Contains(email, "@"):
		return nil, domain.Validation("Please enter a valid email address")
	}
	if err := s.ensureEmailFree(ctx, ownerID, email, ""); err != nil {
		return nil, err
	}

	c, err := s.repo.Create(ctx, &domain.Client{
		Name:        name,
		Email:       email,
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		CompanyName: strings.TrimSpace(in.CompanyName),
		Address:     strings.TrimSpace(in.Address),
		IsActive:    true,
	}, ownerID)
	if err != nil {
		return nil, err
	}

	metrics.EntitiesCreatedTotal.WithLabelValues("client").Inc()
	s.activity.Record(domain.Activity{OwnerID: ownerID, Action: domain.ActionClientCreated, EntityID: c.ID, At: c.CreatedAt})
	s.log.Info().Str("client_id", c.ID).Str("user_id", ownerID).Msg("client created")
	return c, nil
}

// Update applies the non-empty fields of in.
func (s *ClientService) Update(ctx context.Context, id, ownerID string, in ports.ClientInput) (*domain.Client, error) {
	email := domain.NormalizeEmail(in.Email)
	if email != "" && !strings.Contains(email, "@") {
		return nil, domain.Validation("Please enter a valid email address")
	}

	c, err := s.repo.Update(ctx, id, ownerID, func(c *domain.Client) error {
		if !c.IsActive {
			return domain.NotFound("Client not found")
		}
		if email != "" && email != c.Email {
			if err := s.ensureEmailFree(ctx, ownerID, email, c.ID); err != nil {
				return err
			}
			c.Email = email
		}
		setIfPresent(&c.Name, in.Name)
		setIfPresent(&c.PhoneNumber, in.PhoneNumber)
		setIfPresent(&c.CompanyName, in.CompanyName)
		setIfPresent(&c.Address, in.Address)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(domain.Activity{OwnerID: ownerID, Action: domain.ActionClientUpdated, EntityID: c.ID, At: *c.LastModifiedAt})
	s.log.Info().Str("client_id", c.ID).Str("user_id", ownerID).Msg("client updated")
	return c, nil
}

// Delete deactivates the client. It is refused while the client has projects
// that are not archived.
func (s *ClientService) Delete(ctx context.Context, id, ownerID string) error {
	c, err := s.repo.Update(ctx, id, ownerID, func(c *domain.Client) error {
		if !c.IsActive {
			return domain.NotFound("Client not found")
		}
		active, err := s.projects.CountActiveByClient(ctx, ownerID, c.ID)
		if err != nil {
			return fmt.Errorf("count projects: %w", err)
		}
		if active > 0 {
			s.log.Warn().Str("client_id", c.ID).Int64("active_projects", active).Msg("client delete blocked")
			return domain.Conflict("Cannot delete client with active projects. Please archive or reassign projects first.")
		}
		c.IsActive = false
		return nil
	})
	if err != nil {
		return err
	}

	s.activity.Record(domain.Activity{OwnerID: ownerID, Action: domain.ActionClientDeleted, EntityID: c.ID, At: *c.LastModifiedAt})
	s.log.Info().Str("client_id", c.ID).Str("user_id", ownerID).Msg("client deactivated")
	return nil
}

func (s *ClientService) ensureEmailFree(ctx context.Context, ownerID, email, selfID string) error {
	existing, err := s.clients.FindActiveByEmail(ctx, ownerID, email)
	switch {
	case err == nil && existing.ID != selfID:
		return domain.Conflict("A client with this email already exists")
	case err != nil && !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("check client email: %w", err)
	}
	return nil
}

func setIfPresent(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
