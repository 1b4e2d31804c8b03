package ports

import (
	"context"
	"time"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

// ClientInput carries the writable client fields.
type ClientInput struct {
	Name        string
	Email       string
	PhoneNumber string
	CompanyName string
	Address     string
}

type ClientService interface {
	List(ctx context.Context, ownerID string) ([]*domain.Client, error)
	Get(ctx context.Context, id, ownerID string) (*domain.Client, error)
	// Create returns replayed=true when idempotencyKey matched an earlier create.
	Create(ctx context.Context, ownerID string, in ClientInput, idempotencyKey string) (c *domain.Client, replayed bool, err error)
	Update(ctx context.Context, id, ownerID string, in ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// ProjectInput carries the writable project fields.
type ProjectInput struct {
	Name                  string
	Description           string
	Type                  domain.ProjectType
	Status                domain.ProjectStatus
	DueDate               *time.Time
	ReferenceNumber       string
	ClientID              string
	TrademarkName         string
	TrademarkDescription  string
	GoodsAndServices      string
	SpecialConsiderations string
}

type ProjectService interface {
	List(ctx context.Context, ownerID, search string) ([]*domain.Project, error)
	Get(ctx context.Context, id, ownerID string) (*domain.ProjectDetail, error)
	Create(ctx context.Context, ownerID string, in ProjectInput, idempotencyKey string) (p *domain.Project, replayed bool, err error)
	Update(ctx context.Context, id, ownerID string, in ProjectInput) (*domain.Project, error)
	UpdateStatus(ctx context.Context, id, ownerID string, status domain.ProjectStatus) (*domain.Project, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// DocumentInput carries document metadata.
type DocumentInput struct {
	Name          string
	Description   string
	Type          string
	ContentType   string
	StoragePath   string
	SizeInBytes   int64
	ProjectID     string
	IsAIGenerated bool
}

type DocumentService interface {
	ListByProject(ctx context.Context, ownerID, projectID string) ([]*domain.Document, error)
	Create(ctx context.Context, ownerID string, in DocumentInput) (*domain.Document, error)
	Delete(ctx context.Context, id, ownerID string) error
}
