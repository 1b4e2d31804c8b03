package ports

import (
	"context"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

// ActivityRecorder accepts audit entries without blocking the caller.
type ActivityRecorder interface {
	Record(a domain.Activity)
}

// ActivityRepository persists and reads the audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, a *domain.Activity) error
	Recent(ctx context.Context, ownerID string, limit int) ([]*domain.Activity, error)
}

// ActivityService stores dispatched entries and serves an identity's trail.
type ActivityService interface {
	Process(ctx context.Context, a domain.Activity) error
	Recent(ctx context.Context, ownerID string, limit int) ([]*domain.Activity, error)
}
