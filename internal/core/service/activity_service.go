package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/legalvibes/practice-api/internal/api/metrics"
	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 200
)

type activityService struct {
	repo ports.ActivityRepository
	log  zerolog.Logger
}

// NewActivityService returns an ActivityService implementation.
func NewActivityService(repo ports.ActivityRepository, log zerolog.Logger) ports.ActivityService {
	return &activityService{repo: repo, log: log}
}

// Process persists a single dispatched entry.
func (s *activityService) Process(ctx context.Context, a domain.Activity) error {
	start := time.Now()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.At.IsZero() {
		a.At = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, &a); err != nil {
		metrics.ActivityPersistDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("persist activity: %w", err)
	}
	metrics.ActivityPersistDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	s.log.Debug().
		Str("user_id", a.OwnerID).
		Str("action", string(a.Action)).
		Str("entity_id", a.EntityID).
		Msg("activity recorded")
	return nil
}

// Recent returns the newest entries of ownerID's trail. limit is clamped to
// [1, MaxActivityLimit] and defaults to DefaultActivityLimit.
func (s *activityService) Recent(ctx context.Context, ownerID string, limit int) ([]*domain.Activity, error) {
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}
	items, err := s.repo.Recent(ctx, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return items, nil
}
