package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

const collectionActivity = "activity"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	col *mongo.Collection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{col: db.Collection(collectionActivity)}
}

var _ ports.ActivityRepository = (*ActivityRepository)(nil)

// Insert persists one audit entry.
func (r *ActivityRepository) Insert(ctx context.Context, a *domain.Activity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Recent returns ownerID's newest entries, at most limit of them.
func (r *ActivityRepository) Recent(ctx context.Context, ownerID string, limit int) ([]*domain.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.col.Find(ctx, bson.M{"owner_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	items := make([]*domain.Activity, 0, limit)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}
	return items, nil
}

// EnsureIndexes creates the owner/time index used by Recent.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "at", Value: -1}},
	})
	return err
}
