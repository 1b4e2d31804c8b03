package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

// OwnedCollection implements ports.OwnedStore for any owned entity. Every
// query carries an owner_id filter.
type OwnedCollection[T domain.Owned] struct {
	col *mongo.Collection
}

func newOwnedCollection[T domain.Owned](db *mongo.Database, name string) *OwnedCollection[T] {
	return &OwnedCollection[T]{col: db.Collection(name)}
}

func ownedFilter(id, ownerID string) bson.M {
	return bson.M{"_id": id, "owner_id": ownerID}
}

func (c *OwnedCollection[T]) ListByOwner(ctx context.Context, ownerID string) ([]T, error) {
	return c.find(ctx, bson.M{"owner_id": ownerID})
}

func (c *OwnedCollection[T]) FindOwned(ctx context.Context, id, ownerID string) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var item T
	if err := c.col.FindOne(ctx, ownedFilter(id, ownerID)).Decode(&item); err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, domain.ErrNotFound
		}
		return zero, fmt.Errorf("find %s: %w", c.col.Name(), err)
	}
	return item, nil
}

func (c *OwnedCollection[T]) Insert(ctx context.Context, entity T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := c.col.InsertOne(ctx, entity); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.Conflict("%s already exists", c.col.Name())
		}
		return fmt.Errorf("insert %s: %w", c.col.Name(), err)
	}
	return nil
}

// Update replaces the stored document. The owner filter makes a foreign id a
// no-op reported as NotFound.
func (c *OwnedCollection[T]) Update(ctx context.Context, entity T) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := c.col.ReplaceOne(ctx, ownedFilter(entity.GetID(), entity.GetOwnerID()), entity)
	if err != nil {
		return fmt.Errorf("update %s: %w", c.col.Name(), err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *OwnedCollection[T]) Delete(ctx context.Context, id, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := c.col.DeleteOne(ctx, ownedFilter(id, ownerID))
	if err != nil {
		return fmt.Errorf("delete %s: %w", c.col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// find returns matches newest first.
func (c *OwnedCollection[T]) find(ctx context.Context, filter bson.M) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := c.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.col.Name(), err)
	}
	items := make([]T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.col.Name(), err)
	}
	return items, nil
}

func (c *OwnedCollection[T]) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := c.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", c.col.Name(), err)
	}
	return n, nil
}
