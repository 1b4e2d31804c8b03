package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

const collectionClients = "clients"

// ClientRepository implements ports.ClientStore using MongoDB.
type ClientRepository struct {
	*OwnedCollection[*domain.Client]
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{newOwnedCollection[*domain.Client](db, collectionClients)}
}

func (r *ClientRepository) FindActiveByEmail(ctx context.Context, ownerID, email string) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"owner_id": ownerID, "email": domain.NormalizeEmail(email), "is_active": true}
	var c domain.Client
	if err := r.col.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find client by email: %w", err)
	}
	return &c, nil
}

// EnsureIndexes creates the indexes the owner-scoped queries rely on.
func (r *ClientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "email", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
