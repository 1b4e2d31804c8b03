package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

const collectionDocuments = "documents"

// DocumentRepository implements ports.DocumentStore using MongoDB.
type DocumentRepository struct {
	*OwnedCollection[*domain.Document]
}

func NewDocumentRepository(db *mongo.Database) *DocumentRepository {
	return &DocumentRepository{newOwnedCollection[*domain.Document](db, collectionDocuments)}
}

func (r *DocumentRepository) CountByProject(ctx context.Context, ownerID, projectID string) (int64, error) {
	return r.count(ctx, bson.M{"owner_id": ownerID, "project_id": projectID})
}

func (r *DocumentRepository) ListByProject(ctx context.Context, ownerID, projectID string) ([]*domain.Document, error) {
	return r.find(ctx, bson.M{"owner_id": ownerID, "project_id": projectID})
}

// EnsureIndexes creates the indexes the owner-scoped queries rely on.
func (r *DocumentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "project_id", Value: 1}},
	})
	return err
}
