package mongo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/legalvibes/practice-api/internal/core/domain"
)

const collectionProjects = "projects"

// searchFields are matched case-insensitively by Search.
var searchFields = []string{"name", "description", "reference_number", "trademark_name"}

// ProjectRepository implements ports.ProjectStore using MongoDB.
type ProjectRepository struct {
	*OwnedCollection[*domain.Project]
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{newOwnedCollection[*domain.Project](db, collectionProjects)}
}

func (r *ProjectRepository) CountActiveByClient(ctx context.Context, ownerID, clientID string) (int64, error) {
	return r.count(ctx, bson.M{
		"owner_id":  ownerID,
		"client_id": clientID,
		"status":    bson.M{"$ne": string(domain.ProjectArchived)},
	})
}

func (r *ProjectRepository) Search(ctx context.Context, ownerID, term string) ([]*domain.Project, error) {
	return r.find(ctx, searchFilter(ownerID, term))
}

// searchFilter matches term literally, ignoring case, in any searchFields
// entry of ownerID's projects.
func searchFilter(ownerID, term string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, 0, len(searchFields))
	for _, f := range searchFields {
		or = append(or, bson.M{f: pattern})
	}
	return bson.M{"owner_id": ownerID, "$or": or}
}

// EnsureIndexes creates the indexes the owner-scoped queries rely on.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "client_id", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
