// internal/interface/repository/run_repo.go
package repository

import (
	"context"
	"fmt"

	"inboxpert-service/internal/domain/entity"
	"inboxpert-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const runCollection = "categorizationRuns"

// MongoRunRepository implements the RunRepository interface
type MongoRunRepository struct {
	collection *mongo.Collection
}

// NewMongoRunRepository creates the run log repository and its indexes
func NewMongoRunRepository(ctx context.Context, db *mongo.Database) (repository.RunRepository, error) {
	collection := db.Collection(runCollection)

	runIDIndex := mongo.IndexModel{
		Keys:    bson.M{"runId": 1},
		Options: options.Index().SetUnique(true),
	}

	// Recent runs are listed newest first
	startedAtIndex := mongo.IndexModel{
		Keys: bson.M{"startedAt": -1},
	}

	statusIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "startedAt", Value: -1},
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		runIDIndex,
		startedAtIndex,
		statusIndex,
	}); err != nil {
		return nil, fmt.Errorf("failed to create run indexes: %w", err)
	}

	return &MongoRunRepository{
		collection: collection,
	}, nil
}

// Save inserts a run record
func (r *MongoRunRepository) Save(ctx context.Context, run *entity.CategorizationRun) error {
	if _, err := r.collection.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.RunID, err)
	}
	return nil
}

// FindRecent returns up to limit runs, most recent first
func (r *MongoRunRepository) FindRecent(ctx context.Context, limit int) ([]*entity.CategorizationRun, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "startedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find runs: %w", err)
	}
	defer cursor.Close(ctx)

	runs := make([]*entity.CategorizationRun, 0, limit)
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("failed to decode runs: %w", err)
	}

	return runs, nil
}
