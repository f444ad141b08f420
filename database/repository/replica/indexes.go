// FILE: database/repository/replica/indexes.go
package replicaRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the replica collection.
func (r *mongoReplicaRepo) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "themes", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index().SetName("themes_active_idx"),
		},
		{
			Keys:    bson.D{{Key: "rating", Value: -1}},
			Options: options.Index().SetName("rating_idx"),
		},
		// Multikey index so event application can find a slot quickly.
		{
			Keys:    bson.D{{Key: "availability.id", Value: 1}},
			Options: options.Index().SetName("availability_id_idx"),
		},
		{
			Keys:    bson.D{{Key: "availability.startTime", Value: 1}, {Key: "availability.isAvailable", Value: 1}},
			Options: options.Index().SetName("availability_window_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create replica indexes: %w", err)
	}
	return nil
}
