// FILE: database/repository/session/indexes.go
package sessionRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the sessions collection.
// The idempotency key index is what makes concurrent duplicate Inserts collide.
func (r *mongoSessionRepo) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "idempotencyKey", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_idempotency_key"),
		},
		{
			Keys:    bson.D{{Key: "psychologistId", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetName("psychologist_start_idx"),
		},
		{
			Keys:    bson.D{{Key: "patientId", Value: 1}},
			Options: options.Index().SetName("patient_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}
	return nil
}
