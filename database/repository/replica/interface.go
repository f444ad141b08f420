// File: database/repository/replica/interface.go
package replicaRepo

import (
	"context"

	"psibooking/database"
	"psibooking/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ReplicaRepository is the search-side document store. Every slot mutation is
// a single conditional update on one document, addressed by slot id.
type ReplicaRepository interface {
	FindByID(ctx context.Context, psychologistID string) (*models.PsychologistSearchModel, error)
	Search(ctx context.Context, criteria models.PsychologistSearchCriteria) ([]models.PsychologistSearchModel, int64, error)
	// Replace writes a whole document; only the indexer uses it.
	Replace(ctx context.Context, doc *models.PsychologistSearchModel) error

	// MarkSlotBooked reserves slotID for sessionID if it is currently available.
	MarkSlotBooked(ctx context.Context, psychologistID, slotID, sessionID string) (bool, error)
	// MarkSlotReleased frees slotID if it is currently held by sessionID.
	MarkSlotReleased(ctx context.Context, psychologistID, slotID, sessionID string) (bool, error)
	// MoveSlot releases oldSlotID and reserves newSlotID for sessionID in one
	// update. It matches only if the old slot is held by sessionID and the new
	// slot is available.
	MoveSlot(ctx context.Context, psychologistID, oldSlotID, newSlotID, sessionID string) (bool, error)

	EnsureIndexes(ctx context.Context) error
}

type mongoReplicaRepo struct {
	coll *mongo.Collection
}

// NewMongoReplicaRepo constructs a ReplicaRepository over the search database.
func NewMongoReplicaRepo() ReplicaRepository {
	return &mongoReplicaRepo{coll: database.SearchDB().Collection("psychologists")}
}
