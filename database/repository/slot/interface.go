// File: database/repository/slot/interface.go
package slotRepo

import (
	"context"
	"time"

	"psibooking/database"
	"psibooking/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SlotRepository is the authoritative slot ledger. Lookups return (nil, nil)
// when nothing matches.
type SlotRepository interface {
	FindByID(ctx context.Context, slotID string) (*models.AvailabilitySlot, error)
	FindByPsychologistAndTimeRange(ctx context.Context, psychologistID string, start, end time.Time) (*models.AvailabilitySlot, error)
	FindByPsychologistAndDateRange(ctx context.Context, psychologistID string, from, to time.Time) ([]models.AvailabilitySlot, error)
	// CreateMany inserts slots that do not exist yet and returns how many were new.
	CreateMany(ctx context.Context, slots []models.AvailabilitySlot) (int, error)
	// CompareAndSwapStatus moves a slot from expected to next in one conditional
	// write. expectedSessionID, when set, must also match. It reports whether the
	// swap happened.
	CompareAndSwapStatus(ctx context.Context, slotID string, expected models.SlotStatus, expectedSessionID string, next models.SlotStatus, nextSessionID string) (bool, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a SlotRepository over the booking database.
func NewMongoSlotRepo() SlotRepository {
	return NewMongoSlotRepoWithDB(database.BookingDB())
}

// NewMongoSlotRepoWithDB is NewMongoSlotRepo for an explicit database.
func NewMongoSlotRepoWithDB(db *mongo.Database) SlotRepository {
	return &mongoSlotRepo{coll: db.Collection("slots")}
}
