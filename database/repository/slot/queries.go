// File: database/repository/slot/queries.go
package slotRepo

import (
	"context"
	"errors"
	"time"

	"psibooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoSlotRepo) FindByID(ctx context.Context, slotID string) (*models.AvailabilitySlot, error) {
	return r.findOne(ctx, bson.M{"id": slotID})
}

func (r *mongoSlotRepo) FindByPsychologistAndTimeRange(ctx context.Context, psychologistID string, start, end time.Time) (*models.AvailabilitySlot, error) {
	return r.findOne(ctx, bson.M{
		"psychologistId": psychologistID,
		"startTime":      start,
		"endTime":        end,
	})
}

// FindByPsychologistAndDateRange returns slots starting within [from, to], ordered by start.
func (r *mongoSlotRepo) FindByPsychologistAndDateRange(ctx context.Context, psychologistID string, from, to time.Time) ([]models.AvailabilitySlot, error) {
	filter := bson.M{
		"psychologistId": psychologistID,
		"startTime":      bson.M{"$gte": from, "$lte": to},
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var slots []models.AvailabilitySlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *mongoSlotRepo) findOne(ctx context.Context, filter bson.M) (*models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	err := r.coll.FindOne(ctx, filter).Decode(&slot)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
