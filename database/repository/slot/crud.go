// File: database/repository/slot/crud.go
package slotRepo

import (
	"context"
	"fmt"
	"time"

	"psibooking/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateMany upserts on the natural key so re-running a materialization
// window never duplicates or resets an existing slot.
func (r *mongoSlotRepo) CreateMany(ctx context.Context, slots []models.AvailabilitySlot) (int, error) {
	if len(slots) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(slots))
	for _, slot := range slots {
		if slot.ID == "" {
			slot.ID = uuid.New().String()
		}
		if slot.Status == "" {
			slot.Status = models.SlotStatusAvailable
		}
		slot.CreatedAt, slot.UpdatedAt = now, now

		filter := bson.M{
			"psychologistId": slot.PsychologistID,
			"startTime":      slot.StartTime,
			"endTime":        slot.EndTime,
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(filter).
			SetUpdate(bson.M{"$setOnInsert": slot}).
			SetUpsert(true))
	}

	res, err := r.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("failed to create slots: %w", err)
	}
	return int(res.UpsertedCount), nil
}

func (r *mongoSlotRepo) CompareAndSwapStatus(
	ctx context.Context,
	slotID string,
	expected models.SlotStatus, expectedSessionID string,
	next models.SlotStatus, nextSessionID string,
) (bool, error) {
	filter := bson.M{"id": slotID, "status": expected}
	if expectedSessionID != "" {
		filter["sessionId"] = expectedSessionID
	}

	update := bson.M{
		"$set": bson.M{"status": next, "updatedAt": time.Now().UTC()},
	}
	if nextSessionID != "" {
		update["$set"].(bson.M)["sessionId"] = nextSessionID
	} else {
		update["$unset"] = bson.M{"sessionId": ""}
	}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("slot %s transition %s->%s: %w", slotID, expected, next, err)
	}
	return res.ModifiedCount == 1, nil
}
