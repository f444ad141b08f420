// File: database/repository/replica/slots.go
package replicaRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *mongoReplicaRepo) MarkSlotBooked(ctx context.Context, psychologistID, slotID, sessionID string) (bool, error) {
	filter := bson.M{
		"id": psychologistID,
		"availability": bson.M{"$elemMatch": bson.M{
			"id":          slotID,
			"isAvailable": true,
		}},
	}
	update := bson.M{"$set": bson.M{
		"availability.$[slot].isAvailable": false,
		"availability.$[slot].sessionId":   sessionID,
		"updatedAt":                        time.Now().UTC(),
	}}
	arrayFilters := options.ArrayFilters{Filters: []interface{}{
		bson.M{"slot.id": slotID},
	}}
	return r.updateOne(ctx, filter, update, arrayFilters)
}

func (r *mongoReplicaRepo) MarkSlotReleased(ctx context.Context, psychologistID, slotID, sessionID string) (bool, error) {
	filter := bson.M{
		"id": psychologistID,
		"availability": bson.M{"$elemMatch": bson.M{
			"id":          slotID,
			"isAvailable": false,
			"sessionId":   sessionID,
		}},
	}
	update := bson.M{"$set": bson.M{
		"availability.$[slot].isAvailable": true,
		"availability.$[slot].sessionId":   "",
		"updatedAt":                        time.Now().UTC(),
	}}
	arrayFilters := options.ArrayFilters{Filters: []interface{}{
		bson.M{"slot.id": slotID},
	}}
	return r.updateOne(ctx, filter, update, arrayFilters)
}

func (r *mongoReplicaRepo) MoveSlot(ctx context.Context, psychologistID, oldSlotID, newSlotID, sessionID string) (bool, error) {
	filter := bson.M{
		"id": psychologistID,
		"availability": bson.M{"$all": bson.A{
			bson.M{"$elemMatch": bson.M{"id": oldSlotID, "isAvailable": false, "sessionId": sessionID}},
			bson.M{"$elemMatch": bson.M{"id": newSlotID, "isAvailable": true}},
		}},
	}
	update := bson.M{"$set": bson.M{
		"availability.$[old].isAvailable": true,
		"availability.$[old].sessionId":   "",
		"availability.$[new].isAvailable": false,
		"availability.$[new].sessionId":   sessionID,
		"updatedAt":                       time.Now().UTC(),
	}}
	arrayFilters := options.ArrayFilters{Filters: []interface{}{
		bson.M{"old.id": oldSlotID},
		bson.M{"new.id": newSlotID},
	}}
	return r.updateOne(ctx, filter, update, arrayFilters)
}

func (r *mongoReplicaRepo) updateOne(ctx context.Context, filter, update bson.M, arrayFilters options.ArrayFilters) (bool, error) {
	res, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetArrayFilters(arrayFilters))
	if err != nil {
		return false, fmt.Errorf("replica update failed: %w", err)
	}
	return res.ModifiedCount == 1, nil
}
