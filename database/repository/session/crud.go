// File: database/repository/session/crud.go
package sessionRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"psibooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (r *mongoSessionRepo) FindByID(ctx context.Context, sessionID string) (*models.Session, error) {
	return r.findOne(ctx, bson.M{"id": sessionID})
}

func (r *mongoSessionRepo) FindByIdempotencyKey(ctx context.Context, key string) (*models.Session, error) {
	return r.findOne(ctx, bson.M{"idempotencyKey": key})
}

func (r *mongoSessionRepo) findOne(ctx context.Context, filter bson.M) (*models.Session, error) {
	var s models.Session
	err := r.coll.FindOne(ctx, filter).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *mongoSessionRepo) Insert(ctx context.Context, session *models.Session) error {
	if _, err := r.coll.InsertOne(ctx, session); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *mongoSessionRepo) UpdateStatus(ctx context.Context, sessionID string, expected, next models.SessionStatus, at time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": sessionID, "status": expected},
		bson.M{"$set": bson.M{"status": next, "updatedAt": at}},
	)
	if err != nil {
		return false, fmt.Errorf("session %s transition %s->%s: %w", sessionID, expected, next, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoSessionRepo) UpdateTimes(ctx context.Context, sessionID string, oldStart, oldEnd, newStart, newEnd, at time.Time) (bool, error) {
	filter := bson.M{
		"id":        sessionID,
		"status":    models.SessionStatusBooked,
		"startTime": oldStart,
		"endTime":   oldEnd,
	}
	update := bson.M{"$set": bson.M{
		"startTime": newStart,
		"endTime":   newEnd,
		"updatedAt": at,
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to move session %s: %w", sessionID, err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *mongoSessionRepo) Delete(ctx context.Context, sessionID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"id": sessionID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
