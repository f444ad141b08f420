// File: database/repository/session/interface.go
package sessionRepo

import (
	"context"
	"errors"
	"time"

	"psibooking/database"
	"psibooking/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateIdempotencyKey is returned by Insert when the key is already taken.
var ErrDuplicateIdempotencyKey = errors.New("session with this idempotency key already exists")

// SessionRepository persists sessions. Lookups return (nil, nil) when nothing matches.
type SessionRepository interface {
	FindByID(ctx context.Context, sessionID string) (*models.Session, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Session, error)
	Insert(ctx context.Context, session *models.Session) error
	// UpdateStatus applies expected -> next, stamping updatedAt with at, and
	// reports whether it matched.
	UpdateStatus(ctx context.Context, sessionID string, expected, next models.SessionStatus, at time.Time) (bool, error)
	// UpdateTimes moves a BOOKED session whose range is still [oldStart, oldEnd).
	UpdateTimes(ctx context.Context, sessionID string, oldStart, oldEnd, newStart, newEnd, at time.Time) (bool, error)
	Delete(ctx context.Context, sessionID string) error
	EnsureIndexes(ctx context.Context) error
}

type mongoSessionRepo struct {
	coll *mongo.Collection
}

// NewMongoSessionRepo constructs a SessionRepository over the booking database.
func NewMongoSessionRepo() SessionRepository {
	return &mongoSessionRepo{coll: database.BookingDB().Collection("sessions")}
}
