package repository

import (
	"context"

	psychologistRepo "psibooking/database/repository/psychologist"
	replicaRepo "psibooking/database/repository/replica"
	sessionRepo "psibooking/database/repository/session"
	slotRepo "psibooking/database/repository/slot"
)

// Re-export the authoritative booking stores.
type SlotRepository = slotRepo.SlotRepository

var NewMongoSlotRepo = slotRepo.NewMongoSlotRepo

type SessionRepository = sessionRepo.SessionRepository

var NewMongoSessionRepo = sessionRepo.NewMongoSessionRepo

type PsychologistRepository = psychologistRepo.PsychologistRepository

var NewMongoPsychologistRepo = psychologistRepo.NewMongoPsychologistRepo

// Re-export the search replica store.
type ReplicaRepository = replicaRepo.ReplicaRepository

var NewMongoReplicaRepo = replicaRepo.NewMongoReplicaRepo

// Indexed is implemented by every store that owns Mongo indexes.
type Indexed interface {
	EnsureIndexes(ctx context.Context) error
}
