package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	replicaRepo "psibooking/database/repository/replica"
	"psibooking/models"
	"psibooking/services/events"

	"go.uber.org/zap"
)

// Outcome describes what applying one event did to the replica.
type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeDuplicate Outcome = "duplicate" // already reflected; nothing written
	OutcomeConflict  Outcome = "conflict"  // slot owned by another session; state kept
	OutcomeMissing   Outcome = "missing"   // no document or no matching slot
	OutcomePartial   Outcome = "partial"   // reschedule applied to one side only
)

// errContention means the slot changed between the conditional write and the
// read used to classify the miss. Redelivery sorts it out.
var errContention = errors.New("replica slot changed concurrently")

// Reconciler applies session events to the search replica. Each apply is
// idempotent and tolerates redelivery and reordering; conflicts are logged and
// never overwrite existing state.
type Reconciler struct {
	Replica replicaRepo.ReplicaRepository
	Logger  *zap.Logger
}

func NewReconciler(replica replicaRepo.ReplicaRepository, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{Replica: replica, Logger: logger}
}

// Handle is the events.Handler for the consumer. Only store failures are
// returned, so only they are redelivered.
func (r *Reconciler) Handle(ctx context.Context, ev events.Event) error {
	_, err := r.Apply(ctx, ev)
	return err
}

func (r *Reconciler) Apply(ctx context.Context, ev events.Event) (Outcome, error) {
	var (
		outcome Outcome
		err     error
		fields  []zap.Field
	)
	switch e := ev.(type) {
	case events.SessionBooked:
		fields = []zap.Field{zap.String("sessionId", e.SessionID), zap.String("psychologistId", e.PsychologistID), zap.String("slotId", e.SlotID)}
		outcome, err = r.reserve(ctx, e.PsychologistID, e.SlotID, e.StartTime, e.EndTime, e.SessionID)
	case events.SessionCancelled:
		fields = []zap.Field{zap.String("sessionId", e.SessionID), zap.String("psychologistId", e.PsychologistID), zap.String("slotId", e.SlotID)}
		outcome, err = r.release(ctx, e.PsychologistID, e.SlotID, e.StartTime, e.EndTime, e.SessionID)
	case events.SessionRescheduled:
		fields = []zap.Field{zap.String("sessionId", e.SessionID), zap.String("psychologistId", e.PsychologistID),
			zap.String("oldSlotId", e.OldSlotID), zap.String("newSlotId", e.NewSlotID)}
		outcome, err = r.move(ctx, e)
	default:
		return "", fmt.Errorf("%w: unsupported event %T", events.ErrMalformedEvent, ev)
	}

	fields = append(fields, zap.String("event", ev.Tag()), zap.String("outcome", string(outcome)))
	switch {
	case err != nil:
		r.Logger.Error("replica update failed", append(fields, zap.Error(err))...)
	case outcome == OutcomeApplied:
		r.Logger.Info("replica updated", fields...)
	case outcome == OutcomeDuplicate:
		r.Logger.Debug("event already applied", fields...)
	default:
		r.Logger.Warn("replica reconciliation warning", fields...)
	}
	return outcome, err
}

// reserve marks a slot unavailable for sessionID.
func (r *Reconciler) reserve(ctx context.Context, psychologistID, slotID string, start, end time.Time, sessionID string) (Outcome, error) {
	if slotID != "" {
		ok, err := r.Replica.MarkSlotBooked(ctx, psychologistID, slotID, sessionID)
		if err != nil {
			return "", err
		}
		if ok {
			return OutcomeApplied, nil
		}
	}

	slot, outcome, err := r.locate(ctx, psychologistID, slotID, start, end)
	if err != nil || outcome != "" {
		return outcome, err
	}
	switch {
	case !slot.IsAvailable && slot.SessionID == sessionID:
		return OutcomeDuplicate, nil
	case !slot.IsAvailable:
		return OutcomeConflict, nil
	}

	ok, err := r.Replica.MarkSlotBooked(ctx, psychologistID, slot.ID, sessionID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errContention
	}
	return OutcomeApplied, nil
}

// release marks a slot held by sessionID available again.
func (r *Reconciler) release(ctx context.Context, psychologistID, slotID string, start, end time.Time, sessionID string) (Outcome, error) {
	if slotID != "" {
		ok, err := r.Replica.MarkSlotReleased(ctx, psychologistID, slotID, sessionID)
		if err != nil {
			return "", err
		}
		if ok {
			return OutcomeApplied, nil
		}
	}

	slot, outcome, err := r.locate(ctx, psychologistID, slotID, start, end)
	if err != nil || outcome != "" {
		return outcome, err
	}
	switch {
	case slot.IsAvailable:
		return OutcomeDuplicate, nil
	case slot.SessionID != sessionID:
		return OutcomeConflict, nil
	}

	ok, err := r.Replica.MarkSlotReleased(ctx, psychologistID, slot.ID, sessionID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errContention
	}
	return OutcomeApplied, nil
}

// move applies a reschedule. The common case is one atomic update of both
// slots; any other starting state is repaired side by side and reported.
func (r *Reconciler) move(ctx context.Context, e events.SessionRescheduled) (Outcome, error) {
	doc, err := r.Replica.FindByID(ctx, e.PsychologistID)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return OutcomeMissing, nil
	}
	oldSlot, oldFound := find(doc, e.OldSlotID, e.OldStartTime, e.OldEndTime)
	newSlot, newFound := find(doc, e.NewSlotID, e.NewStartTime, e.NewEndTime)

	oldHeld := oldFound && !oldSlot.IsAvailable && oldSlot.SessionID == e.SessionID
	newHeld := newFound && !newSlot.IsAvailable && newSlot.SessionID == e.SessionID
	newFree := newFound && newSlot.IsAvailable

	switch {
	case oldHeld && newFree:
		ok, err := r.Replica.MoveSlot(ctx, e.PsychologistID, oldSlot.ID, newSlot.ID, e.SessionID)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", errContention
		}
		return OutcomeApplied, nil

	case newHeld && !oldHeld:
		return OutcomeDuplicate, nil

	case newFound && !newFree && !newHeld:
		// New slot owned by someone else; keep both sides as they are.
		return OutcomeConflict, nil

	case newFree:
		// The booking of the old slot was never seen here.
		if _, err := r.reserve(ctx, e.PsychologistID, newSlot.ID, e.NewStartTime, e.NewEndTime, e.SessionID); err != nil {
			return "", err
		}
		return OutcomePartial, nil

	case oldHeld:
		// New slot is missing, or already held alongside the old one.
		if _, err := r.release(ctx, e.PsychologistID, oldSlot.ID, e.OldStartTime, e.OldEndTime, e.SessionID); err != nil {
			return "", err
		}
		return OutcomePartial, nil
	}
	return OutcomeMissing, nil
}

// locate reads the document and finds the slot; a non-empty Outcome means
// there is nothing to act on.
func (r *Reconciler) locate(ctx context.Context, psychologistID, slotID string, start, end time.Time) (models.AvailabilitySlotSearchModel, Outcome, error) {
	doc, err := r.Replica.FindByID(ctx, psychologistID)
	if err != nil {
		return models.AvailabilitySlotSearchModel{}, "", err
	}
	if doc == nil {
		return models.AvailabilitySlotSearchModel{}, OutcomeMissing, nil
	}
	slot, ok := find(doc, slotID, start, end)
	if !ok {
		return models.AvailabilitySlotSearchModel{}, OutcomeMissing, nil
	}
	return slot, "", nil
}

// find resolves a slot by id, falling back to its time range.
func find(doc *models.PsychologistSearchModel, slotID string, start, end time.Time) (models.AvailabilitySlotSearchModel, bool) {
	if slotID != "" {
		if s, ok := doc.Slot(slotID); ok {
			return s, true
		}
	}
	return doc.SlotAt(start, end)
}
