package booking

import (
	"context"
	"time"

	"psibooking/models"
	"psibooking/services/events"

	"go.uber.org/zap"
)

// Cancel moves a BOOKED session to CANCELLED and releases its slot. Slot
// release is best-effort: a slot that is gone or re-owned is left alone.
func (s *DefaultBookingService) Cancel(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, retryable("find session", err)
	}
	if session == nil {
		return nil, withDetail(ErrSessionNotFound, "session %s not found", sessionID)
	}
	if session.Status != models.SessionStatusBooked {
		return nil, withDetail(ErrInvalidStateTransition, "cannot cancel a %s session", session.Status)
	}

	now := s.now()
	ok, err := s.Sessions.UpdateStatus(ctx, sessionID, models.SessionStatusBooked, models.SessionStatusCancelled, now)
	if err != nil {
		return nil, retryable("cancel session", err)
	}
	if !ok {
		// Someone else moved it out of BOOKED between the read and the write.
		return nil, withDetail(ErrInvalidStateTransition, "session %s is no longer booked", sessionID)
	}
	session.Status = models.SessionStatusCancelled
	session.UpdatedAt = now

	slotID := s.releaseSlot(ctx, session, session.StartTime, session.EndTime)

	s.log().Info("session cancelled", zap.String("sessionId", sessionID), zap.String("slotId", slotID))
	s.emit(ctx, events.SessionCancelled{
		SessionID:      session.ID,
		PsychologistID: session.PsychologistID,
		PatientID:      session.PatientID,
		SlotID:         slotID,
		StartTime:      session.StartTime,
		EndTime:        session.EndTime,
	})
	return session, nil
}

// releaseSlot frees the slot at [start, end) if it is still held by session.
// It returns the slot id when a slot exists at that range.
func (s *DefaultBookingService) releaseSlot(ctx context.Context, session *models.Session, start, end time.Time) string {
	logger := s.log().With(zap.String("sessionId", session.ID))

	slot, err := s.Slots.FindByPsychologistAndTimeRange(ctx, session.PsychologistID, start, end)
	if err != nil {
		logger.Error("slot lookup for release failed", zap.Error(err))
		return ""
	}
	if slot == nil {
		logger.Warn("no slot to release", zap.Time("startTime", start))
		return ""
	}

	ok, err := s.Slots.CompareAndSwapStatus(ctx, slot.ID,
		models.SlotStatusBooked, session.ID, models.SlotStatusAvailable, "")
	switch {
	case err != nil:
		logger.Error("slot release failed", zap.String("slotId", slot.ID), zap.Error(err))
	case !ok:
		logger.Warn("slot not held by session, left unchanged",
			zap.String("slotId", slot.ID), zap.String("slotStatus", string(slot.Status)))
	}
	return slot.ID
}
