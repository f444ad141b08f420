package booking

import (
	"context"
	"time"

	"psibooking/models"
	"psibooking/services/events"
	"psibooking/utils"

	"go.uber.org/zap"
)

// Reschedule moves a BOOKED session to another slot of the same psychologist.
// The new slot is reserved first; if the session changed meanwhile the new
// slot is handed back and the old one is untouched.
func (s *DefaultBookingService) Reschedule(ctx context.Context, sessionID string, newStart, newEnd time.Time) (*models.Session, error) {
	newStart, newEnd = utils.Naive(newStart), utils.Naive(newEnd)
	if err := validateRange(newStart, newEnd); err != nil {
		return nil, err
	}

	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, retryable("find session", err)
	}
	if session == nil {
		return nil, withDetail(ErrSessionNotFound, "session %s not found", sessionID)
	}
	if session.Status != models.SessionStatusBooked {
		return nil, withDetail(ErrInvalidStateTransition, "cannot reschedule a %s session", session.Status)
	}
	if session.StartTime.Equal(newStart) && session.EndTime.Equal(newEnd) {
		return nil, withDetail(ErrInvalidIntent, "session already takes place at %s", newStart.Format(utils.NaiveLayout))
	}

	target, err := s.Slots.FindByPsychologistAndTimeRange(ctx, session.PsychologistID, newStart, newEnd)
	if err != nil {
		return nil, retryable("find slot", err)
	}
	if target == nil {
		return nil, withDetail(ErrSlotNotFound, "no slot for psychologist %s at %s",
			session.PsychologistID, newStart.Format(utils.NaiveLayout))
	}
	if target.Status != models.SlotStatusAvailable {
		return nil, ErrSlotUnavailable
	}

	ok, err := s.Slots.CompareAndSwapStatus(ctx, target.ID,
		models.SlotStatusAvailable, "", models.SlotStatusBooked, session.ID)
	if err != nil {
		return nil, retryable("reserve slot", err)
	}
	if !ok {
		return nil, ErrSlotUnavailable
	}

	oldStart, oldEnd := session.StartTime, session.EndTime
	now := s.now()
	moved, err := s.Sessions.UpdateTimes(ctx, session.ID, oldStart, oldEnd, newStart, newEnd, now)
	if err != nil || !moved {
		s.undoReserve(ctx, target.ID, session.ID)
		if err != nil {
			return nil, retryable("move session", err)
		}
		return nil, withDetail(ErrInvalidStateTransition, "session %s changed while rescheduling", sessionID)
	}

	oldSlotID := s.releaseSlot(ctx, session, oldStart, oldEnd)

	session.StartTime, session.EndTime = newStart, newEnd
	session.UpdatedAt = now

	s.log().Info("session rescheduled",
		zap.String("sessionId", session.ID),
		zap.String("oldSlotId", oldSlotID),
		zap.String("newSlotId", target.ID),
	)
	s.emit(ctx, events.SessionRescheduled{
		SessionID:      session.ID,
		PsychologistID: session.PsychologistID,
		PatientID:      session.PatientID,
		OldSlotID:      oldSlotID,
		NewSlotID:      target.ID,
		OldStartTime:   oldStart,
		OldEndTime:     oldEnd,
		NewStartTime:   newStart,
		NewEndTime:     newEnd,
	})
	return session, nil
}

func (s *DefaultBookingService) undoReserve(ctx context.Context, slotID, sessionID string) {
	ok, err := s.Slots.CompareAndSwapStatus(ctx, slotID,
		models.SlotStatusBooked, sessionID, models.SlotStatusAvailable, "")
	if err != nil || !ok {
		s.log().Error("failed to hand back reserved slot",
			zap.String("slotId", slotID), zap.String("sessionId", sessionID), zap.Error(err))
	}
}

// validateRange enforces the canonical one-hour slot.
func validateRange(start, end time.Time) error {
	if !start.Before(end) {
		return withDetail(ErrInvalidIntent, "startTime must be before endTime")
	}
	if end.Sub(start) != models.SlotDuration {
		return withDetail(ErrInvalidIntent, "sessions last exactly %s, got %s", models.SlotDuration, end.Sub(start))
	}
	return nil
}
