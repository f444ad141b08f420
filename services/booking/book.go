package booking

import (
	"context"
	"errors"
	"strings"

	sessionRepo "psibooking/database/repository/session"
	"psibooking/models"
	"psibooking/services/events"
	"psibooking/utils"

	"go.uber.org/zap"
)

// Book reserves the slot matching intent and creates a BOOKED session.
//
// The slot's AVAILABLE -> BOOKED conditional write is the commit point. The
// session row is written first so that its unique idempotency index catches
// concurrent replays; if the slot write loses, the session is deleted again.
// A replay is only answered with a session whose slot it holds.
func (s *DefaultBookingService) Book(ctx context.Context, intent models.BookingIntent) (*models.Session, error) {
	if err := validateIntent(&intent); err != nil {
		return nil, err
	}

	existing, err := s.findByKey(ctx, intent.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		settled, err := s.settle(ctx, existing)
		if err != nil || settled != nil {
			return settled, err
		}
	}

	slot, err := s.Slots.FindByPsychologistAndTimeRange(ctx, intent.PsychologistID, intent.StartTime, intent.EndTime)
	if err != nil {
		return nil, retryable("find slot", err)
	}
	if slot == nil {
		return nil, withDetail(ErrSlotNotFound, "no slot for psychologist %s at %s",
			intent.PsychologistID, intent.StartTime.Format(utils.NaiveLayout))
	}
	if slot.Status != models.SlotStatusAvailable {
		return s.lostSlot(ctx, intent.IdempotencyKey)
	}

	now := s.now()
	session := &models.Session{
		ID:             s.newID(),
		PsychologistID: intent.PsychologistID,
		PatientID:      intent.PatientID,
		StartTime:      intent.StartTime,
		EndTime:        intent.EndTime,
		Status:         models.SessionStatusBooked,
		IdempotencyKey: intent.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.Sessions.Insert(ctx, session); err != nil {
		if errors.Is(err, sessionRepo.ErrDuplicateIdempotencyKey) {
			return s.lostSlot(ctx, intent.IdempotencyKey)
		}
		return nil, retryable("insert session", err)
	}

	held, err := s.commit(ctx, slot.ID, session)
	if err != nil {
		s.discard(ctx, session)
		return nil, retryable("reserve slot", err)
	}
	if !held {
		s.discard(ctx, session)
		return s.lostSlot(ctx, intent.IdempotencyKey)
	}
	return session, nil
}

// commit writes AVAILABLE -> BOOKED for session and reports whether the slot
// ends up held by it. A replay may have committed on our behalf, so a failed
// or unacknowledged write is checked against the stored slot. Whoever makes
// the write announces the booking.
func (s *DefaultBookingService) commit(ctx context.Context, slotID string, session *models.Session) (bool, error) {
	swapped, err := s.Slots.CompareAndSwapStatus(ctx, slotID,
		models.SlotStatusAvailable, "", models.SlotStatusBooked, session.ID)
	if err == nil && swapped {
		s.announce(ctx, session, slotID)
		return true, nil
	}
	current, ferr := s.Slots.FindByID(ctx, slotID)
	if ferr != nil {
		if err != nil {
			return false, err
		}
		return false, ferr
	}
	held := current != nil && current.Status == models.SlotStatusBooked && current.SessionID == session.ID
	if held && err != nil {
		// Our write applied but its acknowledgement was lost.
		s.announce(ctx, session, slotID)
	}
	if !held && err != nil {
		return false, err
	}
	return held, nil
}

func (s *DefaultBookingService) announce(ctx context.Context, session *models.Session, slotID string) {
	if err := s.keys().Remember(ctx, session.IdempotencyKey, session.ID); err != nil {
		s.log().Warn("idempotency cache write failed", zap.String("sessionId", session.ID), zap.Error(err))
	}
	s.log().Info("session booked",
		zap.String("sessionId", session.ID),
		zap.String("slotId", slotID),
		zap.String("psychologistId", session.PsychologistID),
	)
	s.emit(ctx, events.SessionBooked{
		SessionID:      session.ID,
		PsychologistID: session.PsychologistID,
		PatientID:      session.PatientID,
		SlotID:         slotID,
		StartTime:      session.StartTime,
		EndTime:        session.EndTime,
		IdempotencyKey: session.IdempotencyKey,
	})
}

// settle decides what a replay of session's key may answer. A BOOKED session
// counts only once its slot holds it; a replay that finds the slot still
// AVAILABLE completes the commit itself. A session whose slot went elsewhere
// is either still being rolled back (ErrBookingInFlight) or was abandoned by
// a crashed attempt, in which case it is removed and (nil, nil) returned.
func (s *DefaultBookingService) settle(ctx context.Context, session *models.Session) (*models.Session, error) {
	if session.Status != models.SessionStatusBooked {
		return session, nil
	}
	slot, err := s.Slots.FindByPsychologistAndTimeRange(ctx, session.PsychologistID, session.StartTime, session.EndTime)
	if err != nil {
		return nil, retryable("find slot", err)
	}
	if slot == nil || slot.SessionID == session.ID {
		return session, nil
	}
	if slot.Status == models.SlotStatusAvailable {
		held, err := s.commit(ctx, slot.ID, session)
		if err != nil {
			return nil, retryable("reserve slot", err)
		}
		if held {
			return session, nil
		}
	}
	if s.now().Sub(session.CreatedAt) < s.inFlightWindow() {
		return nil, withDetail(ErrBookingInFlight, "booking for key %s is still being decided", session.IdempotencyKey)
	}
	s.log().Warn("removing abandoned session", zap.String("sessionId", session.ID), zap.String("slotId", slot.ID))
	s.discard(ctx, session)
	return nil, nil
}

func validateIntent(intent *models.BookingIntent) error {
	intent.PsychologistID = strings.TrimSpace(intent.PsychologistID)
	intent.PatientID = strings.TrimSpace(intent.PatientID)
	intent.IdempotencyKey = strings.TrimSpace(intent.IdempotencyKey)

	switch {
	case intent.PsychologistID == "":
		return withDetail(ErrInvalidIntent, "psychologistId is required")
	case intent.PatientID == "":
		return withDetail(ErrInvalidIntent, "patientId is required")
	case intent.IdempotencyKey == "":
		return withDetail(ErrInvalidIntent, "idempotencyKey is required")
	case intent.StartTime.IsZero() || intent.EndTime.IsZero():
		return withDetail(ErrInvalidIntent, "startTime and endTime are required")
	}
	intent.StartTime = utils.Naive(intent.StartTime)
	intent.EndTime = utils.Naive(intent.EndTime)
	return validateRange(intent.StartTime, intent.EndTime)
}

// findByKey resolves an idempotency key, trying the cache first.
func (s *DefaultBookingService) findByKey(ctx context.Context, key string) (*models.Session, error) {
	if id, ok, err := s.keys().Lookup(ctx, key); err != nil {
		s.log().Warn("idempotency cache read failed", zap.Error(err))
	} else if ok {
		session, err := s.Sessions.FindByID(ctx, id)
		if err != nil {
			return nil, retryable("find session", err)
		}
		if session != nil && session.IdempotencyKey == key {
			return session, nil
		}
	}

	session, err := s.Sessions.FindByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, retryable("find session by idempotency key", err)
	}
	return session, nil
}

// lostSlot handles a booking that cannot take its slot. A concurrent request
// with the same key may be the one that won it.
func (s *DefaultBookingService) lostSlot(ctx context.Context, key string) (*models.Session, error) {
	session, err := s.Sessions.FindByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, retryable("find session by idempotency key", err)
	}
	if session == nil {
		return nil, ErrSlotUnavailable
	}
	settled, err := s.settle(ctx, session)
	if err != nil {
		return nil, err
	}
	if settled == nil {
		return nil, ErrSlotUnavailable
	}
	return settled, nil
}

// discard removes a session whose slot write did not commit.
func (s *DefaultBookingService) discard(ctx context.Context, session *models.Session) {
	if err := s.Sessions.Delete(ctx, session.ID); err != nil {
		s.log().Error("failed to discard uncommitted session",
			zap.String("sessionId", session.ID), zap.Error(err))
	}
	if err := s.keys().Forget(ctx, session.IdempotencyKey); err != nil {
		s.log().Warn("idempotency cache delete failed", zap.Error(err))
	}
}
