package booking

import (
	"context"
	"time"

	psychologistRepo "psibooking/database/repository/psychologist"
	sessionRepo "psibooking/database/repository/session"
	slotRepo "psibooking/database/repository/slot"
	"psibooking/models"
	"psibooking/services/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService is the slot reservation state machine plus the read paths
// of the booking API.
type BookingService interface {
	Book(ctx context.Context, intent models.BookingIntent) (*models.Session, error)
	Cancel(ctx context.Context, sessionID string) (*models.Session, error)
	Reschedule(ctx context.Context, sessionID string, newStart, newEnd time.Time) (*models.Session, error)
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	ConfirmSession(ctx context.Context, sessionID, patientZone string) (*models.SessionConfirmation, error)

	WeeklyAvailability(ctx context.Context, psychologistID string, weekStart time.Time, patientZone string) ([]models.AvailabilitySlot, error)
	PsychologistsByTheme(ctx context.Context, theme models.Theme) ([]models.Psychologist, error)
	Themes() []models.Theme
}

// EventEmitter publishes committed transitions without reporting failure.
type EventEmitter interface {
	Emit(ctx context.Context, ev events.Event)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Slots         slotRepo.SlotRepository
	Sessions      sessionRepo.SessionRepository
	Psychologists psychologistRepo.PsychologistRepository
	Keys          KeyIndex
	Emitter       EventEmitter
	Logger        *zap.Logger

	// InFlightWindow bounds how long an uncommitted session may be waiting
	// on its slot write. Older ones are treated as abandoned.
	InFlightWindow time.Duration

	// Overridable in tests.
	Now   func() time.Time
	NewID func() string
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC().Truncate(time.Millisecond)
	}
	// Mongo keeps millisecond precision; truncating keeps replays identical.
	return time.Now().UTC().Truncate(time.Millisecond)
}

const defaultInFlightWindow = 30 * time.Second

func (s *DefaultBookingService) inFlightWindow() time.Duration {
	if s.InFlightWindow > 0 {
		return s.InFlightWindow
	}
	return defaultInFlightWindow
}

func (s *DefaultBookingService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.New().String()
}

func (s *DefaultBookingService) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultBookingService) keys() KeyIndex {
	if s.Keys == nil {
		return noKeyIndex{}
	}
	return s.Keys
}

func (s *DefaultBookingService) emit(ctx context.Context, ev events.Event) {
	if s.Emitter != nil {
		s.Emitter.Emit(ctx, ev)
	}
}
