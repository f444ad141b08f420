package booking

import (
	"errors"
	"testing"

	"psibooking/models"
	"psibooking/services/events"
)

func TestRescheduleMovesSession(t *testing.T) {
	f := newFixture()
	s, err := f.svc.Book(ctx, intent("k1"))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	moved, err := f.svc.Reschedule(ctx, s.ID, h10, h11)
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if !moved.StartTime.Equal(h10) || !moved.EndTime.Equal(h11) {
		t.Fatalf("session = %+v", moved)
	}
	if old := f.slots.get("slot-9"); old.Status != models.SlotStatusAvailable || old.SessionID != "" {
		t.Fatalf("old slot = %+v", old)
	}
	if next := f.slots.get("slot-10"); next.Status != models.SlotStatusBooked || next.SessionID != s.ID {
		t.Fatalf("new slot = %+v", next)
	}

	evs := f.emitted.all()
	r, ok := evs[len(evs)-1].(events.SessionRescheduled)
	if !ok {
		t.Fatalf("last event = %T", evs[len(evs)-1])
	}
	if r.OldSlotID != "slot-9" || r.NewSlotID != "slot-10" || !r.OldStartTime.Equal(h9) || !r.NewStartTime.Equal(h10) {
		t.Fatalf("event = %+v", r)
	}
}

func TestRescheduleRejections(t *testing.T) {
	f := newFixture()
	s, _ := f.svc.Book(ctx, intent("k1"))
	other := intent("k2")
	other.StartTime, other.EndTime = h10, h11
	if _, err := f.svc.Book(ctx, other); err != nil {
		t.Fatalf("Book other: %v", err)
	}

	if _, err := f.svc.Reschedule(ctx, s.ID, h10, h11); !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("taken slot err = %v", err)
	}
	if _, err := f.svc.Reschedule(ctx, s.ID, h9, h10); !errors.Is(err, ErrInvalidIntent) {
		t.Fatalf("same range err = %v", err)
	}
	if _, err := f.svc.Reschedule(ctx, s.ID, h11, h11.Add(models.SlotDuration)); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("missing slot err = %v", err)
	}
	if _, err := f.svc.Reschedule(ctx, "missing", h10, h11); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("missing session err = %v", err)
	}

	if slot := f.slots.get("slot-9"); slot.SessionID != s.ID {
		t.Fatalf("original slot changed: %+v", slot)
	}

	if _, err := f.svc.Cancel(ctx, s.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := f.svc.Reschedule(ctx, s.ID, h9, h10); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("cancelled session err = %v", err)
	}
}
