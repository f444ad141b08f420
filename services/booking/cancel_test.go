package booking

import (
	"errors"
	"testing"
	"time"

	"psibooking/models"
	"psibooking/services/events"
)

func TestCancelRoundTrip(t *testing.T) {
	f := newFixture()
	s, err := f.svc.Book(ctx, intent("k1"))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	cancelled, err := f.svc.Cancel(ctx, s.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != models.SessionStatusCancelled {
		t.Fatalf("returned status = %s", cancelled.Status)
	}
	if stored, _ := f.sessions.get(s.ID); stored.Status != models.SessionStatusCancelled {
		t.Fatalf("stored status = %s", stored.Status)
	}
	slot := f.slots.get("slot-9")
	if slot.Status != models.SlotStatusAvailable || slot.SessionID != "" {
		t.Fatalf("slot = %+v, want AVAILABLE with no session", slot)
	}

	evs := f.emitted.all()
	if len(evs) != 2 {
		t.Fatalf("events = %d, want 2", len(evs))
	}
	c, ok := evs[1].(events.SessionCancelled)
	if !ok || c.SessionID != s.ID || c.SlotID != "slot-9" {
		t.Fatalf("cancel event = %#v", evs[1])
	}

	// The slot can be booked again under a new key.
	if _, err := f.svc.Book(ctx, intent("k2")); err != nil {
		t.Fatalf("rebook: %v", err)
	}
}

func TestCancelTwiceIsInvalidTransition(t *testing.T) {
	f := newFixture()
	s, _ := f.svc.Book(ctx, intent("k1"))
	if _, err := f.svc.Cancel(ctx, s.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	swaps, emitted := f.slots.swapCount(), len(f.emitted.all())

	_, err := f.svc.Cancel(ctx, s.ID)
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("err = %v, want ErrInvalidStateTransition", err)
	}
	if f.slots.swapCount() != swaps {
		t.Fatal("second cancel touched a slot")
	}
	if len(f.emitted.all()) != emitted {
		t.Fatal("second cancel emitted an event")
	}
}

func TestCancelUnknownSession(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Cancel(ctx, "nope")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestCancelToleratesMissingSlot(t *testing.T) {
	f := newFixture()
	orphan := models.Session{ID: "s1", PsychologistID: "P1", StartTime: h11, EndTime: h11.Add(models.SlotDuration),
		Status: models.SessionStatusBooked, IdempotencyKey: "k"}
	_ = f.sessions.Insert(ctx, &orphan)

	got, err := f.svc.Cancel(ctx, "s1")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if got.Status != models.SessionStatusCancelled {
		t.Fatalf("status = %s", got.Status)
	}
	if c := f.emitted.all()[0].(events.SessionCancelled); c.SlotID != "" {
		t.Fatalf("slot id = %q, want empty", c.SlotID)
	}
}

func TestCancelLeavesReownedSlotAlone(t *testing.T) {
	f := newFixture(models.AvailabilitySlot{ID: "slot-9", PsychologistID: "P1", StartTime: h9, EndTime: h10,
		Status: models.SlotStatusBooked, SessionID: "someone-else"})
	stale := models.Session{ID: "s1", PsychologistID: "P1", StartTime: h9, EndTime: h10,
		Status: models.SessionStatusBooked, IdempotencyKey: "k"}
	_ = f.sessions.Insert(ctx, &stale)

	if _, err := f.svc.Cancel(ctx, "s1"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if slot := f.slots.get("slot-9"); slot.SessionID != "someone-else" || slot.Status != models.SlotStatusBooked {
		t.Fatalf("slot = %+v", slot)
	}
}

func TestGetSessionNotFoundIsEmpty(t *testing.T) {
	f := newFixture()
	s, err := f.svc.GetSession(ctx, "missing")
	if err != nil || s != nil {
		t.Fatalf("GetSession = %v, %v; want nil, nil", s, err)
	}
}

func TestTransitionsStampStoredUpdatedAt(t *testing.T) {
	f := newFixture()
	clock := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	f.svc.Now = func() time.Time { return clock }

	s, err := f.svc.Book(ctx, intent("k1"))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	clock = clock.Add(time.Minute)
	moved, err := f.svc.Reschedule(ctx, s.ID, h10, h11)
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if stored, _ := f.sessions.get(s.ID); !stored.UpdatedAt.Equal(moved.UpdatedAt) || !moved.UpdatedAt.Equal(clock) {
		t.Fatalf("reschedule updatedAt returned %v, stored %v, want %v", moved.UpdatedAt, stored.UpdatedAt, clock)
	}

	clock = clock.Add(time.Minute)
	cancelled, err := f.svc.Cancel(ctx, s.ID)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if stored, _ := f.sessions.get(s.ID); !stored.UpdatedAt.Equal(cancelled.UpdatedAt) || !cancelled.UpdatedAt.Equal(clock) {
		t.Fatalf("cancel updatedAt returned %v, stored %v, want %v", cancelled.UpdatedAt, stored.UpdatedAt, clock)
	}
}
