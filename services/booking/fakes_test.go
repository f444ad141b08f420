package booking

import (
	"context"
	"sync"
	"time"

	sessionRepo "psibooking/database/repository/session"
	"psibooking/models"
	"psibooking/services/events"
)

type fakeSlots struct {
	mu      sync.Mutex
	byID    map[string]*models.AvailabilitySlot
	swaps   int
	casHook func(slotID string) (bool, error) // overrides CompareAndSwapStatus when set
	// beforeCAS runs once, ahead of the next real CompareAndSwapStatus.
	beforeCAS func()
	err       error
}

func newFakeSlots(slots ...models.AvailabilitySlot) *fakeSlots {
	f := &fakeSlots{byID: map[string]*models.AvailabilitySlot{}}
	for i := range slots {
		s := slots[i]
		if s.Status == "" {
			s.Status = models.SlotStatusAvailable
		}
		f.byID[s.ID] = &s
	}
	return f
}

func (f *fakeSlots) get(id string) models.AvailabilitySlot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.byID[id]
}

func (f *fakeSlots) swapCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.swaps
}

func (f *fakeSlots) FindByID(ctx context.Context, slotID string) (*models.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byID[slotID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeSlots) FindByPsychologistAndTimeRange(ctx context.Context, psychologistID string, start, end time.Time) (*models.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.byID {
		if s.PsychologistID == psychologistID && s.StartTime.Equal(start) && s.EndTime.Equal(end) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSlots) FindByPsychologistAndDateRange(ctx context.Context, psychologistID string, from, to time.Time) ([]models.AvailabilitySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.AvailabilitySlot
	for _, s := range f.byID {
		if s.PsychologistID == psychologistID && !s.StartTime.Before(from) && !s.StartTime.After(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSlots) CreateMany(ctx context.Context, slots []models.AvailabilitySlot) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range slots {
		s := slots[i]
		f.byID[s.ID] = &s
	}
	return len(slots), nil
}

func (f *fakeSlots) CompareAndSwapStatus(ctx context.Context, slotID string, expected models.SlotStatus, expectedSessionID string, next models.SlotStatus, nextSessionID string) (bool, error) {
	if f.casHook != nil {
		return f.casHook(slotID)
	}
	f.mu.Lock()
	hook := f.beforeCAS
	f.beforeCAS = nil
	f.mu.Unlock()
	if hook != nil {
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[slotID]
	if !ok || s.Status != expected {
		return false, nil
	}
	if expectedSessionID != "" && s.SessionID != expectedSessionID {
		return false, nil
	}
	s.Status, s.SessionID = next, nextSessionID
	f.swaps++
	return true, nil
}

func (f *fakeSlots) EnsureIndexes(ctx context.Context) error { return nil }

type fakeSessions struct {
	mu          sync.Mutex
	byID        map[string]models.Session
	afterDelete func()
	err         error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: map[string]models.Session{}}
}

func (f *fakeSessions) get(id string) (models.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[id]
	return s, ok
}

func (f *fakeSessions) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

func (f *fakeSessions) FindByID(ctx context.Context, sessionID string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.byID[sessionID]; ok {
		return &s, nil
	}
	return nil, nil
}

func (f *fakeSessions) FindByIdempotencyKey(ctx context.Context, key string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.byID {
		if s.IdempotencyKey == key {
			cp := s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSessions) Insert(ctx context.Context, session *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.byID {
		if s.IdempotencyKey == session.IdempotencyKey {
			return sessionRepo.ErrDuplicateIdempotencyKey
		}
	}
	f.byID[session.ID] = *session
	return nil
}

func (f *fakeSessions) UpdateStatus(ctx context.Context, sessionID string, expected, next models.SessionStatus, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[sessionID]
	if !ok || s.Status != expected {
		return false, nil
	}
	s.Status, s.UpdatedAt = next, at
	f.byID[sessionID] = s
	return true, nil
}

func (f *fakeSessions) UpdateTimes(ctx context.Context, sessionID string, oldStart, oldEnd, newStart, newEnd, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byID[sessionID]
	if !ok || s.Status != models.SessionStatusBooked || !s.StartTime.Equal(oldStart) || !s.EndTime.Equal(oldEnd) {
		return false, nil
	}
	s.StartTime, s.EndTime, s.UpdatedAt = newStart, newEnd, at
	f.byID[sessionID] = s
	return true, nil
}

func (f *fakeSessions) Delete(ctx context.Context, sessionID string) error {
	f.mu.Lock()
	delete(f.byID, sessionID)
	hook := f.afterDelete
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}

func (f *fakeSessions) EnsureIndexes(ctx context.Context) error { return nil }

type fakePsychologists struct {
	byID map[string]models.Psychologist
}

func newFakePsychologists(ps ...models.Psychologist) *fakePsychologists {
	f := &fakePsychologists{byID: map[string]models.Psychologist{}}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakePsychologists) FindByID(ctx context.Context, id string) (*models.Psychologist, error) {
	if p, ok := f.byID[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakePsychologists) FindByTheme(ctx context.Context, theme models.Theme) ([]models.Psychologist, error) {
	var out []models.Psychologist
	for _, p := range f.byID {
		for _, t := range p.Themes {
			if t == theme {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (f *fakePsychologists) FindAll(ctx context.Context) ([]models.Psychologist, error) {
	var out []models.Psychologist
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePsychologists) Save(ctx context.Context, p *models.Psychologist) error {
	f.byID[p.ID] = *p
	return nil
}

func (f *fakePsychologists) EnsureIndexes(ctx context.Context) error { return nil }

type recordingEmitter struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingEmitter) Emit(ctx context.Context, ev events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingEmitter) all() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.events...)
}

type mapKeyIndex struct {
	mu sync.Mutex
	m  map[string]string
}

func (k *mapKeyIndex) Lookup(ctx context.Context, key string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	id, ok := k.m[key]
	return id, ok, nil
}

func (k *mapKeyIndex) Remember(ctx context.Context, key, sessionID string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, ok := k.m[key]; !ok {
		k.m[key] = sessionID
	}
	return nil
}

func (k *mapKeyIndex) Forget(ctx context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.m, key)
	return nil
}
