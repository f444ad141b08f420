package search

import (
	"context"
	"sync"
	"time"

	"psibooking/models"
)

// memReplica mirrors the conditional update semantics of the Mongo store.
type memReplica struct {
	mu     sync.Mutex
	docs   map[string]*models.PsychologistSearchModel
	writes int
	err    error
}

func newMemReplica(docs ...models.PsychologistSearchModel) *memReplica {
	m := &memReplica{docs: map[string]*models.PsychologistSearchModel{}}
	for i := range docs {
		d := docs[i]
		d.Availability = append([]models.AvailabilitySlotSearchModel(nil), d.Availability...)
		m.docs[d.ID] = &d
	}
	return m
}

func (m *memReplica) slot(psychologistID, slotID string) models.AvailabilitySlotSearchModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, _ := m.docs[psychologistID].Slot(slotID)
	return s
}

func (m *memReplica) FindByID(ctx context.Context, id string) (*models.PsychologistSearchModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	d, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	cp.Availability = append([]models.AvailabilitySlotSearchModel(nil), d.Availability...)
	return &cp, nil
}

func (m *memReplica) Search(ctx context.Context, c models.PsychologistSearchCriteria) ([]models.PsychologistSearchModel, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.PsychologistSearchModel
	for _, d := range m.docs {
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (m *memReplica) Replace(ctx context.Context, doc *models.PsychologistSearchModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *doc
	m.docs[doc.ID] = &cp
	return nil
}

func (m *memReplica) update(psychologistID string, match func(d *models.PsychologistSearchModel) bool, apply func(s *models.AvailabilitySlotSearchModel)) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	d, ok := m.docs[psychologistID]
	if !ok || !match(d) {
		return false, nil
	}
	for i := range d.Availability {
		apply(&d.Availability[i])
	}
	d.UpdatedAt = time.Now()
	m.writes++
	return true, nil
}

func (m *memReplica) MarkSlotBooked(ctx context.Context, psychologistID, slotID, sessionID string) (bool, error) {
	return m.update(psychologistID,
		func(d *models.PsychologistSearchModel) bool {
			s, ok := d.Slot(slotID)
			return ok && s.IsAvailable
		},
		func(s *models.AvailabilitySlotSearchModel) {
			if s.ID == slotID {
				s.IsAvailable, s.SessionID = false, sessionID
			}
		})
}

func (m *memReplica) MarkSlotReleased(ctx context.Context, psychologistID, slotID, sessionID string) (bool, error) {
	return m.update(psychologistID,
		func(d *models.PsychologistSearchModel) bool {
			s, ok := d.Slot(slotID)
			return ok && !s.IsAvailable && s.SessionID == sessionID
		},
		func(s *models.AvailabilitySlotSearchModel) {
			if s.ID == slotID {
				s.IsAvailable, s.SessionID = true, ""
			}
		})
}

func (m *memReplica) MoveSlot(ctx context.Context, psychologistID, oldSlotID, newSlotID, sessionID string) (bool, error) {
	return m.update(psychologistID,
		func(d *models.PsychologistSearchModel) bool {
			o, okOld := d.Slot(oldSlotID)
			n, okNew := d.Slot(newSlotID)
			return okOld && okNew && !o.IsAvailable && o.SessionID == sessionID && n.IsAvailable
		},
		func(s *models.AvailabilitySlotSearchModel) {
			switch s.ID {
			case oldSlotID:
				s.IsAvailable, s.SessionID = true, ""
			case newSlotID:
				s.IsAvailable, s.SessionID = false, sessionID
			}
		})
}

func (m *memReplica) EnsureIndexes(ctx context.Context) error { return nil }
