package search

import (
	"context"
	"fmt"
	"time"

	psychologistRepo "psibooking/database/repository/psychologist"
	replicaRepo "psibooking/database/repository/replica"
	slotRepo "psibooking/database/repository/slot"
	"psibooking/models"

	"go.uber.org/zap"
)

// Indexer builds replica documents from the authoritative catalog. It runs
// out of band; after it, only event application writes the replica.
type Indexer struct {
	Psychologists psychologistRepo.PsychologistRepository
	Slots         slotRepo.SlotRepository
	Replica       replicaRepo.ReplicaRepository
	Logger        *zap.Logger
}

// Reindex rebuilds the document of every psychologist, embedding the slots
// that start within [from, to]. It returns the number of documents written.
func (ix *Indexer) Reindex(ctx context.Context, from, to time.Time) (int, error) {
	logger := ix.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	all, err := ix.Psychologists.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list psychologists: %w", err)
	}

	written := 0
	for i := range all {
		p := &all[i]
		slots, err := ix.Slots.FindByPsychologistAndDateRange(ctx, p.ID, from, to)
		if err != nil {
			return written, fmt.Errorf("list slots for %s: %w", p.ID, err)
		}
		doc := BuildDocument(p, slots, time.Now().UTC())
		if err := ix.Replica.Replace(ctx, doc); err != nil {
			return written, err
		}
		written++
		logger.Debug("psychologist indexed", zap.String("psychologistId", p.ID), zap.Int("slots", len(doc.Availability)))
	}
	logger.Info("reindex complete", zap.Int("documents", written))
	return written, nil
}

// BuildDocument denormalizes a psychologist and their slots. BLOCKED slots
// are left out; they can never become bookable through events.
func BuildDocument(p *models.Psychologist, slots []models.AvailabilitySlot, now time.Time) *models.PsychologistSearchModel {
	doc := &models.PsychologistSearchModel{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		Bio:            p.Bio,
		Experience:     p.Experience,
		Rating:         p.Rating,
		ReviewCount:    p.ReviewCount,
		Timezone:       p.Zone(),
		IsActive:       p.IsActive,
		WeeklySchedule: p.WeeklySchedule,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      now,
		Themes:         make([]string, 0, len(p.Themes)),
		Availability:   make([]models.AvailabilitySlotSearchModel, 0, len(slots)),
	}
	for _, t := range p.Themes {
		doc.Themes = append(doc.Themes, string(t))
		doc.ThemeDisplayNames = append(doc.ThemeDisplayNames, t.DisplayName())
	}
	for _, s := range slots {
		if s.Status == models.SlotStatusBlocked {
			continue
		}
		doc.Availability = append(doc.Availability, models.AvailabilitySlotSearchModel{
			ID:          s.ID,
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			IsAvailable: s.Status == models.SlotStatusAvailable,
			SessionID:   s.SessionID,
		})
	}
	return doc
}
