// Package schedule turns weekly templates into concrete bookable slots.
package schedule

import (
	"context"
	"fmt"
	"time"

	psychologistRepo "psibooking/database/repository/psychologist"
	slotRepo "psibooking/database/repository/slot"
	"psibooking/models"
	"psibooking/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Report summarizes one materialization run.
type Report struct {
	Psychologists int `json:"psychologists"`
	Generated     int `json:"generated"`
	Created       int `json:"created"`
}

// Materializer is the batch job behind `psictl materialize`. Running it twice
// over the same window creates nothing the second time.
type Materializer struct {
	Psychologists psychologistRepo.PsychologistRepository
	Slots         slotRepo.SlotRepository
	Logger        *zap.Logger
}

// Materialize creates slots for the days from..to (inclusive, psychologist
// calendar). With no ids every active psychologist is processed.
func (m *Materializer) Materialize(ctx context.Context, from, to time.Time, psychologistIDs ...string) (Report, error) {
	logger := m.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	var report Report
	if to.Before(from) {
		return report, fmt.Errorf("window end %s is before start %s", to.Format(time.DateOnly), from.Format(time.DateOnly))
	}

	targets, err := m.targets(ctx, psychologistIDs)
	if err != nil {
		return report, err
	}

	for _, p := range targets {
		slots, err := BuildSlots(p, from, to)
		if err != nil {
			logger.Warn("skipping psychologist with invalid schedule", zap.String("psychologistId", p.ID), zap.Error(err))
			continue
		}
		created, err := m.Slots.CreateMany(ctx, slots)
		if err != nil {
			return report, fmt.Errorf("create slots for %s: %w", p.ID, err)
		}
		report.Psychologists++
		report.Generated += len(slots)
		report.Created += created
		logger.Info("slots materialized",
			zap.String("psychologistId", p.ID),
			zap.Int("generated", len(slots)),
			zap.Int("created", created),
		)
	}
	return report, nil
}

func (m *Materializer) targets(ctx context.Context, ids []string) ([]models.Psychologist, error) {
	if len(ids) == 0 {
		all, err := m.Psychologists.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		active := all[:0]
		for _, p := range all {
			if p.IsActive {
				active = append(active, p)
			}
		}
		return active, nil
	}
	out := make([]models.Psychologist, 0, len(ids))
	for _, id := range ids {
		p, err := m.Psychologists.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("psychologist %s not found", id)
		}
		out = append(out, *p)
	}
	return out, nil
}

// BuildSlots expands p's weekly template over the days from..to. Each
// available window is cut into one-hour slots; a trailing remainder shorter
// than an hour is dropped, as are local times skipped by a DST jump.
func BuildSlots(p models.Psychologist, from, to time.Time) ([]models.AvailabilitySlot, error) {
	loc, err := utils.LoadZone(p.Zone())
	if err != nil {
		return nil, err
	}

	type window struct{ start, end int }
	byDay := map[time.Weekday][]window{}
	for _, entry := range p.WeeklySchedule {
		if !entry.IsAvailable {
			continue
		}
		wd, ok := entry.DayOfWeek.Weekday()
		if !ok {
			return nil, fmt.Errorf("unknown day of week %q", entry.DayOfWeek)
		}
		start, end, err := entry.Window()
		if err != nil {
			return nil, err
		}
		byDay[wd] = append(byDay[wd], window{start, end})
	}

	step := int(models.SlotDuration / time.Minute)
	first := dayOf(from)
	last := dayOf(to)

	var slots []models.AvailabilitySlot
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		for _, w := range byDay[day.Weekday()] {
			for m := w.start; m+step <= w.end; m += step {
				start := day.Add(time.Duration(m) * time.Minute)
				if !existsLocally(start, loc) {
					continue
				}
				slots = append(slots, models.AvailabilitySlot{
					ID:             uuid.New().String(),
					PsychologistID: p.ID,
					StartTime:      start,
					EndTime:        start.Add(models.SlotDuration),
					Status:         models.SlotStatusAvailable,
				})
			}
		}
	}
	return slots, nil
}

func dayOf(t time.Time) time.Time {
	n := utils.Naive(t)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// existsLocally reports whether the naive wall time t occurs in loc.
func existsLocally(t time.Time, loc *time.Location) bool {
	local := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	return local.Hour() == t.Hour() && local.Minute() == t.Minute()
}
