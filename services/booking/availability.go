package booking

import (
	"context"
	"sort"
	"time"

	"psibooking/models"
	"psibooking/utils"
)

// WeeklyAvailability lists the AVAILABLE slots of the seven days starting at
// weekStart (psychologist's calendar), shown in the patient's zone. An
// unknown psychologist yields an empty list.
func (s *DefaultBookingService) WeeklyAvailability(ctx context.Context, psychologistID string, weekStart time.Time, patientZone string) ([]models.AvailabilitySlot, error) {
	if patientZone == "" {
		patientZone = models.DefaultTimezone
	}
	to, err := utils.LoadZone(patientZone)
	if err != nil {
		return nil, withDetail(ErrInvalidIntent, "%v", err)
	}

	psych, err := s.Psychologists.FindByID(ctx, psychologistID)
	if err != nil {
		return nil, retryable("find psychologist", err)
	}
	if psych == nil {
		return []models.AvailabilitySlot{}, nil
	}
	from, err := utils.LoadZone(psych.Zone())
	if err != nil {
		return nil, retryable("load psychologist zone", err)
	}

	day := utils.Naive(weekStart)
	rangeStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	rangeEnd := rangeStart.AddDate(0, 0, 6).Add(23*time.Hour + 59*time.Minute)

	slots, err := s.Slots.FindByPsychologistAndDateRange(ctx, psychologistID, rangeStart, rangeEnd)
	if err != nil {
		return nil, retryable("list slots", err)
	}

	out := make([]models.AvailabilitySlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Status != models.SlotStatusAvailable {
			continue
		}
		slot.StartTime = utils.Project(slot.StartTime, from, to)
		slot.EndTime = utils.Project(slot.EndTime, from, to)
		out = append(out, slot)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// PsychologistsByTheme returns active psychologists for theme, best rated first.
func (s *DefaultBookingService) PsychologistsByTheme(ctx context.Context, theme models.Theme) ([]models.Psychologist, error) {
	list, err := s.Psychologists.FindByTheme(ctx, theme)
	if err != nil {
		return nil, retryable("find psychologists", err)
	}
	out := make([]models.Psychologist, 0, len(list))
	for _, p := range list {
		if p.IsActive {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return rating(out[i]) > rating(out[j]) })
	return out, nil
}

func rating(p models.Psychologist) float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

func (s *DefaultBookingService) Themes() []models.Theme {
	return models.AllThemes()
}
