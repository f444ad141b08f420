package handlers

import (
	"time"

	"psibooking/models"
	"psibooking/utils"
)

// Naive local times go over the wire without an offset; the zone they belong
// to is stated next to them or implied by the resource.

func formatNaive(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return utils.Naive(t).Format(utils.NaiveLayout)
}

type SessionResponse struct {
	ID             string               `json:"id"`
	PsychologistID string               `json:"psychologistId"`
	PatientID      string               `json:"patientId"`
	StartTime      string               `json:"startTime"`
	EndTime        string               `json:"endTime"`
	Status         models.SessionStatus `json:"status"`
	IdempotencyKey string               `json:"idempotencyKey"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

func newSessionResponse(s *models.Session) SessionResponse {
	return SessionResponse{
		ID:             s.ID,
		PsychologistID: s.PsychologistID,
		PatientID:      s.PatientID,
		StartTime:      formatNaive(s.StartTime),
		EndTime:        formatNaive(s.EndTime),
		Status:         s.Status,
		IdempotencyKey: s.IdempotencyKey,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

type SlotResponse struct {
	ID             string            `json:"id"`
	PsychologistID string            `json:"psychologistId"`
	StartTime      string            `json:"startTime"`
	EndTime        string            `json:"endTime"`
	Status         models.SlotStatus `json:"status"`
}

type ConfirmationResponse struct {
	SessionID             string `json:"sessionId"`
	PsychologistName      string `json:"psychologistName"`
	PsychologistTimezone  string `json:"psychologistTimezone"`
	PsychologistLocalTime string `json:"psychologistLocalTime"`
	PsychologistLocalEnd  string `json:"psychologistLocalEnd"`
	PatientTimezone       string `json:"patientTimezone"`
	PatientLocalTime      string `json:"patientLocalTime"`
	PatientLocalEnd       string `json:"patientLocalEnd"`
	Theme                 string `json:"theme"`
	ConfirmationCode      string `json:"confirmationCode"`
}

func newConfirmationResponse(c *models.SessionConfirmation) ConfirmationResponse {
	return ConfirmationResponse{
		SessionID:             c.SessionID,
		PsychologistName:      c.PsychologistName,
		PsychologistTimezone:  c.PsychologistTimezone,
		PsychologistLocalTime: formatNaive(c.PsychologistLocalTime),
		PsychologistLocalEnd:  formatNaive(c.PsychologistLocalEnd),
		PatientTimezone:       c.PatientTimezone,
		PatientLocalTime:      formatNaive(c.PatientLocalTime),
		PatientLocalEnd:       formatNaive(c.PatientLocalEnd),
		Theme:                 c.Theme,
		ConfirmationCode:      c.ConfirmationCode,
	}
}

type ThemeResponse struct {
	Code        models.Theme `json:"code"`
	DisplayName string       `json:"displayName"`
}

type PsychologistResponse struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Email          string                  `json:"email"`
	Themes         []ThemeResponse         `json:"themes"`
	Bio            string                  `json:"bio,omitempty"`
	Experience     int                     `json:"experience"`
	Rating         *float64                `json:"rating,omitempty"`
	ReviewCount    int                     `json:"reviewCount"`
	Timezone       string                  `json:"timezone"`
	WeeklySchedule []models.WeeklyTimeSlot `json:"weeklySchedule"`
}

func newThemeResponses(themes []models.Theme) []ThemeResponse {
	out := make([]ThemeResponse, 0, len(themes))
	for _, t := range themes {
		out = append(out, ThemeResponse{Code: t, DisplayName: t.DisplayName()})
	}
	return out
}

func newPsychologistResponse(p models.Psychologist) PsychologistResponse {
	return PsychologistResponse{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		Themes:         newThemeResponses(p.Themes),
		Bio:            p.Bio,
		Experience:     p.Experience,
		Rating:         p.Rating,
		ReviewCount:    p.ReviewCount,
		Timezone:       p.Zone(),
		WeeklySchedule: p.WeeklySchedule,
	}
}

type IndexedSlotResponse struct {
	ID          string `json:"id"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
	SessionID   string `json:"sessionId,omitempty"`
}

func newIndexedSlots(slots []models.AvailabilitySlotSearchModel) []IndexedSlotResponse {
	out := make([]IndexedSlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, IndexedSlotResponse{
			ID:          s.ID,
			StartTime:   formatNaive(s.StartTime),
			EndTime:     formatNaive(s.EndTime),
			IsAvailable: s.IsAvailable,
			SessionID:   s.SessionID,
		})
	}
	return out
}

type IndexedPsychologistResponse struct {
	ID                string                  `json:"id"`
	Name              string                  `json:"name"`
	Email             string                  `json:"email"`
	Themes            []string                `json:"themes"`
	ThemeDisplayNames []string                `json:"themeDisplayNames"`
	Bio               string                  `json:"bio,omitempty"`
	Experience        int                     `json:"experience"`
	Rating            *float64                `json:"rating,omitempty"`
	ReviewCount       int                     `json:"reviewCount"`
	Timezone          string                  `json:"timezone"`
	IsActive          bool                    `json:"isActive"`
	Availability      []IndexedSlotResponse   `json:"availability"`
	WeeklySchedule    []models.WeeklyTimeSlot `json:"weeklySchedule"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

func newIndexedPsychologist(doc *models.PsychologistSearchModel) IndexedPsychologistResponse {
	return IndexedPsychologistResponse{
		ID:                doc.ID,
		Name:              doc.Name,
		Email:             doc.Email,
		Themes:            doc.Themes,
		ThemeDisplayNames: doc.ThemeDisplayNames,
		Bio:               doc.Bio,
		Experience:        doc.Experience,
		Rating:            doc.Rating,
		ReviewCount:       doc.ReviewCount,
		Timezone:          doc.Timezone,
		IsActive:          doc.IsActive,
		Availability:      newIndexedSlots(doc.Availability),
		WeeklySchedule:    doc.WeeklySchedule,
		UpdatedAt:         doc.UpdatedAt,
	}
}
