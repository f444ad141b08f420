package models

import "time"

// PsychologistSearchModel is the denormalized replica document, keyed by
// psychologist id. Query paths only read it; the availability array is kept
// current by applying session events.
type PsychologistSearchModel struct {
	ID                string                        `bson:"id" json:"id"`
	Name              string                        `bson:"name" json:"name"`
	Email             string                        `bson:"email" json:"email"`
	Themes            []string                      `bson:"themes" json:"themes"`
	ThemeDisplayNames []string                      `bson:"themeDisplayNames" json:"themeDisplayNames"`
	Bio               string                        `bson:"bio,omitempty" json:"bio,omitempty"`
	Experience        int                           `bson:"experience" json:"experience"`
	Rating            *float64                      `bson:"rating,omitempty" json:"rating,omitempty"`
	ReviewCount       int                           `bson:"reviewCount" json:"reviewCount"`
	Timezone          string                        `bson:"timezone" json:"timezone"`
	IsActive          bool                          `bson:"isActive" json:"isActive"`
	Availability      []AvailabilitySlotSearchModel `bson:"availability" json:"availability"`
	WeeklySchedule    []WeeklyTimeSlot              `bson:"weeklySchedule" json:"weeklySchedule"`
	CreatedAt         time.Time                     `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time                     `bson:"updatedAt" json:"updatedAt"`
}

// Slot returns the embedded availability entry with the given id.
func (m *PsychologistSearchModel) Slot(slotID string) (AvailabilitySlotSearchModel, bool) {
	for _, s := range m.Availability {
		if s.ID == slotID {
			return s, true
		}
	}
	return AvailabilitySlotSearchModel{}, false
}

// SlotAt returns the embedded availability entry covering exactly [start, end).
func (m *PsychologistSearchModel) SlotAt(start, end time.Time) (AvailabilitySlotSearchModel, bool) {
	for _, s := range m.Availability {
		if s.StartTime.Equal(start) && s.EndTime.Equal(end) {
			return s, true
		}
	}
	return AvailabilitySlotSearchModel{}, false
}

// AvailabilitySlotSearchModel is one embedded slot of the replica document.
type AvailabilitySlotSearchModel struct {
	ID          string    `bson:"id" json:"id"`
	StartTime   time.Time `bson:"startTime" json:"startTime"`
	EndTime     time.Time `bson:"endTime" json:"endTime"`
	IsAvailable bool      `bson:"isAvailable" json:"isAvailable"`
	SessionID   string    `bson:"sessionId" json:"sessionId,omitempty"`
}

type SortBy string

const (
	SortByRating            SortBy = "RATING"
	SortByExperience        SortBy = "EXPERIENCE"
	SortByName              SortBy = "NAME"
	SortByAvailabilityCount SortBy = "AVAILABILITY_COUNT"
)

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// PsychologistSearchCriteria filters replica documents.
type PsychologistSearchCriteria struct {
	Name          string
	Themes        []string
	IsActive      bool
	AvailableFrom *time.Time
	AvailableTo   *time.Time
	MinRating     *float64
	MinExperience *int
	SortBy        SortBy
	SortDirection SortDirection
	Page          int // zero-based
	Size          int
}
