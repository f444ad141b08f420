package models

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimezone is used when a psychologist has no zone configured.
const DefaultTimezone = "America/Argentina/Buenos_Aires"

// DayOfWeek is the weekly template key, stored by name ("MONDAY").
type DayOfWeek string

const (
	Monday    DayOfWeek = "MONDAY"
	Tuesday   DayOfWeek = "TUESDAY"
	Wednesday DayOfWeek = "WEDNESDAY"
	Thursday  DayOfWeek = "THURSDAY"
	Friday    DayOfWeek = "FRIDAY"
	Saturday  DayOfWeek = "SATURDAY"
	Sunday    DayOfWeek = "SUNDAY"
)

var weekdays = map[DayOfWeek]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
}

// Weekday converts d to the stdlib weekday.
func (d DayOfWeek) Weekday() (time.Weekday, bool) {
	w, ok := weekdays[DayOfWeek(strings.ToUpper(string(d)))]
	return w, ok
}

// DayOfWeekFrom converts a stdlib weekday back to its template key.
func DayOfWeekFrom(w time.Weekday) DayOfWeek {
	for d, wd := range weekdays {
		if wd == w {
			return d
		}
	}
	return ""
}

// WeeklyTimeSlot is one entry of a psychologist's recurring weekly template.
type WeeklyTimeSlot struct {
	DayOfWeek   DayOfWeek `bson:"dayOfWeek" json:"dayOfWeek"`
	StartTime   string    `bson:"startTime" json:"startTime"` // local "15:04"
	EndTime     string    `bson:"endTime" json:"endTime"`     // local "15:04"
	IsAvailable bool      `bson:"isAvailable" json:"isAvailable"`
}

// Window parses the template's local start/end into minutes from midnight.
func (w WeeklyTimeSlot) Window() (int, int, error) {
	start, err := parseClock(w.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("startTime: %w", err)
	}
	end, err := parseClock(w.EndTime)
	if err != nil {
		return 0, 0, fmt.Errorf("endTime: %w", err)
	}
	if end <= start {
		return 0, 0, fmt.Errorf("window %s-%s is empty", w.StartTime, w.EndTime)
	}
	return start, end, nil
}

func parseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Psychologist is the catalog entry and schedule owner.
type Psychologist struct {
	ID             string           `bson:"id" json:"id"`
	Name           string           `bson:"name" json:"name"`
	Email          string           `bson:"email" json:"email"`
	Themes         []Theme          `bson:"themes" json:"themes"`
	Bio            string           `bson:"bio,omitempty" json:"bio,omitempty"`
	Experience     int              `bson:"experience" json:"experience"` // years
	Rating         *float64         `bson:"rating,omitempty" json:"rating,omitempty"`
	ReviewCount    int              `bson:"reviewCount" json:"reviewCount"`
	WeeklySchedule []WeeklyTimeSlot `bson:"weeklySchedule" json:"weeklySchedule"`
	Timezone       string           `bson:"timezone" json:"timezone"` // fixed IANA zone
	IsActive       bool             `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time        `bson:"createdAt" json:"createdAt"`
}

// Zone returns the configured zone, falling back to DefaultTimezone.
func (p Psychologist) Zone() string {
	if p.Timezone == "" {
		return DefaultTimezone
	}
	return p.Timezone
}
