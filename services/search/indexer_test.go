package search

import (
	"testing"
	"time"

	"psibooking/models"
)

func TestBuildDocument(t *testing.T) {
	rating := 4.2
	p := &models.Psychologist{
		ID:       "P1",
		Name:     "Dra. Ana Gómez",
		Themes:   []models.Theme{models.ThemeAnxiety, models.ThemeCoupleTherapy},
		Rating:   &rating,
		IsActive: true,
	}
	slots := []models.AvailabilitySlot{
		{ID: "a", StartTime: h9, EndTime: h10, Status: models.SlotStatusAvailable},
		{ID: "b", StartTime: h10, EndTime: h11, Status: models.SlotStatusBooked, SessionID: "s1"},
		{ID: "c", StartTime: h11, EndTime: h11.Add(time.Hour), Status: models.SlotStatusBlocked},
	}
	doc := BuildDocument(p, slots, h9)

	if doc.Timezone != models.DefaultTimezone {
		t.Fatalf("timezone = %q", doc.Timezone)
	}
	if len(doc.ThemeDisplayNames) != 2 || doc.ThemeDisplayNames[1] != "Terapia de Pareja" {
		t.Fatalf("theme names = %v", doc.ThemeDisplayNames)
	}
	if len(doc.Availability) != 2 {
		t.Fatalf("availability = %+v", doc.Availability)
	}
	if !doc.Availability[0].IsAvailable || doc.Availability[1].IsAvailable || doc.Availability[1].SessionID != "s1" {
		t.Fatalf("availability = %+v", doc.Availability)
	}
}
