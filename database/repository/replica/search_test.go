package replicaRepo

import (
	"testing"
	"time"

	"psibooking/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildSearchFilterEmptyCriteria(t *testing.T) {
	f := BuildSearchFilter(models.PsychologistSearchCriteria{})
	if len(f) != 0 {
		t.Fatalf("expected empty filter, got %v", f)
	}
}

func TestBuildSearchFilterAllFields(t *testing.T) {
	from := time.Date(2024, 7, 15, 9, 0, 0, 0, time.UTC)
	to := from.Add(8 * time.Hour)
	rating := 4.5
	exp := 3

	f := BuildSearchFilter(models.PsychologistSearchCriteria{
		Name:          "ana (lic.)",
		Themes:        []string{"ANXIETY", "STRESS"},
		IsActive:      true,
		AvailableFrom: &from,
		AvailableTo:   &to,
		MinRating:     &rating,
		MinExperience: &exp,
	})

	if f["isActive"] != true {
		t.Fatalf("isActive = %v", f["isActive"])
	}
	name := f["name"].(bson.M)
	if name["$regex"] != `ana \(lic\.\)` || name["$options"] != "i" {
		t.Fatalf("name regex = %v", name)
	}
	if got := f["themes"].(bson.M)["$in"].([]string); len(got) != 2 {
		t.Fatalf("themes = %v", got)
	}
	if got := f["rating"].(bson.M)["$gte"]; got != 4.5 {
		t.Fatalf("rating = %v", got)
	}
	if got := f["experience"].(bson.M)["$gte"]; got != 3 {
		t.Fatalf("experience = %v", got)
	}
	slot := f["availability"].(bson.M)["$elemMatch"].(bson.M)
	if slot["isAvailable"] != true {
		t.Fatalf("availability filter must require open slots: %v", slot)
	}
	if got := slot["startTime"].(bson.M)["$gte"]; got != from {
		t.Fatalf("startTime bound = %v", got)
	}
	if got := slot["endTime"].(bson.M)["$lte"]; got != to {
		t.Fatalf("endTime bound = %v", got)
	}
}

func TestBuildSearchSort(t *testing.T) {
	cases := []struct {
		by    models.SortBy
		dir   models.SortDirection
		field string
		order int
	}{
		{"", "", "rating", -1},
		{models.SortByName, models.SortAsc, "name", 1},
		{models.SortByExperience, models.SortDesc, "experience", -1},
		{models.SortByAvailabilityCount, models.SortDesc, "availableCount", -1},
	}
	for _, tc := range cases {
		s := BuildSearchSort(models.PsychologistSearchCriteria{SortBy: tc.by, SortDirection: tc.dir})
		if s[0].Key != tc.field || s[0].Value != tc.order {
			t.Errorf("sort(%q,%q) = %v, want %s %d", tc.by, tc.dir, s, tc.field, tc.order)
		}
		if s[1].Key != "id" {
			t.Errorf("missing id tie-break: %v", s)
		}
	}
}
