package search

import (
	"errors"
	"testing"
	"time"

	"psibooking/models"
)

func TestNormalizeCriteriaDefaults(t *testing.T) {
	c, err := NormalizeCriteria(models.PsychologistSearchCriteria{Page: -3})
	if err != nil {
		t.Fatalf("NormalizeCriteria: %v", err)
	}
	if c.Page != 0 || c.Size != DefaultPageSize {
		t.Fatalf("page/size = %d/%d", c.Page, c.Size)
	}
	if c.SortBy != models.SortByRating || c.SortDirection != models.SortDesc {
		t.Fatalf("sort = %s %s", c.SortBy, c.SortDirection)
	}

	c, _ = NormalizeCriteria(models.PsychologistSearchCriteria{Size: 5000, SortBy: "name"})
	if c.Size != MaxPageSize {
		t.Fatalf("size = %d", c.Size)
	}
	if c.SortBy != models.SortByName || c.SortDirection != models.SortAsc {
		t.Fatalf("sort = %s %s", c.SortBy, c.SortDirection)
	}
}

func TestNormalizeCriteriaThemes(t *testing.T) {
	c, err := NormalizeCriteria(models.PsychologistSearchCriteria{Themes: []string{"anxiety", " ", "Grief"}})
	if err != nil {
		t.Fatalf("NormalizeCriteria: %v", err)
	}
	if len(c.Themes) != 2 || c.Themes[0] != "ANXIETY" || c.Themes[1] != "GRIEF" {
		t.Fatalf("themes = %v", c.Themes)
	}

	_, err = NormalizeCriteria(models.PsychologistSearchCriteria{Themes: []string{"ASTROLOGY"}})
	if !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("err = %v", err)
	}
}

func TestNormalizeCriteriaRejectsBadInput(t *testing.T) {
	from := h10
	to := h9
	bad := 7.0
	cases := []models.PsychologistSearchCriteria{
		{AvailableFrom: &from, AvailableTo: &to},
		{MinRating: &bad},
		{SortBy: "POPULARITY"},
		{SortDirection: "SIDEWAYS"},
	}
	for _, c := range cases {
		if _, err := NormalizeCriteria(c); !errors.Is(err, ErrInvalidCriteria) {
			t.Errorf("NormalizeCriteria(%+v) err = %v", c, err)
		}
	}
}

func TestSearchPaging(t *testing.T) {
	docs := make([]models.PsychologistSearchModel, 0, 3)
	for _, id := range []string{"a", "b", "c"} {
		docs = append(docs, models.PsychologistSearchModel{ID: id})
	}
	q := &QueryService{Replica: newMemReplica(docs...)}

	res, err := q.Search(ctx, models.PsychologistSearchCriteria{Size: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 3 || res.TotalPages != 2 || res.Size != 2 {
		t.Fatalf("result = %+v", res)
	}
}

func TestAvailabilityFiltersWindow(t *testing.T) {
	doc := replicaDoc()
	doc.Availability = append(doc.Availability,
		models.AvailabilitySlotSearchModel{ID: "taken", StartTime: h11, EndTime: h11.Add(time.Hour), SessionID: "s9"})
	q := &QueryService{Replica: newMemReplica(doc)}

	got, err := q.Availability(ctx, "P1", h10, time.Time{})
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if len(got) != 1 || got[0].ID != "slot-10" {
		t.Fatalf("got %+v", got)
	}

	all, _ := q.Availability(ctx, "P1", time.Time{}, time.Time{})
	if len(all) != 2 || all[0].ID != "slot-9" {
		t.Fatalf("got %+v", all)
	}

	if _, err := q.Availability(ctx, "ghost", time.Time{}, time.Time{}); !errors.Is(err, ErrPsychologistNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := q.Availability(ctx, "P1", h11, h9); !errors.Is(err, ErrInvalidCriteria) {
		t.Fatalf("err = %v", err)
	}
}
