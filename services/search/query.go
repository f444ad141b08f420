package search

import (
	"context"
	"sort"
	"strings"
	"time"

	replicaRepo "psibooking/database/repository/replica"
	"psibooking/models"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Result is one page of search hits.
type Result struct {
	Items      []models.PsychologistSearchModel `json:"items"`
	Total      int64                            `json:"total"`
	Page       int                              `json:"page"`
	Size       int                              `json:"size"`
	TotalPages int                              `json:"totalPages"`
}

// QueryService answers read queries from the replica. It never writes.
type QueryService struct {
	Replica replicaRepo.ReplicaRepository
}

func (q *QueryService) Search(ctx context.Context, c models.PsychologistSearchCriteria) (*Result, error) {
	c, err := NormalizeCriteria(c)
	if err != nil {
		return nil, err
	}
	items, total, err := q.Replica.Search(ctx, c)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.PsychologistSearchModel{}
	}
	pages := int((total + int64(c.Size) - 1) / int64(c.Size))
	return &Result{Items: items, Total: total, Page: c.Page, Size: c.Size, TotalPages: pages}, nil
}

func (q *QueryService) Get(ctx context.Context, psychologistID string) (*models.PsychologistSearchModel, error) {
	doc, err := q.Replica.FindByID(ctx, psychologistID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrPsychologistNotFound
	}
	return doc, nil
}

// Availability lists open slots that fit inside [from, to]. Zero bounds are open.
func (q *QueryService) Availability(ctx context.Context, psychologistID string, from, to time.Time) ([]models.AvailabilitySlotSearchModel, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, invalidCriteria("'to' is before 'from'")
	}
	doc, err := q.Get(ctx, psychologistID)
	if err != nil {
		return nil, err
	}
	out := []models.AvailabilitySlotSearchModel{}
	for _, s := range doc.Availability {
		if !s.IsAvailable {
			continue
		}
		if !from.IsZero() && s.StartTime.Before(from) {
			continue
		}
		if !to.IsZero() && s.EndTime.After(to) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// NormalizeCriteria validates c and fills defaults.
func NormalizeCriteria(c models.PsychologistSearchCriteria) (models.PsychologistSearchCriteria, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Page < 0 {
		c.Page = 0
	}
	switch {
	case c.Size <= 0:
		c.Size = DefaultPageSize
	case c.Size > MaxPageSize:
		c.Size = MaxPageSize
	}

	themes := make([]string, 0, len(c.Themes))
	for _, raw := range c.Themes {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		t, ok := models.ParseTheme(raw)
		if !ok {
			return c, invalidCriteria("unknown theme %q", raw)
		}
		themes = append(themes, string(t))
	}
	c.Themes = themes

	if c.AvailableFrom != nil && c.AvailableTo != nil && c.AvailableTo.Before(*c.AvailableFrom) {
		return c, invalidCriteria("availableTo is before availableFrom")
	}
	if c.MinRating != nil && (*c.MinRating < 0 || *c.MinRating > 5) {
		return c, invalidCriteria("minRating must be between 0 and 5")
	}

	c.SortBy = models.SortBy(strings.ToUpper(string(c.SortBy)))
	switch c.SortBy {
	case "":
		c.SortBy = models.SortByRating
	case models.SortByRating, models.SortByExperience, models.SortByName, models.SortByAvailabilityCount:
	default:
		return c, invalidCriteria("unknown sort %q", c.SortBy)
	}
	c.SortDirection = models.SortDirection(strings.ToUpper(string(c.SortDirection)))
	switch c.SortDirection {
	case "":
		c.SortDirection = models.SortDesc
		if c.SortBy == models.SortByName {
			c.SortDirection = models.SortAsc
		}
	case models.SortAsc, models.SortDesc:
	default:
		return c, invalidCriteria("unknown sort direction %q", c.SortDirection)
	}
	return c, nil
}
