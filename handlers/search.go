package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"psibooking/models"
	"psibooking/services/search"

	"github.com/gin-gonic/gin"
)

// SearchQueries is the read side served by the search API.
type SearchQueries interface {
	Search(ctx context.Context, c models.PsychologistSearchCriteria) (*search.Result, error)
	Get(ctx context.Context, psychologistID string) (*models.PsychologistSearchModel, error)
	Availability(ctx context.Context, psychologistID string, from, to time.Time) ([]models.AvailabilitySlotSearchModel, error)
}

type SearchHandler struct {
	Queries SearchQueries
}

func NewSearchHandler(queries SearchQueries) *SearchHandler {
	return &SearchHandler{Queries: queries}
}

type searchPage struct {
	Items      []IndexedPsychologistResponse `json:"items"`
	Total      int64                         `json:"total"`
	Page       int                           `json:"page"`
	Size       int                           `json:"size"`
	TotalPages int                           `json:"totalPages"`
}

// SearchPsychologists handles GET /api/v1/search/psychologists.
func (h *SearchHandler) SearchPsychologists(c *gin.Context) {
	criteria, err := criteriaFromQuery(c)
	if err != nil {
		badRequest(c, "invalid search parameters", err)
		return
	}
	res, err := h.Queries.Search(c.Request.Context(), criteria)
	if err != nil {
		writeSearchError(c, err)
		return
	}
	page := searchPage{
		Items:      make([]IndexedPsychologistResponse, 0, len(res.Items)),
		Total:      res.Total,
		Page:       res.Page,
		Size:       res.Size,
		TotalPages: res.TotalPages,
	}
	for i := range res.Items {
		page.Items = append(page.Items, newIndexedPsychologist(&res.Items[i]))
	}
	c.JSON(http.StatusOK, page)
}

// GetIndexedPsychologist handles GET /api/v1/search/psychologists/:id.
func (h *SearchHandler) GetIndexedPsychologist(c *gin.Context) {
	doc, err := h.Queries.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeSearchError(c, err)
		return
	}
	c.JSON(http.StatusOK, newIndexedPsychologist(doc))
}

// IndexedAvailability handles GET /api/v1/search/psychologists/:id/availability.
func (h *SearchHandler) IndexedAvailability(c *gin.Context) {
	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		t, err := parseDateOrNaive(raw)
		if err != nil {
			badRequest(c, "invalid from", err)
			return
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseDateOrNaive(raw)
		if err != nil {
			badRequest(c, "invalid to", err)
			return
		}
		to = t
	}
	slots, err := h.Queries.Availability(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		writeSearchError(c, err)
		return
	}
	c.JSON(http.StatusOK, newIndexedSlots(slots))
}

func criteriaFromQuery(c *gin.Context) (models.PsychologistSearchCriteria, error) {
	criteria := models.PsychologistSearchCriteria{
		Name:          c.Query("name"),
		IsActive:      true,
		SortBy:        models.SortBy(c.Query("sortBy")),
		SortDirection: models.SortDirection(c.Query("sortDirection")),
	}
	for _, raw := range c.QueryArray("themes") {
		criteria.Themes = append(criteria.Themes, strings.Split(raw, ",")...)
	}
	if raw := c.Query("isActive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return criteria, err
		}
		criteria.IsActive = v
	}
	if raw := c.Query("availableFrom"); raw != "" {
		t, err := parseDateOrNaive(raw)
		if err != nil {
			return criteria, err
		}
		criteria.AvailableFrom = &t
	}
	if raw := c.Query("availableTo"); raw != "" {
		t, err := parseDateOrNaive(raw)
		if err != nil {
			return criteria, err
		}
		criteria.AvailableTo = &t
	}
	if raw := c.Query("minRating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return criteria, err
		}
		criteria.MinRating = &v
	}
	if raw := c.Query("minExperience"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return criteria, err
		}
		criteria.MinExperience = &v
	}
	var err error
	if criteria.Page, err = intQuery(c, "page"); err != nil {
		return criteria, err
	}
	if criteria.Size, err = intQuery(c, "size"); err != nil {
		return criteria, err
	}
	return criteria, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
