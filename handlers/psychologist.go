package handlers

import (
	"net/http"
	"time"

	"psibooking/models"
	"psibooking/utils"

	"github.com/gin-gonic/gin"
)

// ListThemes handles GET /api/v1/psychologists/themes.
func (h *BookingHandler) ListThemes(c *gin.Context) {
	c.JSON(http.StatusOK, newThemeResponses(h.Service.Themes()))
}

// PsychologistsByTheme handles GET /api/v1/psychologists/by-theme/:theme.
func (h *BookingHandler) PsychologistsByTheme(c *gin.Context) {
	theme, ok := models.ParseTheme(c.Param("theme"))
	if !ok {
		badRequest(c, "unknown theme", nil)
		return
	}
	list, err := h.Service.PsychologistsByTheme(c.Request.Context(), theme)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	out := make([]PsychologistResponse, 0, len(list))
	for _, p := range list {
		out = append(out, newPsychologistResponse(p))
	}
	c.JSON(http.StatusOK, out)
}

// WeeklyAvailability handles GET /api/v1/psychologists/:id/weekly-availability.
// weekStart is a date (2006-01-02) or naive timestamp and defaults to today.
func (h *BookingHandler) WeeklyAvailability(c *gin.Context) {
	weekStart := time.Now()
	if raw := c.Query("weekStart"); raw != "" {
		parsed, err := parseDateOrNaive(raw)
		if err != nil {
			badRequest(c, "invalid weekStart", err)
			return
		}
		weekStart = parsed
	}
	zone := c.DefaultQuery("timezone", models.DefaultTimezone)

	slots, err := h.Service.WeeklyAvailability(c.Request.Context(), c.Param("id"), weekStart, zone)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotResponse{
			ID:             s.ID,
			PsychologistID: s.PsychologistID,
			StartTime:      formatNaive(s.StartTime),
			EndTime:        formatNaive(s.EndTime),
			Status:         s.Status,
		})
	}
	c.JSON(http.StatusOK, gin.H{"timezone": zone, "slots": out})
}

func parseDateOrNaive(raw string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return utils.ParseNaive(raw)
}
