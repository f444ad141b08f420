package handlers

import (
	"net/http"

	"psibooking/services/events"
	"psibooking/utils"

	"github.com/gin-gonic/gin"
)

// NewHealthHandler reports store reachability and, when stats is set, the
// event publisher counters.
func NewHealthHandler(stats func() events.Stats) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := utils.GetHealthStatus()
		body := gin.H{
			"status": "ok",
			"stores": health,
		}
		if !health.CheckedAt.IsZero() && !health.Mongo {
			body["status"] = "degraded"
		}
		if stats != nil {
			body["events"] = stats()
		}
		c.JSON(http.StatusOK, body)
	}
}
