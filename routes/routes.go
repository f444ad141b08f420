package routes

import (
	"time"

	"psibooking/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Surfaces selects which APIs a process serves.
type Surfaces struct {
	Booking bool
	Search  bool
}

// RegisterSessionRoutes registers the booking state machine endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/v1/sessions")
	{
		api.POST("", hb.BookSession)
		api.GET("/:id", hb.GetSession)
		api.PUT("/:id/cancel", hb.CancelSession)
		api.POST("/:id/confirm", hb.ConfirmSession)
		api.PUT("/:id/reschedule", hb.RescheduleSession)
	}
}

// RegisterPsychologistRoutes registers catalog and weekly availability endpoints.
func RegisterPsychologistRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/v1/psychologists")
	{
		api.GET("/themes", hb.ListThemes)
		api.GET("/by-theme/:theme", hb.PsychologistsByTheme)
		api.GET("/:id/weekly-availability", hb.WeeklyAvailability)
	}
}

// RegisterSearchRoutes registers the replica read endpoints.
func RegisterSearchRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/v1/search/psychologists")
	{
		api.GET("", hb.SearchPsychologists)
		api.GET("/:id", hb.GetIndexedPsychologist)
		api.GET("/:id/availability", hb.IndexedAvailability)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, on Surfaces) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", handlers.IdempotencyHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	if on.Booking {
		RegisterSessionRoutes(r, hb)
		RegisterPsychologistRoutes(r, hb)
	}
	if on.Search {
		RegisterSearchRoutes(r, hb)
	}
	RegisterHealthRoute(r, hb)
}
