package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle groups all endpoint handlers into one struct. Nil entries
// are not routed.
type HandlerBundle struct {
	// Booking endpoints
	BookSession       gin.HandlerFunc
	GetSession        gin.HandlerFunc
	CancelSession     gin.HandlerFunc
	ConfirmSession    gin.HandlerFunc
	RescheduleSession gin.HandlerFunc

	// Psychologist catalog endpoints
	ListThemes           gin.HandlerFunc
	PsychologistsByTheme gin.HandlerFunc
	WeeklyAvailability   gin.HandlerFunc

	// Search endpoints
	SearchPsychologists    gin.HandlerFunc
	GetIndexedPsychologist gin.HandlerFunc
	IndexedAvailability    gin.HandlerFunc

	Health gin.HandlerFunc
}
