package handlers

import (
	"errors"
	"net/http"

	"psibooking/services/booking"
	"psibooking/services/search"
	"psibooking/utils"

	"github.com/gin-gonic/gin"
)

func bookingStatus(kind booking.Kind) int {
	switch kind {
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindInvalidStateTransition, booking.KindSlotUnavailable:
		return http.StatusConflict
	case booking.KindInvalidIntent:
		return http.StatusBadRequest
	case booking.KindRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeBookingError maps a booking service failure onto the HTTP response.
func writeBookingError(c *gin.Context, err error) {
	status := bookingStatus(booking.KindOf(err))
	var be *booking.BookingError
	if errors.As(err, &be) {
		utils.JSONCodedError(c, status, be.Code, be.Message, "")
		return
	}
	if status == http.StatusServiceUnavailable {
		utils.JSONCodedError(c, status, "retryable", "temporarily unavailable, retry the request", err.Error())
		return
	}
	utils.JSONError(c, status, "internal error", err.Error())
}

func writeSearchError(c *gin.Context, err error) {
	var se *search.SearchError
	if errors.As(err, &se) {
		status := http.StatusBadRequest
		if errors.Is(err, search.ErrPsychologistNotFound) {
			status = http.StatusNotFound
		}
		utils.JSONCodedError(c, status, se.Code, se.Message, "")
		return
	}
	utils.JSONCodedError(c, http.StatusServiceUnavailable, "retryable", "search replica unavailable", err.Error())
}

func badRequest(c *gin.Context, message string, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	utils.JSONCodedError(c, http.StatusBadRequest, "invalidIntent", message, details)
}
