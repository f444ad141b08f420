package handlers

import (
	"net/http"
	"strings"

	"psibooking/models"
	"psibooking/services/booking"
	"psibooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyHeader carries the client-chosen booking key. It wins over the
// body field when both are sent.
const IdempotencyHeader = "Idempotency-Key"

type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(service booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: service}
}

type bookSessionRequest struct {
	PsychologistID string `json:"psychologistId" binding:"required"`
	PatientID      string `json:"patientId" binding:"required"`
	StartTime      string `json:"startTime" binding:"required"`
	EndTime        string `json:"endTime" binding:"required"`
	IdempotencyKey string `json:"idempotencyKey"`
}

type rescheduleRequest struct {
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
}

// BookSession handles POST /api/v1/sessions.
func (h *BookingHandler) BookSession(c *gin.Context) {
	var req bookSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid booking request", err)
		return
	}
	start, err := utils.ParseNaive(req.StartTime)
	if err != nil {
		badRequest(c, "invalid startTime", err)
		return
	}
	end, err := utils.ParseNaive(req.EndTime)
	if err != nil {
		badRequest(c, "invalid endTime", err)
		return
	}
	key := strings.TrimSpace(c.GetHeader(IdempotencyHeader))
	if key == "" {
		key = strings.TrimSpace(req.IdempotencyKey)
	}

	session, err := h.Service.Book(c.Request.Context(), models.BookingIntent{
		PsychologistID: req.PsychologistID,
		PatientID:      req.PatientID,
		StartTime:      start,
		EndTime:        end,
		IdempotencyKey: key,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}
	getLogger(c).Info("session booked", zap.String("sessionId", session.ID), zap.String("idempotencyKey", key))
	c.JSON(http.StatusCreated, newSessionResponse(session))
}

// GetSession handles GET /api/v1/sessions/:id.
func (h *BookingHandler) GetSession(c *gin.Context) {
	session, err := h.Service.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	if session == nil {
		utils.JSONCodedError(c, http.StatusNotFound, booking.ErrSessionNotFound.Code, "session not found", "")
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session))
}

// CancelSession handles PUT /api/v1/sessions/:id/cancel.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	session, err := h.Service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session))
}

// ConfirmSession handles POST /api/v1/sessions/:id/confirm?timezone=.
func (h *BookingHandler) ConfirmSession(c *gin.Context) {
	zone := c.DefaultQuery("timezone", models.DefaultTimezone)
	confirmation, err := h.Service.ConfirmSession(c.Request.Context(), c.Param("id"), zone)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, newConfirmationResponse(confirmation))
}

// RescheduleSession handles PUT /api/v1/sessions/:id/reschedule.
func (h *BookingHandler) RescheduleSession(c *gin.Context) {
	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid reschedule request", err)
		return
	}
	start, err := utils.ParseNaive(req.StartTime)
	if err != nil {
		badRequest(c, "invalid startTime", err)
		return
	}
	end, err := utils.ParseNaive(req.EndTime)
	if err != nil {
		badRequest(c, "invalid endTime", err)
		return
	}
	session, err := h.Service.Reschedule(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session))
}
