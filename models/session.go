package models

import "time"

// SessionStatus is the lifecycle state of a Session.
type SessionStatus string

const (
	SessionStatusBooked    SessionStatus = "BOOKED"
	SessionStatusCancelled SessionStatus = "CANCELLED"
	SessionStatusCompleted SessionStatus = "COMPLETED"
	SessionStatusNoShow    SessionStatus = "NO_SHOW"
)

// Terminal reports whether no further transition is possible from s.
func (s SessionStatus) Terminal() bool {
	return s == SessionStatusCancelled || s == SessionStatusCompleted || s == SessionStatusNoShow
}

// Session is a patient's reservation of one slot.
type Session struct {
	ID             string        `bson:"id" json:"id"`
	PsychologistID string        `bson:"psychologistId" json:"psychologistId"`
	PatientID      string        `bson:"patientId" json:"patientId"`
	StartTime      time.Time     `bson:"startTime" json:"startTime"` // same clock domain as the slot
	EndTime        time.Time     `bson:"endTime" json:"endTime"`
	Status         SessionStatus `bson:"status" json:"status"`
	IdempotencyKey string        `bson:"idempotencyKey" json:"idempotencyKey"` // unique across all sessions
	CreatedAt      time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// BookingIntent is the client request to reserve a session.
type BookingIntent struct {
	PsychologistID string    `json:"psychologistId" binding:"required"`
	PatientID      string    `json:"patientId" binding:"required"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	IdempotencyKey string    `json:"idempotencyKey"`
}
