package models

import "time"

// SessionConfirmation is the view returned when a patient confirms a session.
// Codes are generated per call and never persisted.
type SessionConfirmation struct {
	SessionID             string    `json:"sessionId"`
	PsychologistName      string    `json:"psychologistName"`
	PsychologistTimezone  string    `json:"psychologistTimezone"`
	PsychologistLocalTime time.Time `json:"psychologistLocalTime"`
	PsychologistLocalEnd  time.Time `json:"psychologistLocalEnd"`
	PatientTimezone       string    `json:"patientTimezone"`
	PatientLocalTime      time.Time `json:"patientLocalTime"`
	PatientLocalEnd       time.Time `json:"patientLocalEnd"`
	Theme                 string    `json:"theme"`
	ConfirmationCode      string    `json:"confirmationCode"`
}
