package booking

import (
	"context"
	"crypto/rand"

	"psibooking/models"
	"psibooking/utils"
)

const confirmationPrefix = "PSI-"

// ConfirmSession renders the session in both parties' zones. A new code is
// issued on every call; codes are not stored.
func (s *DefaultBookingService) ConfirmSession(ctx context.Context, sessionID, patientZone string) (*models.SessionConfirmation, error) {
	if patientZone == "" {
		patientZone = models.DefaultTimezone
	}
	if _, err := utils.LoadZone(patientZone); err != nil {
		return nil, withDetail(ErrInvalidIntent, "%v", err)
	}

	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, retryable("find session", err)
	}
	if session == nil {
		return nil, withDetail(ErrSessionNotFound, "session %s not found", sessionID)
	}
	psych, err := s.Psychologists.FindByID(ctx, session.PsychologistID)
	if err != nil {
		return nil, retryable("find psychologist", err)
	}
	if psych == nil {
		return nil, withDetail(ErrPsychologistNotFound, "psychologist %s not found", session.PsychologistID)
	}

	patientStart, patientEnd, err := utils.ProjectRange(session.StartTime, session.EndTime, psych.Zone(), patientZone)
	if err != nil {
		// Only the stored psychologist zone can be bad here.
		return nil, retryable("project session time", err)
	}

	return &models.SessionConfirmation{
		SessionID:             session.ID,
		PsychologistName:      psych.Name,
		PsychologistTimezone:  psych.Zone(),
		PsychologistLocalTime: session.StartTime,
		PsychologistLocalEnd:  session.EndTime,
		PatientTimezone:       patientZone,
		PatientLocalTime:      patientStart,
		PatientLocalEnd:       patientEnd,
		Theme:                 themeLabel(psych.Themes),
		ConfirmationCode:      NewConfirmationCode(),
	}, nil
}

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8
	// Largest multiple of len(codeAlphabet) that fits in a byte.
	codeByteLimit = 252
)

// NewConfirmationCode returns "PSI-" followed by 8 characters drawn uniformly
// from A-Z and 0-9.
func NewConfirmationCode() string {
	code := make([]byte, 0, codeLength)
	buf := make([]byte, 2*codeLength)
	for len(code) < codeLength {
		_, _ = rand.Read(buf) // crypto/rand.Read does not fail since Go 1.24
		for _, b := range buf {
			if b < codeByteLimit && len(code) < codeLength {
				code = append(code, codeAlphabet[int(b)%len(codeAlphabet)])
			}
		}
	}
	return confirmationPrefix + string(code)
}

func themeLabel(themes []models.Theme) string {
	if len(themes) == 0 {
		return models.GeneralConsultation
	}
	return themes[0].DisplayName()
}
