package booking

import (
	"context"

	"psibooking/models"
)

// GetSession returns (nil, nil) when the session does not exist.
func (s *DefaultBookingService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, retryable("find session", err)
	}
	return session, nil
}
