// Package events defines the session domain events and their transports.
package events

import "time"

// Wire tags. These and the JSON field names are the compatibility surface
// between the booking service and its consumers.
const (
	TagSessionBooked      = "SessionBooked"
	TagSessionCancelled   = "SessionCancelled"
	TagSessionRescheduled = "SessionRescheduled"
)

// Tags lists every event tag.
var Tags = []string{TagSessionBooked, TagSessionCancelled, TagSessionRescheduled}

// Event is a fact about a committed session transition. The set of
// implementations is closed: SessionBooked, SessionCancelled and
// SessionRescheduled.
type Event interface {
	Tag() string
	sessionEvent()
}

// SessionBooked is emitted once a slot has been reserved for a session.
type SessionBooked struct {
	SessionID      string
	PsychologistID string
	PatientID      string
	SlotID         string
	StartTime      time.Time
	EndTime        time.Time
	IdempotencyKey string
}

// SessionCancelled is emitted once a booked session has been cancelled.
type SessionCancelled struct {
	SessionID      string
	PsychologistID string
	PatientID      string
	SlotID         string
	StartTime      time.Time
	EndTime        time.Time
}

// SessionRescheduled is emitted once a session has moved to another slot of
// the same psychologist.
type SessionRescheduled struct {
	SessionID      string
	PsychologistID string
	PatientID      string
	OldSlotID      string
	NewSlotID      string
	OldStartTime   time.Time
	OldEndTime     time.Time
	NewStartTime   time.Time
	NewEndTime     time.Time
}

func (SessionBooked) Tag() string      { return TagSessionBooked }
func (SessionCancelled) Tag() string   { return TagSessionCancelled }
func (SessionRescheduled) Tag() string { return TagSessionRescheduled }

func (SessionBooked) sessionEvent()      {}
func (SessionCancelled) sessionEvent()   {}
func (SessionRescheduled) sessionEvent() {}
