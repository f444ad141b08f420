package models

import "time"

// SlotStatus is the lifecycle state of an AvailabilitySlot.
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "AVAILABLE"
	SlotStatusBooked    SlotStatus = "BOOKED"
	SlotStatusBlocked   SlotStatus = "BLOCKED"
)

// SlotDuration is the canonical length of a bookable slot.
const SlotDuration = time.Hour

// AvailabilitySlot is one discrete bookable hour for one psychologist.
// StartTime and EndTime are naive wall-clock values in the psychologist's zone,
// persisted with a UTC location so that the wall fields survive round trips.
type AvailabilitySlot struct {
	ID             string     `bson:"id" json:"id"`
	PsychologistID string     `bson:"psychologistId" json:"psychologistId"`
	StartTime      time.Time  `bson:"startTime" json:"startTime"`
	EndTime        time.Time  `bson:"endTime" json:"endTime"`
	Status         SlotStatus `bson:"status" json:"status"`
	SessionID      string     `bson:"sessionId,omitempty" json:"sessionId,omitempty"` // set only while BOOKED
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt"`
}
