package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedEvent marks a payload that can never be applied. Transports
// dead-letter it instead of retrying.
var ErrMalformedEvent = errors.New("malformed event")

const wireTimeLayout = "2006-01-02T15:04:05"

type bookedWire struct {
	SessionID      string `json:"sessionId"`
	PsychologistID string `json:"psychologistId"`
	PatientID      string `json:"patientId"`
	SlotID         string `json:"slotId,omitempty"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	IdempotencyKey string `json:"idempotencyKey"`
}

type cancelledWire struct {
	SessionID      string `json:"sessionId"`
	PsychologistID string `json:"psychologistId"`
	PatientID      string `json:"patientId"`
	SlotID         string `json:"slotId,omitempty"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
}

type rescheduledWire struct {
	SessionID      string `json:"sessionId"`
	PsychologistID string `json:"psychologistId"`
	PatientID      string `json:"patientId"`
	OldSlotID      string `json:"oldSlotId,omitempty"`
	NewSlotID      string `json:"newSlotId,omitempty"`
	OldStartTime   string `json:"oldStartTime"`
	OldEndTime     string `json:"oldEndTime"`
	NewStartTime   string `json:"newStartTime"`
	NewEndTime     string `json:"newEndTime"`
}

func formatTime(t time.Time) string { return t.Format(wireTimeLayout) }

// Encode renders ev as its tag and JSON body.
func Encode(ev Event) (string, []byte, error) {
	var body any
	switch e := ev.(type) {
	case SessionBooked:
		body = bookedWire{
			SessionID:      e.SessionID,
			PsychologistID: e.PsychologistID,
			PatientID:      e.PatientID,
			SlotID:         e.SlotID,
			StartTime:      formatTime(e.StartTime),
			EndTime:        formatTime(e.EndTime),
			IdempotencyKey: e.IdempotencyKey,
		}
	case SessionCancelled:
		body = cancelledWire{
			SessionID:      e.SessionID,
			PsychologistID: e.PsychologistID,
			PatientID:      e.PatientID,
			SlotID:         e.SlotID,
			StartTime:      formatTime(e.StartTime),
			EndTime:        formatTime(e.EndTime),
		}
	case SessionRescheduled:
		body = rescheduledWire{
			SessionID:      e.SessionID,
			PsychologistID: e.PsychologistID,
			PatientID:      e.PatientID,
			OldSlotID:      e.OldSlotID,
			NewSlotID:      e.NewSlotID,
			OldStartTime:   formatTime(e.OldStartTime),
			OldEndTime:     formatTime(e.OldEndTime),
			NewStartTime:   formatTime(e.NewStartTime),
			NewEndTime:     formatTime(e.NewEndTime),
		}
	default:
		return "", nil, fmt.Errorf("unsupported event %T", ev)
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", nil, err
	}
	return ev.Tag(), b, nil
}

// Decode parses a body published under tag. Every failure wraps ErrMalformedEvent.
func Decode(tag string, payload []byte) (Event, error) {
	switch tag {
	case TagSessionBooked:
		var w bookedWire
		if err := unmarshal(payload, &w); err != nil {
			return nil, err
		}
		start, end, err := parseRange(w.StartTime, w.EndTime, "startTime", "endTime")
		if err != nil {
			return nil, err
		}
		if err := requireIDs(w.SessionID, w.PsychologistID); err != nil {
			return nil, err
		}
		return SessionBooked{
			SessionID:      w.SessionID,
			PsychologistID: w.PsychologistID,
			PatientID:      w.PatientID,
			SlotID:         w.SlotID,
			StartTime:      start,
			EndTime:        end,
			IdempotencyKey: w.IdempotencyKey,
		}, nil

	case TagSessionCancelled:
		var w cancelledWire
		if err := unmarshal(payload, &w); err != nil {
			return nil, err
		}
		start, end, err := parseRange(w.StartTime, w.EndTime, "startTime", "endTime")
		if err != nil {
			return nil, err
		}
		if err := requireIDs(w.SessionID, w.PsychologistID); err != nil {
			return nil, err
		}
		return SessionCancelled{
			SessionID:      w.SessionID,
			PsychologistID: w.PsychologistID,
			PatientID:      w.PatientID,
			SlotID:         w.SlotID,
			StartTime:      start,
			EndTime:        end,
		}, nil

	case TagSessionRescheduled:
		var w rescheduledWire
		if err := unmarshal(payload, &w); err != nil {
			return nil, err
		}
		oldStart, oldEnd, err := parseRange(w.OldStartTime, w.OldEndTime, "oldStartTime", "oldEndTime")
		if err != nil {
			return nil, err
		}
		newStart, newEnd, err := parseRange(w.NewStartTime, w.NewEndTime, "newStartTime", "newEndTime")
		if err != nil {
			return nil, err
		}
		if err := requireIDs(w.SessionID, w.PsychologistID); err != nil {
			return nil, err
		}
		return SessionRescheduled{
			SessionID:      w.SessionID,
			PsychologistID: w.PsychologistID,
			PatientID:      w.PatientID,
			OldSlotID:      w.OldSlotID,
			NewSlotID:      w.NewSlotID,
			OldStartTime:   oldStart,
			OldEndTime:     oldEnd,
			NewStartTime:   newStart,
			NewEndTime:     newEnd,
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown tag %q", ErrMalformedEvent, tag)
}

func unmarshal(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return nil
}

func requireIDs(sessionID, psychologistID string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: missing sessionId", ErrMalformedEvent)
	}
	if psychologistID == "" {
		return fmt.Errorf("%w: missing psychologistId", ErrMalformedEvent)
	}
	return nil
}

func parseRange(startRaw, endRaw, startName, endName string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(wireTimeLayout, startRaw, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, startName, err)
	}
	end, err := time.ParseInLocation(wireTimeLayout, endRaw, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s: %v", ErrMalformedEvent, endName, err)
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s not before %s", ErrMalformedEvent, startName, endName)
	}
	return start, end, nil
}
