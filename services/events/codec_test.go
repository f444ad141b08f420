package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

var (
	t9  = time.Date(2024, 7, 15, 9, 0, 0, 0, time.UTC)
	t10 = time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC)
	t11 = time.Date(2024, 7, 15, 11, 0, 0, 0, time.UTC)
)

func TestEncodeBookedWireShape(t *testing.T) {
	tag, body, err := Encode(SessionBooked{
		SessionID:      "s1",
		PsychologistID: "p1",
		PatientID:      "u1",
		SlotID:         "slot-1",
		StartTime:      t9,
		EndTime:        t10,
		IdempotencyKey: "k1",
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if tag != "SessionBooked" {
		t.Fatalf("tag = %q", tag)
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{
		"sessionId":      "s1",
		"psychologistId": "p1",
		"patientId":      "u1",
		"slotId":         "slot-1",
		"startTime":      "2024-07-15T09:00:00",
		"endTime":        "2024-07-15T10:00:00",
		"idempotencyKey": "k1",
	}
	if len(fields) != len(want) {
		t.Fatalf("fields = %v, want %v", fields, want)
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("%s = %v, want %v", k, fields[k], v)
		}
	}
}

func TestEncodeDecodeEachEvent(t *testing.T) {
	evs := []Event{
		SessionBooked{SessionID: "s1", PsychologistID: "p1", PatientID: "u1", SlotID: "a", StartTime: t9, EndTime: t10, IdempotencyKey: "k"},
		SessionCancelled{SessionID: "s1", PsychologistID: "p1", PatientID: "u1", SlotID: "a", StartTime: t9, EndTime: t10},
		SessionRescheduled{SessionID: "s1", PsychologistID: "p1", PatientID: "u1", OldSlotID: "a", NewSlotID: "b",
			OldStartTime: t9, OldEndTime: t10, NewStartTime: t10, NewEndTime: t11},
	}
	for _, ev := range evs {
		tag, body, err := Encode(ev)
		if err != nil {
			t.Fatalf("Encode(%T): %v", ev, err)
		}
		got, err := Decode(tag, body)
		if err != nil {
			t.Fatalf("Decode(%s): %v", tag, err)
		}
		if got != ev {
			t.Fatalf("decoded %#v, want %#v", got, ev)
		}
	}
}

func TestDecodeWithoutSlotID(t *testing.T) {
	body := []byte(`{"sessionId":"s1","psychologistId":"p1","patientId":"u1","startTime":"2024-07-15T09:00:00","endTime":"2024-07-15T10:00:00"}`)
	ev, err := Decode(TagSessionCancelled, body)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	c, ok := ev.(SessionCancelled)
	if !ok {
		t.Fatalf("got %T", ev)
	}
	if c.SlotID != "" || !c.StartTime.Equal(t9) {
		t.Fatalf("got %#v", c)
	}
}

func TestDecodeMalformed(t *testing.T) {
	cases := map[string]struct {
		tag  string
		body string
	}{
		"unknown tag":    {"SessionExploded", `{}`},
		"not json":       {TagSessionBooked, `{"sessionId":`},
		"missing id":     {TagSessionBooked, `{"psychologistId":"p1","startTime":"2024-07-15T09:00:00","endTime":"2024-07-15T10:00:00"}`},
		"missing psych":  {TagSessionCancelled, `{"sessionId":"s1","startTime":"2024-07-15T09:00:00","endTime":"2024-07-15T10:00:00"}`},
		"bad time":       {TagSessionBooked, `{"sessionId":"s1","psychologistId":"p1","startTime":"yesterday","endTime":"2024-07-15T10:00:00"}`},
		"inverted range": {TagSessionCancelled, `{"sessionId":"s1","psychologistId":"p1","startTime":"2024-07-15T10:00:00","endTime":"2024-07-15T09:00:00"}`},
		"missing new":    {TagSessionRescheduled, `{"sessionId":"s1","psychologistId":"p1","oldStartTime":"2024-07-15T09:00:00","oldEndTime":"2024-07-15T10:00:00"}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(tc.tag, []byte(tc.body))
			if !errors.Is(err, ErrMalformedEvent) {
				t.Fatalf("err = %v, want ErrMalformedEvent", err)
			}
		})
	}
}

func TestPublisherTaskUsesTagAsType(t *testing.T) {
	tag, payload, err := Encode(SessionCancelled{SessionID: "s1", PsychologistID: "p1", StartTime: t9, EndTime: t10})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	p := &AsynqPublisher{queue: "events", maxRetry: 3}
	task := p.task(tag, payload)
	if task.Type() != TagSessionCancelled {
		t.Fatalf("type = %q", task.Type())
	}
	if _, err := Decode(task.Type(), task.Payload()); err != nil {
		t.Fatalf("payload does not decode: %v", err)
	}
}
