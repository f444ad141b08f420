package booking

import (
	"errors"
	"fmt"
)

// Kind groups booking errors by how callers should react.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidStateTransition
	KindSlotUnavailable
	KindInvalidIntent
	KindRetryable
)

// BookingError is a domain rejection. Two BookingErrors match under
// errors.Is when their codes are equal, so detailed copies still match the
// package sentinels.
type BookingError struct {
	Code    string
	Kind    Kind
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BookingError) Is(target error) bool {
	t, ok := target.(*BookingError)
	return ok && t.Code == e.Code
}

var (
	ErrSessionNotFound = &BookingError{Code: "sessionNotFound", Kind: KindNotFound, Message: "session not found"}
	ErrSlotNotFound    = &BookingError{Code: "slotNotFound", Kind: KindNotFound, Message: "no slot for this psychologist and time range"}

	ErrPsychologistNotFound = &BookingError{Code: "psychologistNotFound", Kind: KindNotFound, Message: "psychologist not found"}

	ErrSlotUnavailable        = &BookingError{Code: "slotUnavailable", Kind: KindSlotUnavailable, Message: "slot is not available"}
	ErrInvalidStateTransition = &BookingError{Code: "invalidStateTransition", Kind: KindInvalidStateTransition, Message: "operation not allowed in the current session status"}
	ErrInvalidIntent          = &BookingError{Code: "invalidIntent", Kind: KindInvalidIntent, Message: "invalid request"}

	// ErrBookingInFlight answers a replay while the original request has not
	// committed or rolled back yet.
	ErrBookingInFlight = &BookingError{Code: "bookingInFlight", Kind: KindRetryable, Message: "a booking with this idempotency key is in progress"}
)

func withDetail(base *BookingError, format string, args ...any) error {
	return &BookingError{Code: base.Code, Kind: base.Kind, Message: fmt.Sprintf(format, args...)}
}

// RetryableError wraps a store failure. The state machine never retries on
// its own; the caller may.
type RetryableError struct {
	Op  string
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

func retryable(op string, err error) error {
	return &RetryableError{Op: op, Err: err}
}

// KindOf classifies err for transport mapping.
func KindOf(err error) Kind {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Kind
	}
	var re *RetryableError
	if errors.As(err, &re) {
		return KindRetryable
	}
	return KindUnknown
}
