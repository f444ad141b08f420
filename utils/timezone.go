package utils

import (
	"fmt"
	"time"
)

// NaiveLayout is the wire form of a zone-less local date-time.
const NaiveLayout = "2006-01-02T15:04:05"

// Naive drops t's location, keeping its wall clock. Naive values are carried
// with the UTC location so comparisons and storage never shift the fields.
func Naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// ParseNaive parses "2006-01-02T15:04:05" (seconds optional) as a naive value.
func ParseNaive(v string) (time.Time, error) {
	for _, layout := range []string{NaiveLayout, "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid local date-time %q, want %s", v, NaiveLayout)
}

// LoadZone resolves an IANA zone identifier.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("empty time zone")
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	return loc, nil
}

// Project converts a naive wall-clock value observed in from to the naive
// wall-clock value observed in to at the same instant.
func Project(t time.Time, from, to *time.Location) time.Time {
	instant := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), from)
	return Naive(instant.In(to))
}

// ProjectRange projects [start, end) from one zone to another. Each endpoint is
// resolved on its own, so a range spanning a DST change keeps its true length.
func ProjectRange(start, end time.Time, fromZone, toZone string) (time.Time, time.Time, error) {
	from, err := LoadZone(fromZone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := LoadZone(toZone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return Project(start, from, to), Project(end, from, to), nil
}
