package id

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Generator creates opaque IDs for job runs.
type Generator interface {
	NewID() (string, error)
}

// TimeOrdered yields UUIDv7 values. They sort by creation time, so the
// job_runs primary key grows append-only.
type TimeOrdered struct{}

func NewTimeOrdered() TimeOrdered {
	return TimeOrdered{}
}

func (TimeOrdered) NewID() (string, error) {
	v, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return v.String(), nil
}

// CreatedAt reads the millisecond timestamp embedded in a UUIDv7.
func CreatedAt(raw string) (time.Time, bool) {
	v, err := uuid.Parse(raw)
	if err != nil || v.Version() != 7 {
		return time.Time{}, false
	}
	sec, nsec := v.Time().UnixTime()
	return time.Unix(sec, nsec).UTC(), true
}
