package grid

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInterval     = errors.New("interval start is not before end")
	ErrNonPositiveDuration = errors.New("session duration must be positive")
)

type RecordKind string

const (
	RecordSession RecordKind = "session"
	RecordEvent   RecordKind = "event"
)

// DataError describes a single structurally invalid record. The record is
// excluded from classification; the rest of the grid is unaffected.
type DataError struct {
	Kind RecordKind
	ID   string
	Err  error
}

func (e *DataError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("invalid %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("invalid %s %s: %v", e.Kind, e.ID, e.Err)
}

func (e *DataError) Unwrap() error {
	return e.Err
}
