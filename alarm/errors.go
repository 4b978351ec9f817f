/*
errors.go - Centralized error types for the alarm engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match sentinel errors with errors.Is and structured errors with
  errors.As.

ERROR CATEGORIES:
  1. Encoding errors - Identifier range/weekday violations
  2. Storage errors  - Persistent-store failures during save/load
  3. Scheduling errors - Per-weekday scheduler call failures

POLICY:
  - Platform-capability failures are never surfaced as errors; the service
    logs them and degrades to "unavailable" (see service.go).
  - Per-weekday scheduler failures are independent: every active day is
    attempted and the failures are aggregated, not short-circuited.
*/
package alarm

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAlarmIDRange is returned when an alarm id does not fit in the
	// identifier encoding's 28-bit field.
	ErrAlarmIDRange = errors.New("alarm id outside encodable range")

	// ErrInvalidWeekday is returned for weekday values outside 1..7.
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrStorage wraps persistent-store failures during save or load.
	// The in-memory cache is left untouched when it is returned.
	ErrStorage = errors.New("alarm storage failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// AlarmIDRangeError reports an alarm id that cannot be encoded.
type AlarmIDRangeError struct {
	AlarmID int
}

func (e *AlarmIDRangeError) Error() string {
	return fmt.Sprintf("alarm id %d outside encodable range [0, %d)", e.AlarmID, MaxAlarmID)
}

func (e *AlarmIDRangeError) Unwrap() error { return ErrAlarmIDRange }

// DayError reports a failure scheduling or cancelling one weekday slot.
type DayError struct {
	AlarmID int
	Day     Weekday
	At      time.Time // zero for cancel failures
	Err     error
}

func (e *DayError) Error() string {
	if e.At.IsZero() {
		return fmt.Sprintf("alarm %d %s: %v", e.AlarmID, e.Day, e.Err)
	}
	return fmt.Sprintf("alarm %d %s at %s: %v", e.AlarmID, e.Day, e.At.Format(time.RFC3339), e.Err)
}

func (e *DayError) Unwrap() error { return e.Err }

// storageErr wraps a store failure under ErrStorage with an operation label.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
