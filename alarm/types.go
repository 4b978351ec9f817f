/*
Package alarm implements the core engine for recurring day-of-week alarms.

PURPOSE:
  This package contains the domain types and algorithms for weekly alarm
  scheduling: alarm records, next-occurrence computation, scheduler
  identifier encoding, the read-through record cache, and the scheduling
  service that drives an external exact-alarm scheduler.

KEY CONCEPTS IN THIS FILE (types.go):
  - Record: One alarm definition (id, time-of-day, active weekdays)
  - TimeOfDay: Wall-clock hour/minute with no date component
  - Weekday: Canonical weekday number, Monday=1 .. Sunday=7
  - Day tokens: The seven short codes ("MON".."SUN") used as map keys

DESIGN PRINCIPLES:
  1. Determinism: All time logic takes an explicit reference instant
  2. Local wall-clock: No time-zone conversion beyond the instant's location
  3. Fixed mapping: Day tokens resolve through a constant table, never
     derived from locale or string parsing

SEE ALSO:
  - recurrence.go: Next-occurrence computation
  - schedid.go: Scheduler identifier encoding
  - cache.go: Read-through record cache
  - service.go: Scheduling orchestration
*/
package alarm

import (
	"fmt"
	"time"
)

// =============================================================================
// WEEKDAY - Canonical weekday numbering (Monday=1 .. Sunday=7)
// =============================================================================

// Weekday is the canonical weekday number used throughout the engine.
// Monday is 1 and Sunday is 7, so every value fits in three bits.
type Weekday int

const (
	Monday    Weekday = 1
	Tuesday   Weekday = 2
	Wednesday Weekday = 3
	Thursday  Weekday = 4
	Friday    Weekday = 5
	Saturday  Weekday = 6
	Sunday    Weekday = 7
)

// dayTokens is the fixed token table. Tokens absent from this table are not
// weekdays and are silently skipped by the scheduling service.
var dayTokens = map[string]Weekday{
	"MON": Monday,
	"TUE": Tuesday,
	"WED": Wednesday,
	"THU": Thursday,
	"FRI": Friday,
	"SAT": Saturday,
	"SUN": Sunday,
}

// DayTokens lists the seven canonical tokens in weekday order.
var DayTokens = []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

// ParseDayToken resolves a short day code to its canonical weekday.
func ParseDayToken(token string) (Weekday, bool) {
	w, ok := dayTokens[token]
	return w, ok
}

// WeekdayOf converts a time.Weekday (Sunday=0) to the canonical numbering.
func WeekdayOf(t time.Time) Weekday {
	wd := int(t.Weekday())
	if wd == 0 {
		return Sunday
	}
	return Weekday(wd)
}

func (w Weekday) Valid() bool { return w >= Monday && w <= Sunday }

func (w Weekday) String() string {
	if w.Valid() {
		return DayTokens[w-1]
	}
	return fmt.Sprintf("Weekday(%d)", int(w))
}

// =============================================================================
// TIME OF DAY - Wall-clock hour and minute
// =============================================================================

// TimeOfDay is a wall-clock time with no meaningful date component.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute}
}

// OnDate places the time of day on the calendar date of t, in t's location.
func (td TimeOfDay) OnDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), td.Hour, td.Minute, 0, 0, t.Location())
}

func (td TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", td.Hour, td.Minute)
}

// =============================================================================
// RECORD - One alarm definition
// =============================================================================

// Record describes one recurring alarm. Records are immutable once created;
// updates are modeled as saving a replacement record.
//
// ID must stay within [0, 2^28) for the scheduler identifier encoding to be
// collision-free across alarms (see schedid.go).
type Record struct {
	ID   int
	Time TimeOfDay
	Days map[string]bool
}

// ActiveWeekdays resolves the record's active day tokens to canonical
// weekdays, in weekday order. Unknown tokens are skipped; a missing key is
// equivalent to inactive.
func (r Record) ActiveWeekdays() []Weekday {
	var out []Weekday
	for _, token := range DayTokens {
		if r.Days[token] {
			out = append(out, dayTokens[token])
		}
	}
	return out
}
