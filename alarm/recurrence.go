/*
recurrence.go - Next-occurrence computation for weekly alarms

PURPOSE:
  Given an alarm's time-of-day, a target weekday, and a reference instant,
  compute the next wall-clock instant at which that weekday's slot fires.
  This is the scheduling core: one call per (alarm, active weekday).

ALGORITHM:
  1. Build a candidate on the reference date at the alarm's hour/minute.
  2. daysToAdd = (target - weekdayOf(candidate)) mod 7, in [0, 6].
  3. daysToAdd == 0 and candidate strictly before now: today's slot already
     passed, roll a full week forward.
  4. Otherwise advance by daysToAdd days (zero means fire today).

  The result is never before the reference instant; it equals the reference
  only in the exact "today, now" case.

TIME SEMANTICS:
  Pure local wall-clock arithmetic in the reference instant's location.
  AddDate is calendar-day addition, so the hour/minute survive DST
  transitions the way the host platform defines them. No time-zone
  conversion is performed.

SEE ALSO:
  - schedid.go: Identifier for the computed occurrence
  - service.go: Drives this once per active weekday
*/
package alarm

import "time"

// daysPerWeek is the modulus for weekday distance arithmetic.
const daysPerWeek = 7

// NextOccurrence returns the next instant at or after now that falls on
// target at the given time of day. now is explicit so callers and tests
// control the reference point; production callers pass time.Now().
func NextOccurrence(td TimeOfDay, target Weekday, now time.Time) time.Time {
	candidate := td.OnDate(now)

	daysToAdd := (int(target) - int(WeekdayOf(candidate))) % daysPerWeek
	if daysToAdd < 0 {
		daysToAdd += daysPerWeek
	}

	if daysToAdd == 0 && candidate.Before(now) {
		// Today's slot already passed. Next week.
		daysToAdd = daysPerWeek
	}

	return candidate.AddDate(0, 0, daysToAdd)
}
