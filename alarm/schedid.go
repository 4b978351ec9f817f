/*
schedid.go - Scheduler identifier encoding

PURPOSE:
  The external exact-alarm scheduler keys one-shot registrations by a single
  non-negative integer. One alarm arms up to seven of them (one per active
  weekday), so the compound key (alarm id, weekday) is bit-packed into one
  identifier:

      bits 30..3   alarm id (28 bits)
      bits  2..0   weekday  (1..7)

COLLISION-FREEDOM:
  The fields are bit-disjoint, so for a fixed alarm id the seven weekdays
  always produce seven distinct identifiers, and two alarms can only collide
  if their ids collide. The alarm id range is enforced rather than silently
  truncated: 28 + 3 = 31 bits keeps every encoded value inside the
  scheduler's non-negative identifier space, and the same value is used for
  both schedule and cancel.

  No decode is needed today (cancellation re-encodes from the record), but
  the disjoint layout keeps a future decode trivial.

SEE ALSO:
  - service.go: Encodes once per active weekday for schedule and cancel
*/
package alarm

// Bit layout for scheduler identifiers.
const (
	// AlarmIDBits is the width reserved for the alarm id.
	AlarmIDBits = 28

	// MaxAlarmID is the exclusive upper bound on alarm ids.
	MaxAlarmID = 1 << AlarmIDBits

	weekdayBits = 3
	weekdayMask = 1<<weekdayBits - 1

	// schedulerIDMask bounds encoded values to the scheduler's 31-bit
	// non-negative identifier space. With the id range enforced it is
	// value-preserving; it documents the boundary rather than enforcing it.
	schedulerIDMask = 1<<31 - 1
)

// EncodeSchedulerID packs (alarmID, weekday) into the external scheduler's
// identifier space. Returns AlarmIDRangeError if alarmID is outside
// [0, MaxAlarmID) and ErrInvalidWeekday for a weekday outside 1..7.
func EncodeSchedulerID(alarmID int, day Weekday) (int32, error) {
	if alarmID < 0 || alarmID >= MaxAlarmID {
		return 0, &AlarmIDRangeError{AlarmID: alarmID}
	}
	if !day.Valid() {
		return 0, ErrInvalidWeekday
	}
	id := (int32(alarmID)<<weekdayBits | int32(day)&weekdayMask) & schedulerIDMask
	return id, nil
}
