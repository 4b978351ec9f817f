/*
service.go - Alarm scheduling orchestration

PURPOSE:
  SchedulingService ties the engine together: for every active weekday of an
  alarm it computes the next occurrence (recurrence.go), encodes the
  scheduler identifier (schedid.go), and arms or cancels the registration
  with the external exact-alarm scheduler. It also owns record persistence
  through the cache (cache.go).

PER-DAY ISOLATION:
  A failure on one weekday never prevents the remaining weekdays from being
  attempted. Every day's outcome is captured in a DayResult and the caller
  additionally receives the failures joined into one error, so partial
  scheduling is visible rather than silently swallowed.

PLATFORM DEGRADATION:
  Capability checks and settings navigation never fail the caller: platform
  errors are logged and collapse to "exact alarms unavailable" / no-op.

SEE ALSO:
  - store/sqlite: Production store
  - platform/local: In-process scheduler and platform
*/
package alarm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// =============================================================================
// EXTERNAL COLLABORATORS
// =============================================================================

// ExactScheduler is the OS-level exact-alarm scheduler. A scheduled id
// fires exactly once, waking the platform if needed, and invokes the
// process-wide fire callback (see signal.go).
type ExactScheduler interface {
	// Schedule arms a one-shot, exact, wake-capable registration.
	Schedule(ctx context.Context, at time.Time, id int32) error

	// Cancel disarms the registration for id. Cancelling an unknown id is
	// not an error.
	Cancel(ctx context.Context, id int32) error
}

// Platform exposes the host capability channel.
type Platform interface {
	CanScheduleExactAlarms(ctx context.Context) (bool, error)
	OpenExactAlarmSettings(ctx context.Context) error
}

// =============================================================================
// SCHEDULING SERVICE
// =============================================================================

// SchedulingService orchestrates recurrence computation, identifier
// encoding, persistence, and external scheduler calls.
type SchedulingService struct {
	cache     *Cache
	scheduler ExactScheduler
	platform  Platform
	log       zerolog.Logger

	// now is the reference-instant source, swappable in tests.
	now func() time.Time
}

func NewSchedulingService(store Store, scheduler ExactScheduler, platform Platform, log zerolog.Logger) *SchedulingService {
	return &SchedulingService{
		cache:     NewCache(store),
		scheduler: scheduler,
		platform:  platform,
		log:       log.With().Str("component", "alarm-service").Logger(),
		now:       time.Now,
	}
}

// DayResult is the outcome of one weekday's schedule or cancel attempt.
type DayResult struct {
	Day         Weekday
	SchedulerID int32
	At          time.Time // zero for cancel
	Err         error
}

// Schedule arms every active weekday of rec with the external scheduler.
// All active days are attempted regardless of individual failures; the
// returned error joins the per-day failures (nil when all succeeded).
func (s *SchedulingService) Schedule(ctx context.Context, rec Record) ([]DayResult, error) {
	now := s.now()
	var results []DayResult
	var failures []error

	for _, day := range rec.ActiveWeekdays() {
		res := DayResult{Day: day}

		id, err := EncodeSchedulerID(rec.ID, day)
		if err != nil {
			res.Err = &DayError{AlarmID: rec.ID, Day: day, Err: err}
		} else {
			res.SchedulerID = id
			res.At = NextOccurrence(rec.Time, day, now)
			if err := s.scheduler.Schedule(ctx, res.At, id); err != nil {
				res.Err = &DayError{AlarmID: rec.ID, Day: day, At: res.At, Err: err}
			}
		}

		if res.Err != nil {
			s.log.Warn().Err(res.Err).Int("alarm", rec.ID).Stringer("day", day).Msg("schedule failed")
			failures = append(failures, res.Err)
		}
		results = append(results, res)
	}

	return results, errors.Join(failures...)
}

// Cancel disarms every active weekday of rec. It re-encodes the same
// identifier set that Schedule produced for the record; occurrence instants
// are irrelevant for cancellation.
func (s *SchedulingService) Cancel(ctx context.Context, rec Record) ([]DayResult, error) {
	var results []DayResult
	var failures []error

	for _, day := range rec.ActiveWeekdays() {
		res := DayResult{Day: day}

		id, err := EncodeSchedulerID(rec.ID, day)
		if err != nil {
			res.Err = &DayError{AlarmID: rec.ID, Day: day, Err: err}
		} else {
			res.SchedulerID = id
			if err := s.scheduler.Cancel(ctx, id); err != nil {
				res.Err = &DayError{AlarmID: rec.ID, Day: day, Err: err}
			}
		}

		if res.Err != nil {
			s.log.Warn().Err(res.Err).Int("alarm", rec.ID).Stringer("day", day).Msg("cancel failed")
			failures = append(failures, res.Err)
		}
		results = append(results, res)
	}

	return results, errors.Join(failures...)
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// SaveAlarmData persists rec via the cache (write-through).
func (s *SchedulingService) SaveAlarmData(ctx context.Context, rec Record) error {
	return s.cache.Save(ctx, rec)
}

// LoadAlarms returns all records, reading the store at most once.
func (s *SchedulingService) LoadAlarms(ctx context.Context) ([]Record, error) {
	return s.cache.Load(ctx)
}

// GetNumberOfAlarms returns the cached record count. It reports 0 before
// the first load, even when the store is not empty.
func (s *SchedulingService) GetNumberOfAlarms() int {
	return s.cache.Count()
}

// =============================================================================
// PLATFORM CAPABILITY
// =============================================================================

// CanScheduleExactAlarms reports whether the platform grants exact alarms.
// Platform failures degrade to false and are never propagated.
func (s *SchedulingService) CanScheduleExactAlarms(ctx context.Context) bool {
	ok, err := s.platform.CanScheduleExactAlarms(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("exact-alarm capability check failed")
		return false
	}
	return ok
}

// OpenExactAlarmSettings asks the platform to show its exact-alarm settings
// surface. Best-effort: failures are logged, not surfaced.
func (s *SchedulingService) OpenExactAlarmSettings(ctx context.Context) {
	if err := s.platform.OpenExactAlarmSettings(ctx); err != nil {
		s.log.Warn().Err(err).Msg("open exact-alarm settings failed")
	}
}
