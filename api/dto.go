/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/alarm-engine/alarm"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// AlarmDTO represents one alarm record in API responses.
type AlarmDTO struct {
	ID   int             `json:"id"`
	Time string          `json:"time"` // "HH:MM"
	Days map[string]bool `json:"days"`
}

// CreateAlarmRequest is the request to save and schedule an alarm.
type CreateAlarmRequest struct {
	ID   int             `json:"id"`
	Time string          `json:"time"` // "HH:MM"
	Days map[string]bool `json:"days"`
}

// DayResultDTO is the outcome of one weekday's schedule/cancel attempt.
type DayResultDTO struct {
	Day         string `json:"day"`
	SchedulerID int32  `json:"scheduler_id"`
	At          string `json:"at,omitempty"` // RFC3339, empty for cancel
	Error       string `json:"error,omitempty"`
}

// ScheduleResponse wraps the per-day outcomes of a schedule/cancel pass.
type ScheduleResponse struct {
	Alarm   AlarmDTO       `json:"alarm"`
	Results []DayResultDTO `json:"results"`
	Partial bool           `json:"partial"` // true when some days failed
}

// CountDTO reports the cached alarm count.
type CountDTO struct {
	Count int `json:"count"`
}

// CapabilityDTO reports the exact-alarm capability.
type CapabilityDTO struct {
	CanScheduleExactAlarms bool `json:"can_schedule_exact_alarms"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toAlarmDTO(rec alarm.Record) AlarmDTO {
	return AlarmDTO{ID: rec.ID, Time: rec.Time.String(), Days: rec.Days}
}

func toDayResultDTOs(results []alarm.DayResult) ([]DayResultDTO, bool) {
	dtos := make([]DayResultDTO, 0, len(results))
	partial := false
	for _, res := range results {
		dto := DayResultDTO{
			Day:         res.Day.String(),
			SchedulerID: res.SchedulerID,
		}
		if !res.At.IsZero() {
			dto.At = res.At.Format(time.RFC3339)
		}
		if res.Err != nil {
			dto.Error = res.Err.Error()
			partial = true
		}
		dtos = append(dtos, dto)
	}
	return dtos, partial
}
