/*
handlers.go - HTTP API handlers for the alarm engine

PURPOSE:
  Exposes the alarm scheduling engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Alarms:
    GET    /api/alarms                 List all alarms
    POST   /api/alarms                 Save and schedule an alarm
    GET    /api/alarms/count           Cached alarm count
    POST   /api/alarms/{id}/schedule   Re-arm an existing alarm
    POST   /api/alarms/{id}/cancel     Disarm an existing alarm

  Platform:
    GET    /api/capability             Exact-alarm capability probe
    POST   /api/settings/exact-alarms  Best-effort settings navigation

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (service, cache)
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Alarm not found
  - 207: Partial per-day scheduling failure (body carries the details)
  - 500: Storage errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/warp/alarm-engine/alarm"
)

// Handler holds the API dependencies.
type Handler struct {
	Service *alarm.SchedulingService
	log     zerolog.Logger
}

func NewHandler(service *alarm.SchedulingService, log zerolog.Logger) *Handler {
	return &Handler{
		Service: service,
		log:     log.With().Str("component", "api").Logger(),
	}
}

// =============================================================================
// ALARM ENDPOINTS
// =============================================================================

// ListAlarms returns every stored alarm.
func (h *Handler) ListAlarms(w http.ResponseWriter, r *http.Request) {
	recs, err := h.Service.LoadAlarms(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load alarms", err)
		return
	}

	dtos := make([]AlarmDTO, 0, len(recs))
	for _, rec := range recs {
		dtos = append(dtos, toAlarmDTO(rec))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAlarm saves a new alarm and arms its active weekdays.
func (h *Handler) CreateAlarm(w http.ResponseWriter, r *http.Request) {
	var req CreateAlarmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", err)
		return
	}

	rec, err := recordFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid alarm", err)
		return
	}

	if err := h.Service.SaveAlarmData(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save alarm", err)
		return
	}

	results, schedErr := h.Service.Schedule(r.Context(), rec)
	dtos, partial := toDayResultDTOs(results)
	if schedErr != nil {
		h.log.Warn().Err(schedErr).Int("alarm", rec.ID).Msg("partial schedule")
	}

	status := http.StatusCreated
	if partial {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, ScheduleResponse{
		Alarm:   toAlarmDTO(rec),
		Results: dtos,
		Partial: partial,
	})
}

// GetAlarmCount returns the cached record count.
func (h *Handler) GetAlarmCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CountDTO{Count: h.Service.GetNumberOfAlarms()})
}

// ScheduleAlarm re-arms an existing alarm's active weekdays.
func (h *Handler) ScheduleAlarm(w http.ResponseWriter, r *http.Request) {
	h.armOrDisarm(w, r, h.Service.Schedule)
}

// CancelAlarm disarms an existing alarm's active weekdays.
func (h *Handler) CancelAlarm(w http.ResponseWriter, r *http.Request) {
	h.armOrDisarm(w, r, h.Service.Cancel)
}

func (h *Handler) armOrDisarm(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, rec alarm.Record) ([]alarm.DayResult, error)) {

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid alarm id", err)
		return
	}

	rec, ok, err := h.findAlarm(r, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load alarms", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("alarm %d not found", id), nil)
		return
	}

	results, opErr := op(r.Context(), rec)
	dtos, partial := toDayResultDTOs(results)
	if opErr != nil {
		h.log.Warn().Err(opErr).Int("alarm", id).Msg("partial schedule/cancel")
	}

	status := http.StatusOK
	if partial {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, ScheduleResponse{
		Alarm:   toAlarmDTO(rec),
		Results: dtos,
		Partial: partial,
	})
}

// findAlarm resolves an alarm id to its most recent record. The store is
// append-only, so the last record with a given id is the current one.
func (h *Handler) findAlarm(r *http.Request, id int) (alarm.Record, bool, error) {
	recs, err := h.Service.LoadAlarms(r.Context())
	if err != nil {
		return alarm.Record{}, false, err
	}
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].ID == id {
			return recs[i], true, nil
		}
	}
	return alarm.Record{}, false, nil
}

// =============================================================================
// PLATFORM ENDPOINTS
// =============================================================================

// GetCapability probes the exact-alarm capability.
func (h *Handler) GetCapability(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, CapabilityDTO{
		CanScheduleExactAlarms: h.Service.CanScheduleExactAlarms(r.Context()),
	})
}

// OpenExactAlarmSettings requests the platform settings surface.
// Always 204: navigation is best-effort and failures stay internal.
func (h *Handler) OpenExactAlarmSettings(w http.ResponseWriter, r *http.Request) {
	h.Service.OpenExactAlarmSettings(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// VALIDATION
// =============================================================================

func recordFromRequest(req CreateAlarmRequest) (alarm.Record, error) {
	if req.ID < 0 || req.ID >= alarm.MaxAlarmID {
		return alarm.Record{}, &alarm.AlarmIDRangeError{AlarmID: req.ID}
	}

	td, err := parseTimeOfDay(req.Time)
	if err != nil {
		return alarm.Record{}, err
	}

	return alarm.Record{ID: req.ID, Time: td, Days: req.Days}, nil
}

func parseTimeOfDay(s string) (alarm.TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return alarm.TimeOfDay{}, fmt.Errorf("time must be HH:MM: %w", err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return alarm.TimeOfDay{}, errors.New("time out of range")
	}
	return alarm.NewTimeOfDay(hour, minute), nil
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
