/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Alarm creation (save + schedule) and listing
- Per-day partial failure reporting (207)
- Count, capability, and settings endpoints
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/alarm-engine/alarm"
	"github.com/warp/alarm-engine/alarm/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type stubScheduler struct {
	scheduled map[int32]time.Time
	cancelled map[int32]bool
	failIDs   map[int32]bool
}

func newStubScheduler() *stubScheduler {
	return &stubScheduler{
		scheduled: map[int32]time.Time{},
		cancelled: map[int32]bool{},
		failIDs:   map[int32]bool{},
	}
}

func (s *stubScheduler) Schedule(_ context.Context, at time.Time, id int32) error {
	if s.failIDs[id] {
		return errors.New("scheduler refused")
	}
	s.scheduled[id] = at
	return nil
}

func (s *stubScheduler) Cancel(_ context.Context, id int32) error {
	s.cancelled[id] = true
	return nil
}

type stubPlatform struct {
	allowed bool
	err     error
}

func (s *stubPlatform) CanScheduleExactAlarms(context.Context) (bool, error) {
	return s.allowed, s.err
}

func (s *stubPlatform) OpenExactAlarmSettings(context.Context) error { return nil }

func newTestRouter(t *testing.T, sched alarm.ExactScheduler, plat alarm.Platform) http.Handler {
	t.Helper()
	svc := alarm.NewSchedulingService(store.NewMemory(), sched, plat, zerolog.Nop())
	return NewRouter(NewHandler(svc, zerolog.Nop()))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}

// =============================================================================
// ALARM ENDPOINTS
// =============================================================================

func TestCreateAlarm_SavesAndSchedules(t *testing.T) {
	// GIVEN: A fresh engine
	// WHEN: POSTing an alarm active on MON and WED
	// THEN: 201 with two armed day results, and the alarm is listed

	sched := newStubScheduler()
	router := newTestRouter(t, sched, &stubPlatform{allowed: true})

	rr := doJSON(t, router, http.MethodPost, "/api/alarms", CreateAlarmRequest{
		ID:   5,
		Time: "07:30",
		Days: map[string]bool{"MON": true, "WED": true},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	resp := decode[ScheduleResponse](t, rr)
	assert.False(t, resp.Partial)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, int32(41), resp.Results[0].SchedulerID)
	assert.Equal(t, int32(43), resp.Results[1].SchedulerID)
	assert.Len(t, sched.scheduled, 2)

	rr = doJSON(t, router, http.MethodGet, "/api/alarms", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	alarms := decode[[]AlarmDTO](t, rr)
	require.Len(t, alarms, 1)
	assert.Equal(t, 5, alarms[0].ID)
	assert.Equal(t, "07:30", alarms[0].Time)
}

func TestCreateAlarm_InvalidInputs(t *testing.T) {
	router := newTestRouter(t, newStubScheduler(), &stubPlatform{allowed: true})

	tests := []struct {
		name string
		req  CreateAlarmRequest
	}{
		{"id out of range", CreateAlarmRequest{ID: alarm.MaxAlarmID, Time: "07:30"}},
		{"negative id", CreateAlarmRequest{ID: -1, Time: "07:30"}},
		{"bad time format", CreateAlarmRequest{ID: 1, Time: "half past seven"}},
		{"hour out of range", CreateAlarmRequest{ID: 1, Time: "25:00"}},
		{"minute out of range", CreateAlarmRequest{ID: 1, Time: "07:75"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := doJSON(t, router, http.MethodPost, "/api/alarms", tc.req)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestCreateAlarm_PartialFailureReports207(t *testing.T) {
	// GIVEN: A scheduler that refuses Monday's id
	// WHEN: POSTing an alarm on {MON, WED}
	// THEN: 207 with one failed and one armed result

	sched := newStubScheduler()
	sched.failIDs[41] = true
	router := newTestRouter(t, sched, &stubPlatform{allowed: true})

	rr := doJSON(t, router, http.MethodPost, "/api/alarms", CreateAlarmRequest{
		ID:   5,
		Time: "07:30",
		Days: map[string]bool{"MON": true, "WED": true},
	})
	require.Equal(t, http.StatusMultiStatus, rr.Code)

	resp := decode[ScheduleResponse](t, rr)
	assert.True(t, resp.Partial)
	require.Len(t, resp.Results, 2)
	assert.NotEmpty(t, resp.Results[0].Error)
	assert.Empty(t, resp.Results[1].Error)
}

func TestCancelAlarm_DisarmsScheduledIDs(t *testing.T) {
	sched := newStubScheduler()
	router := newTestRouter(t, sched, &stubPlatform{allowed: true})

	rr := doJSON(t, router, http.MethodPost, "/api/alarms", CreateAlarmRequest{
		ID:   5,
		Time: "07:30",
		Days: map[string]bool{"MON": true, "WED": true},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/alarms/5/cancel", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.True(t, sched.cancelled[41])
	assert.True(t, sched.cancelled[43])
}

func TestCancelAlarm_UnknownID404(t *testing.T) {
	router := newTestRouter(t, newStubScheduler(), &stubPlatform{allowed: true})

	rr := doJSON(t, router, http.MethodPost, "/api/alarms/99/cancel", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetAlarmCount_TracksSaves(t *testing.T) {
	router := newTestRouter(t, newStubScheduler(), &stubPlatform{allowed: true})

	rr := doJSON(t, router, http.MethodGet, "/api/alarms/count", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, decode[CountDTO](t, rr).Count)

	doJSON(t, router, http.MethodPost, "/api/alarms", CreateAlarmRequest{
		ID: 1, Time: "06:00", Days: map[string]bool{"TUE": true},
	})

	rr = doJSON(t, router, http.MethodGet, "/api/alarms/count", nil)
	assert.Equal(t, 1, decode[CountDTO](t, rr).Count)
}

// =============================================================================
// PLATFORM ENDPOINTS
// =============================================================================

func TestGetCapability(t *testing.T) {
	router := newTestRouter(t, newStubScheduler(), &stubPlatform{allowed: true})
	rr := doJSON(t, router, http.MethodGet, "/api/capability", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, decode[CapabilityDTO](t, rr).CanScheduleExactAlarms)
}

func TestGetCapability_PlatformFailureReadsFalse(t *testing.T) {
	router := newTestRouter(t, newStubScheduler(),
		&stubPlatform{allowed: true, err: errors.New("platform down")})
	rr := doJSON(t, router, http.MethodGet, "/api/capability", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, decode[CapabilityDTO](t, rr).CanScheduleExactAlarms)
}

func TestOpenExactAlarmSettings_Always204(t *testing.T) {
	router := newTestRouter(t, newStubScheduler(), &stubPlatform{allowed: true})
	rr := doJSON(t, router, http.MethodPost, "/api/settings/exact-alarms", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
