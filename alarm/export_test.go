package alarm

import "time"

// SetNow overrides the service's reference-instant source in tests.
func (s *SchedulingService) SetNow(now func() time.Time) { s.now = now }
