package local

import (
	"context"

	"github.com/rs/zerolog"
)

// Platform is the in-process capability channel. Exact alarms are always
// available and there is no settings surface to open.
type Platform struct {
	log zerolog.Logger
}

func NewPlatform(log zerolog.Logger) *Platform {
	return &Platform{log: log.With().Str("component", "local-platform").Logger()}
}

// CanScheduleExactAlarms always grants the capability in-process.
func (p *Platform) CanScheduleExactAlarms(context.Context) (bool, error) {
	return true, nil
}

// OpenExactAlarmSettings is a no-op: there are no host settings here.
func (p *Platform) OpenExactAlarmSettings(context.Context) error {
	p.log.Info().Msg("no settings surface in-process")
	return nil
}
