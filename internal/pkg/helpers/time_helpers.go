package helpers

import (
	"errors"
	"strings"
	"time"

	"github.com/yigit/schooladmin/internal/pkg/logger"
)

var errNegativeDuration = errors.New("duration must not be negative")

// ParseDuration parses a duration such as "15m" or "30s". A blank value yields
// def; an unparsable or negative one is logged and also yields def.
func ParseDuration(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err == nil && d < 0 {
		err = errNegativeDuration
	}
	if err != nil {
		lgr := logger.Component("helpers")
		lgr.Warn().Err(err).Str("value", s).Dur("default", def).Msg("Invalid duration, using default")
		return def
	}
	return d
}
