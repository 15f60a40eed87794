package helpers

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		// Use the global logger here, the configured one may not exist yet.
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseDays parses a whole number of days such as "30" or "30d"
func ParseDays(daysStr string, defaultDays int) int {
	days, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(daysStr), "d"))
	if err != nil || days <= 0 {
		log.Warn().Str("daysStr", daysStr).Int("defaultDays", defaultDays).Msg("Failed to parse day count, using default")
		return defaultDays
	}
	return days
}
