package timezone

import (
	"fmt"
	"sync/atomic"
	"time"
)

const DefaultTimezone = "UTC"

var fallback atomic.Pointer[time.Location]

func init() {
	fallback.Store(time.UTC)
}

// SetDefault changes the zone used for workshops without a valid timezone.
func SetDefault(tz string) error {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid default timezone %q: %w", tz, err)
	}
	fallback.Store(loc)
	return nil
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolves tz, falling back to the configured default.
func Location(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return fallback.Load()
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseDate parses YYYY-MM-DD as midnight in tz.
func ParseDate(tz, date string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", date, Location(tz))
}
