package appointment

import (
	"errors"
	"time"

	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
)

// ErrOverlap is returned by storage when a write would leave two CONFIRMED
// appointments of one workshop overlapping.
var ErrOverlap = errors.New("confirmed appointments overlap")

// Overlaps is the single overlap rule for [aStart,aEnd) and [bStart,bEnd).
// Intervals that only touch do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func ValidateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return httperr.ErrValidation("invalid_time_range")
	}
	return nil
}
