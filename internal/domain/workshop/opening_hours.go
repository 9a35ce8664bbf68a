package workshop

import (
	"encoding/json"
	"time"

	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
)

const clockLayout = "15:04"

// TimeRange is a wall-clock opening window, End exclusive.
type TimeRange struct {
	Start string `json:"start" binding:"required,clock"`
	End   string `json:"end" binding:"required,clock"`
}

// OpeningHours is the recurring weekly schedule of a workshop.
// An empty bucket means the workshop is closed on those days.
type OpeningHours struct {
	Weekdays []TimeRange `json:"weekdays"`
	Saturday []TimeRange `json:"saturday"`
	Sunday   []TimeRange `json:"sunday"`
}

// wire form used to detect missing buckets, which a plain slice cannot.
type openingHoursWire struct {
	Weekdays *[]TimeRange `json:"weekdays"`
	Saturday *[]TimeRange `json:"saturday"`
	Sunday   *[]TimeRange `json:"sunday"`
}

// ParseOpeningHours decodes a stored schedule. All three buckets must be
// present; an empty list is fine.
func ParseOpeningHours(raw []byte) (OpeningHours, error) {
	var w openingHoursWire
	if len(raw) == 0 {
		return OpeningHours{}, httperr.ErrValidation("invalid_opening_hours")
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return OpeningHours{}, httperr.ErrValidation("invalid_opening_hours")
	}
	if w.Weekdays == nil || w.Saturday == nil || w.Sunday == nil {
		return OpeningHours{}, httperr.ErrValidation("invalid_opening_hours")
	}

	return OpeningHours{
		Weekdays: *w.Weekdays,
		Saturday: *w.Saturday,
		Sunday:   *w.Sunday,
	}, nil
}

// Validate is the stricter admin-side check: every range must be a
// well-formed HH:MM pair with start before end.
func (h OpeningHours) Validate() error {
	for _, bucket := range [][]TimeRange{h.Weekdays, h.Saturday, h.Sunday} {
		for _, r := range bucket {
			start, err := ParseClock(r.Start)
			if err != nil {
				return httperr.ErrValidation("invalid_opening_hours")
			}
			end, err := ParseClock(r.End)
			if err != nil {
				return httperr.ErrValidation("invalid_opening_hours")
			}
			if start >= end {
				return httperr.ErrValidation("invalid_opening_hours")
			}
		}
	}
	return nil
}

// Marshal encodes h with every bucket present, never null.
func (h OpeningHours) Marshal() ([]byte, error) {
	out := OpeningHours{
		Weekdays: nonNil(h.Weekdays),
		Saturday: nonNil(h.Saturday),
		Sunday:   nonNil(h.Sunday),
	}
	return json.Marshal(out)
}

// RangesFor returns the bucket that applies to day.
func (h OpeningHours) RangesFor(day time.Weekday) []TimeRange {
	switch day {
	case time.Sunday:
		return h.Sunday
	case time.Saturday:
		return h.Saturday
	default:
		return h.Weekdays
	}
}

// ParseClock converts "HH:MM" to minutes after midnight.
func ParseClock(hm string) (time.Duration, error) {
	t, err := time.Parse(clockLayout, hm)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func nonNil(r []TimeRange) []TimeRange {
	if r == nil {
		return []TimeRange{}
	}
	return r
}
