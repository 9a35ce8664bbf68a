package workshop

import "time"

// SlotDuration is the fixed width of a bookable slot.
const SlotDuration = 30 * time.Minute

// GenerateSlots expands the opening hours that apply to date's calendar day
// (in date's location) into slot start instants. A slot is emitted only if it
// ends at or before the range end. Ranges with start >= end or unparsable
// clocks are skipped. Order follows the range order; no deduplication.
func GenerateSlots(hours OpeningHours, date time.Time) []time.Time {
	y, m, d := date.Date()
	loc := date.Location()

	var slots []time.Time
	for _, r := range hours.RangesFor(date.Weekday()) {
		start, err := ParseClock(r.Start)
		if err != nil {
			continue
		}
		end, err := ParseClock(r.End)
		if err != nil {
			continue
		}
		if start >= end {
			continue
		}

		open := atOffset(y, m, d, start, loc)
		closing := atOffset(y, m, d, end, loc)

		for cur := open; !cur.Add(SlotDuration).After(closing); cur = cur.Add(SlotDuration) {
			slots = append(slots, cur)
		}
	}

	return slots
}

// FormatSlot renders a slot as its wall-clock "HH:MM".
func FormatSlot(t time.Time) string {
	return t.Format(clockLayout)
}

func atOffset(y int, m time.Month, d int, offset time.Duration, loc *time.Location) time.Time {
	h := int(offset / time.Hour)
	min := int((offset % time.Hour) / time.Minute)
	return time.Date(y, m, d, h, min, 0, 0, loc)
}
