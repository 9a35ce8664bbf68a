package appointment

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

type Order string

const (
	OrderCreated   Order = "created"
	OrderStartAsc  Order = "start_asc"
	OrderStartDesc Order = "start_desc"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ListFilter narrows a listing. Zero-valued fields do not filter.
// From/To bound start_time as [From, To).
type ListFilter struct {
	WorkshopID *uuid.UUID
	States     []State
	From       *time.Time
	To         *time.Time
	Phones     []string

	Order  Order
	Limit  int
	Offset int
}

// Matches applies every filter except pagination and ordering.
func (f ListFilter) Matches(ap *models.Appointment) bool {
	if f.WorkshopID != nil && ap.WorkshopID != *f.WorkshopID {
		return false
	}
	if len(f.States) > 0 && !slices.Contains(f.States, State(ap.State)) {
		return false
	}
	if f.From != nil && ap.StartTime.Before(*f.From) {
		return false
	}
	if f.To != nil && !ap.StartTime.Before(*f.To) {
		return false
	}
	if len(f.Phones) > 0 && !slices.ContainsFunc(f.Phones, func(p string) bool {
		return strings.EqualFold(p, ap.CustomerPhone)
	}) {
		return false
	}
	return true
}

// Page clamps Limit/Offset to the allowed range.
func (f ListFilter) Page() (limit, offset int) {
	limit = f.Limit
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}
	offset = f.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// DayWindow returns [00:00, next 00:00) of date's calendar day in loc.
func DayWindow(date time.Time, loc *time.Location) (time.Time, time.Time) {
	d := date.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
