package appointment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/workshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/workshop-scheduler/internal/domain/workshop"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/workshop-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/workshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
	"github.com/BruksfildServices01/workshop-scheduler/internal/timezone"
)

const dateLayout = "2006-01-02"

var errSlotNotAvailable = httperr.ErrConflict("slot_not_available")

func loadWorkshop(
	ctx context.Context,
	registry workshop.Registry,
	id uuid.UUID,
) (*models.Workshop, error) {

	ws, err := registry.GetWorkshop(ctx, id)
	if err != nil {
		if errors.Is(err, workshop.ErrNotFound) {
			return nil, httperr.ErrNotFound("workshop_not_found")
		}
		return nil, err
	}
	return ws, nil
}

func loadAppointment(
	ctx context.Context,
	repo domain.Repository,
	id uuid.UUID,
) (*models.Appointment, error) {

	ap, err := repo.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrNotFound("appointment_not_found")
		}
		return nil, err
	}
	return ap, nil
}

// storeErr maps storage sentinels to business errors.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrOverlap):
		return errSlotNotAvailable
	case errors.Is(err, domain.ErrNotFound):
		return httperr.ErrNotFound("appointment_not_found")
	}
	return err
}

// IsAvailable is the conflict detector: [start, end) is free unless a
// CONFIRMED appointment of the workshop, other than exclude, overlaps it.
func IsAvailable(
	ctx context.Context,
	repo domain.Repository,
	workshopID uuid.UUID,
	start time.Time,
	end time.Time,
	exclude *uuid.UUID,
) (bool, error) {

	confirmed, err := repo.ListConfirmedBetween(ctx, workshopID, start, end)
	if err != nil {
		return false, err
	}

	for _, ap := range confirmed {
		if exclude != nil && ap.ID == *exclude {
			continue
		}
		if domain.Overlaps(ap.StartTime, ap.EndTime, start, end) {
			return false, nil
		}
	}
	return true, nil
}

// datesTouched lists every calendar day in loc that [start, end) covers.
func datesTouched(loc *time.Location, start, end time.Time) []string {
	var out []string

	day, _ := domain.DayWindow(start, loc)
	last := end.Add(-time.Nanosecond)
	for !day.After(last) {
		out = append(out, day.Format(dateLayout))
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// invalidateFor drops the cached availability of every day the given
// appointments cover, in the workshop's zone.
func invalidateFor(
	ctx context.Context,
	c cache.Availability,
	ws *models.Workshop,
	aps ...models.Appointment,
) {
	loc := timezone.Location(ws.Timezone)

	var dates []string
	seen := map[string]bool{}
	for _, ap := range aps {
		for _, d := range datesTouched(loc, ap.StartTime, ap.EndTime) {
			if !seen[d] {
				seen[d] = true
				dates = append(dates, d)
			}
		}
	}
	if len(dates) > 0 {
		c.Invalidate(ctx, ws.ID, dates...)
	}
}

func appointmentEvent(action string, ap *models.Appointment, meta map[string]any) audit.Event {
	id := ap.ID
	return audit.Event{
		WorkshopID: ap.WorkshopID,
		Action:     action,
		Entity:     "appointment",
		EntityID:   &id,
		Metadata:   meta,
	}
}

// reportConflict records a booking rejected for overlapping a confirmed one.
func reportConflict(
	logger *slog.Logger,
	recorder audit.Recorder,
	operation string,
	ap *models.Appointment,
) {
	logger.Warn("appointment conflict",
		"operation", operation,
		"workshop_id", ap.WorkshopID.String(),
		"start", ap.StartTime,
		"end", ap.EndTime,
	)
	metrics.RecordConflict(operation)

	meta := map[string]any{
		"operation":  operation,
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
	}

	ev := audit.Event{
		WorkshopID: ap.WorkshopID,
		Action:     audit.ActionConflict,
		Entity:     "appointment",
		Metadata:   meta,
	}
	if ap.ID != uuid.Nil {
		id := ap.ID
		ev.EntityID = &id
	}
	recorder.Dispatch(ev)
}

// reportTransition logs and counts a state change.
func reportTransition(logger *slog.Logger, ap *models.Appointment, from string) {
	logger.Info("appointment state changed",
		"appointment_id", ap.ID.String(),
		"workshop_id", ap.WorkshopID.String(),
		"from", from,
		"to", ap.State,
	)
	metrics.RecordTransition(ap.State)
}
