package appointment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/workshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/workshop-scheduler/internal/domain/workshop"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/workshop-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/workshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/workshop-scheduler/internal/timezone"
)

type GetAvailability struct {
	registry workshop.Registry
	repo     domain.Repository
	cache    cache.Availability
	logger   *slog.Logger
	now      func() time.Time
}

func NewGetAvailability(
	registry workshop.Registry,
	repo domain.Repository,
	c cache.Availability,
	logger *slog.Logger,
) *GetAvailability {
	return &GetAvailability{
		registry: registry,
		repo:     repo,
		cache:    c,
		logger:   logger,
		now:      time.Now,
	}
}

// Execute returns the free "HH:MM" slots of date (YYYY-MM-DD) in the
// workshop's timezone. A slot is free when no CONFIRMED appointment
// overlaps it; PENDING appointments never remove slots.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	workshopID uuid.UUID,
	date string,
) ([]string, error) {

	started := time.Now()
	defer func() {
		metrics.AvailabilityDuration.Observe(time.Since(started).Seconds())
	}()

	ws, err := loadWorkshop(ctx, uc.registry, workshopID)
	if err != nil {
		return nil, err
	}

	hours, err := workshop.ParseOpeningHours(ws.OpeningHours)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(ws.Timezone)
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	now := uc.now().In(loc)
	today, _ := domain.DayWindow(now, loc)
	if day.Before(today) {
		return []string{}, nil
	}

	key := day.Format(dateLayout)

	// The version is read before the store so that a confirm committing
	// mid-computation makes this result unreachable.
	free, version, ok := uc.cache.Get(ctx, ws.ID, key)
	if !ok {
		free, err = uc.freeSlots(ctx, ws.ID, hours, day, loc)
		if err != nil {
			return nil, err
		}
		uc.cache.Set(ctx, ws.ID, key, version, free)
	}

	out := make([]string, 0, len(free))
	for _, s := range free {
		if s.Before(now) {
			continue
		}
		out = append(out, workshop.FormatSlot(s.In(loc)))
	}

	return out, nil
}

func (uc *GetAvailability) freeSlots(
	ctx context.Context,
	workshopID uuid.UUID,
	hours workshop.OpeningHours,
	day time.Time,
	loc *time.Location,
) ([]time.Time, error) {

	candidates := workshop.GenerateSlots(hours, day)
	if len(candidates) == 0 {
		return []time.Time{}, nil
	}

	from, to := domain.DayWindow(day, loc)
	confirmed, err := uc.repo.ListConfirmedBetween(ctx, workshopID, from, to)
	if err != nil {
		return nil, err
	}

	free := make([]time.Time, 0, len(candidates))
	for _, s := range candidates {
		end := s.Add(workshop.SlotDuration)

		booked := false
		for _, ap := range confirmed {
			if domain.Overlaps(s, end, ap.StartTime, ap.EndTime) {
				booked = true
				break
			}
		}
		if !booked {
			free = append(free, s)
		}
	}

	uc.logger.Debug("availability computed",
		"workshop_id", workshopID.String(),
		"date", day.Format(dateLayout),
		"candidates", len(candidates),
		"free", len(free),
	)

	return free, nil
}
