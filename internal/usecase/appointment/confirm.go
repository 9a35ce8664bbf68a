package appointment

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/workshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/workshop-scheduler/internal/domain/workshop"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/workshop-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

type ConfirmAppointment struct {
	registry workshop.Registry
	repo     domain.Repository
	cache    cache.Availability
	audit    audit.Recorder
	logger   *slog.Logger
}

func NewConfirmAppointment(
	registry workshop.Registry,
	repo domain.Repository,
	c cache.Availability,
	audit audit.Recorder,
	logger *slog.Logger,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		registry: registry,
		repo:     repo,
		cache:    c,
		audit:    audit,
		logger:   logger,
	}
}

// Execute confirms the appointment. Confirming a CONFIRMED appointment
// returns it unchanged. The interval is re-checked against other confirmed
// appointments, since PENDING ones may overlap freely.
func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {

	current, err := loadAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}

	ws, err := loadWorkshop(ctx, uc.registry, current.WorkshopID)
	if err != nil {
		return nil, err
	}

	var (
		ap      *models.Appointment
		from    string
		changed bool
	)

	err = uc.repo.WithinWorkshopLock(ctx, current.WorkshopID, func(ctx context.Context, tx domain.Repository) error {
		ap, err = loadAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		from = ap.State

		changed, err = domain.Confirm(ap)
		if err != nil || !changed {
			return err
		}

		ok, err := IsAvailable(ctx, tx, ap.WorkshopID, ap.StartTime, ap.EndTime, &ap.ID)
		if err != nil {
			return err
		}
		if !ok {
			return errSlotNotAvailable
		}

		return storeErr(tx.UpdateAppointment(ctx, ap))
	})
	if err != nil {
		if httperr.KindOf(err) == httperr.KindConflict {
			reportConflict(uc.logger, uc.audit, "confirm", current)
		}
		return nil, err
	}

	if !changed {
		return ap, nil
	}

	reportTransition(uc.logger, ap, from)
	uc.audit.Dispatch(appointmentEvent(audit.ActionConfirmed, ap, map[string]any{
		"from": from,
	}))

	invalidateFor(ctx, uc.cache, ws, *ap)

	return ap, nil
}
