package appointment

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/workshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/workshop-scheduler/internal/domain/workshop"
	"github.com/BruksfildServices01/workshop-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

type CancelAppointment struct {
	registry workshop.Registry
	repo     domain.Repository
	cache    cache.Availability
	audit    audit.Recorder
	logger   *slog.Logger
}

func NewCancelAppointment(
	registry workshop.Registry,
	repo domain.Repository,
	c cache.Availability,
	audit audit.Recorder,
	logger *slog.Logger,
) *CancelAppointment {
	return &CancelAppointment{
		registry: registry,
		repo:     repo,
		cache:    c,
		audit:    audit,
		logger:   logger,
	}
}

func (uc *CancelAppointment) Execute(
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

		changed, err = domain.Cancel(ap)
		if err != nil || !changed {
			return err
		}

		return storeErr(tx.UpdateAppointment(ctx, ap))
	})
	if err != nil {
		return nil, err
	}

	if !changed {
		return ap, nil
	}

	reportTransition(uc.logger, ap, from)
	uc.audit.Dispatch(appointmentEvent(audit.ActionCanceled, ap, map[string]any{
		"from": from,
	}))

	if from == string(domain.StateConfirmed) {
		invalidateFor(ctx, uc.cache, ws, *ap)
	}

	return ap, nil
}
