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

type DeleteAppointment struct {
	registry workshop.Registry
	repo     domain.Repository
	cache    cache.Availability
	audit    audit.Recorder
	logger   *slog.Logger
}

func NewDeleteAppointment(
	registry workshop.Registry,
	repo domain.Repository,
	c cache.Availability,
	audit audit.Recorder,
	logger *slog.Logger,
) *DeleteAppointment {
	return &DeleteAppointment{
		registry: registry,
		repo:     repo,
		cache:    c,
		audit:    audit,
		logger:   logger,
	}
}

// Execute removes the appointment permanently.
func (uc *DeleteAppointment) Execute(ctx context.Context, appointmentID uuid.UUID) error {
	current, err := loadAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return err
	}

	ws, err := loadWorkshop(ctx, uc.registry, current.WorkshopID)
	if err != nil {
		return err
	}

	var ap *models.Appointment
	err = uc.repo.WithinWorkshopLock(ctx, current.WorkshopID, func(ctx context.Context, tx domain.Repository) error {
		ap, err = loadAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		return storeErr(tx.DeleteAppointment(ctx, ap.ID))
	})
	if err != nil {
		return err
	}

	uc.logger.Info("appointment deleted",
		"appointment_id", ap.ID.String(),
		"workshop_id", ap.WorkshopID.String(),
		"state", ap.State,
	)
	uc.audit.Dispatch(appointmentEvent(audit.ActionDeleted, ap, map[string]any{
		"state": ap.State,
	}))

	if ap.State == string(domain.StateConfirmed) {
		invalidateFor(ctx, uc.cache, ws, *ap)
	}

	return nil
}
