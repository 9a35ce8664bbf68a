package appointment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/workshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/workshop-scheduler/internal/domain/workshop"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/workshop-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

// UpdateInput carries a partial update. Nil fields keep their value.
type UpdateInput struct {
	CustomerName  *string
	CustomerPhone *string
	Description   *string
	StartTime     *time.Time
	EndTime       *time.Time
}

func (in UpdateInput) empty() bool {
	return in.CustomerName == nil &&
		in.CustomerPhone == nil &&
		in.Description == nil &&
		in.StartTime == nil &&
		in.EndTime == nil
}

type UpdateAppointment struct {
	registry workshop.Registry
	repo     domain.Repository
	cache    cache.Availability
	audit    audit.Recorder
	logger   *slog.Logger
}

func NewUpdateAppointment(
	registry workshop.Registry,
	repo domain.Repository,
	c cache.Availability,
	audit audit.Recorder,
	logger *slog.Logger,
) *UpdateAppointment {
	return &UpdateAppointment{
		registry: registry,
		repo:     repo,
		cache:    c,
		audit:    audit,
		logger:   logger,
	}
}

// Execute merges in over the stored appointment. A changed interval is
// validated and checked against the other confirmed appointments.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	appointmentID uuid.UUID,
	in UpdateInput,
) (*models.Appointment, error) {

	current, err := loadAppointment(ctx, uc.repo, appointmentID)
	if err != nil {
		return nil, err
	}
	if in.empty() {
		return current, nil
	}

	ws, err := loadWorkshop(ctx, uc.registry, current.WorkshopID)
	if err != nil {
		return nil, err
	}

	var (
		ap     *models.Appointment
		before models.Appointment
		moved  bool
	)

	err = uc.repo.WithinWorkshopLock(ctx, current.WorkshopID, func(ctx context.Context, tx domain.Repository) error {
		ap, err = loadAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		before = *ap

		if err := merge(ap, in); err != nil {
			return err
		}

		moved = !ap.StartTime.Equal(before.StartTime) || !ap.EndTime.Equal(before.EndTime)
		if moved {
			if err := domain.ValidateInterval(ap.StartTime, ap.EndTime); err != nil {
				return err
			}

			ok, err := IsAvailable(ctx, tx, ap.WorkshopID, ap.StartTime, ap.EndTime, &ap.ID)
			if err != nil {
				return err
			}
			if !ok {
				return errSlotNotAvailable
			}
		}

		return storeErr(tx.UpdateAppointment(ctx, ap))
	})
	if err != nil {
		if httperr.KindOf(err) == httperr.KindConflict && ap != nil {
			reportConflict(uc.logger, uc.audit, "update", ap)
		}
		return nil, err
	}

	uc.logger.Info("appointment updated",
		"appointment_id", ap.ID.String(),
		"workshop_id", ap.WorkshopID.String(),
		"moved", moved,
	)

	meta := map[string]any{"moved": moved}
	if moved {
		meta["previous_start_time"] = before.StartTime
		meta["previous_end_time"] = before.EndTime
		meta["start_time"] = ap.StartTime
		meta["end_time"] = ap.EndTime
	}
	uc.audit.Dispatch(appointmentEvent(audit.ActionUpdated, ap, meta))

	if moved && ap.State == string(domain.StateConfirmed) {
		invalidateFor(ctx, uc.cache, ws, before, *ap)
	}

	return ap, nil
}

func merge(ap *models.Appointment, in UpdateInput) error {
	if in.CustomerName != nil {
		name := strings.TrimSpace(*in.CustomerName)
		if name == "" {
			return httperr.ErrValidation("missing_required_fields")
		}
		ap.CustomerName = name
	}
	if in.CustomerPhone != nil {
		phone := domain.CanonicalPhone(*in.CustomerPhone)
		if phone == "" {
			return httperr.ErrValidation("missing_required_fields")
		}
		ap.CustomerPhone = phone
	}
	if in.Description != nil {
		ap.Description = strings.TrimSpace(*in.Description)
	}
	if in.StartTime != nil {
		ap.StartTime = in.StartTime.UTC()
	}
	if in.EndTime != nil {
		ap.EndTime = in.EndTime.UTC()
	}
	return nil
}
