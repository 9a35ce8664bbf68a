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
	"github.com/BruksfildServices01/workshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	WorkshopID uuid.UUID

	CustomerName  string
	CustomerPhone string
	Description   string

	StartTime time.Time
	EndTime   time.Time
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	registry workshop.Registry
	repo     domain.Repository
	audit    audit.Recorder
	logger   *slog.Logger
}

func NewCreateAppointment(
	registry workshop.Registry,
	repo domain.Repository,
	audit audit.Recorder,
	logger *slog.Logger,
) *CreateAppointment {
	return &CreateAppointment{
		registry: registry,
		repo:     repo,
		audit:    audit,
		logger:   logger,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Workshop
	// --------------------------------------------------
	ws, err := loadWorkshop(ctx, uc.registry, in.WorkshopID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Input
	// --------------------------------------------------
	name := strings.TrimSpace(in.CustomerName)
	phone := domain.CanonicalPhone(in.CustomerPhone)
	if name == "" || phone == "" {
		return nil, httperr.ErrValidation("missing_required_fields")
	}
	if err := domain.ValidateInterval(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		WorkshopID:    ws.ID,
		CustomerName:  name,
		CustomerPhone: phone,
		Description:   strings.TrimSpace(in.Description),
		StartTime:     in.StartTime.UTC(),
		EndTime:       in.EndTime.UTC(),
		State:         string(domain.InitialState()),
	}

	// --------------------------------------------------
	// Conflict check + insert under the workshop lock
	// --------------------------------------------------
	err = uc.repo.WithinWorkshopLock(ctx, ws.ID, func(ctx context.Context, tx domain.Repository) error {
		ok, err := IsAvailable(ctx, tx, ws.ID, ap.StartTime, ap.EndTime, nil)
		if err != nil {
			return err
		}
		if !ok {
			return errSlotNotAvailable
		}
		return storeErr(tx.CreateAppointment(ctx, ap))
	})
	if err != nil {
		if httperr.KindOf(err) == httperr.KindConflict {
			reportConflict(uc.logger, uc.audit, "create", ap)
		}
		return nil, err
	}

	// --------------------------------------------------
	// Observability
	// --------------------------------------------------
	uc.logger.Info("appointment created",
		"appointment_id", ap.ID.String(),
		"workshop_id", ap.WorkshopID.String(),
		"to", ap.State,
		"start", ap.StartTime,
		"end", ap.EndTime,
	)
	metrics.RecordTransition(ap.State)

	uc.audit.Dispatch(appointmentEvent(audit.ActionCreated, ap, map[string]any{
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
	}))

	return ap, nil
}
