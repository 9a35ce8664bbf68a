package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

var ErrNotFound = errors.New("appointment not found")

type Repository interface {
	// -------- Appointment (read) --------
	GetAppointment(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Appointment, error)

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, int64, error)

	// ListConfirmedBetween returns CONFIRMED appointments of the workshop
	// that overlap [from, to).
	ListConfirmedBetween(
		ctx context.Context,
		workshopID uuid.UUID,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	// -------- Appointment (write) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		id uuid.UUID,
	) error

	// -------- Serialization --------

	// WithinWorkshopLock runs fn while holding the workshop's booking lock,
	// atomically: either every write in fn commits or none does.
	WithinWorkshopLock(
		ctx context.Context,
		workshopID uuid.UUID,
		fn func(ctx context.Context, repo Repository) error,
	) error
}
