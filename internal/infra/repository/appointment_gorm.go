package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/workshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/workshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uuid.UUID,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&ap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})

	if filter.WorkshopID != nil {
		q = q.Where("workshop_id = ?", *filter.WorkshopID)
	}
	if len(filter.States) > 0 {
		states := make([]string, 0, len(filter.States))
		for _, s := range filter.States {
			states = append(states, string(s))
		}
		q = q.Where("state IN ?", states)
	}
	if filter.From != nil {
		q = q.Where("start_time >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("start_time < ?", *filter.To)
	}
	if len(filter.Phones) > 0 {
		phones := make([]string, 0, len(filter.Phones))
		for _, p := range filter.Phones {
			phones = append(phones, strings.ToLower(p))
		}
		q = q.Where("LOWER(customer_phone) IN ?", phones)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Order {
	case domain.OrderStartAsc:
		q = q.Order("start_time ASC").Order("seq ASC")
	case domain.OrderStartDesc:
		q = q.Order("start_time DESC").Order("seq ASC")
	default:
		q = q.Order("seq ASC")
	}

	limit, offset := filter.Page()

	var apps []models.Appointment
	if err := q.
		Limit(limit).
		Offset(offset).
		Find(&apps).Error; err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// ListConfirmedBetween expresses appointment.Overlaps in SQL.
func (r *AppointmentGormRepository) ListConfirmedBetween(
	ctx context.Context,
	workshopID uuid.UUID,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"workshop_id = ? AND state = ? AND start_time < ? AND end_time > ?",
			workshopID,
			string(domain.StateConfirmed),
			to,
			from,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return translate(r.db.WithContext(ctx).Omit("Workshop").Create(ap).Error)
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	ap.UpdatedAt = time.Now()

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", ap.ID).
		Updates(map[string]any{
			"customer_name":  ap.CustomerName,
			"customer_phone": ap.CustomerPhone,
			"description":    ap.Description,
			"start_time":     ap.StartTime,
			"end_time":       ap.EndTime,
			"state":          ap.State,
			"completed":      ap.Completed,
			"updated_at":     ap.UpdatedAt,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uuid.UUID,
) error {

	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Appointment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Serialization
// --------------------------------------------------

// WithinWorkshopLock runs fn in a transaction holding a transaction-scoped
// advisory lock on the workshop, so check-then-write sequences for one
// workshop never interleave. Other workshops are not blocked.
func (r *AppointmentGormRepository) WithinWorkshopLock(
	ctx context.Context,
	workshopID uuid.UUID,
	fn func(ctx context.Context, repo domain.Repository) error,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"SELECT pg_advisory_xact_lock(hashtext(?))",
			workshopID.String(),
		).Error; err != nil {
			return err
		}

		return fn(ctx, &AppointmentGormRepository{db: tx})
	})
}

func translate(err error) error {
	if err != nil && httperr.IsExclusionConflict(err) {
		return domain.ErrOverlap
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
