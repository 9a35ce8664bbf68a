package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/workshop-scheduler/internal/domain/workshop"
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

type WorkshopGormRepository struct {
	db *gorm.DB
}

func NewWorkshopGormRepository(db *gorm.DB) *WorkshopGormRepository {
	return &WorkshopGormRepository{db: db}
}

func (r *WorkshopGormRepository) GetWorkshop(
	ctx context.Context,
	id uuid.UUID,
) (*models.Workshop, error) {

	var w models.Workshop
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, workshop.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *WorkshopGormRepository) ListWorkshops(ctx context.Context) ([]models.Workshop, error) {
	var out []models.Workshop
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *WorkshopGormRepository) CreateWorkshop(ctx context.Context, w *models.Workshop) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *WorkshopGormRepository) UpdateWorkshop(ctx context.Context, w *models.Workshop) error {
	res := r.db.WithContext(ctx).
		Model(&models.Workshop{}).
		Where("id = ?", w.ID).
		Updates(map[string]any{
			"name":          w.Name,
			"address":       w.Address,
			"phone":         w.Phone,
			"timezone":      w.Timezone,
			"opening_hours": w.OpeningHours,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return workshop.ErrNotFound
	}
	return nil
}

// Compile-time check
var _ workshop.Registry = (*WorkshopGormRepository)(nil)
