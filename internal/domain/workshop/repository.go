package workshop

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

var ErrNotFound = errors.New("workshop not found")

// Registry is the persistence port for workshops. Get returns ErrNotFound
// for unknown ids.
type Registry interface {
	GetWorkshop(ctx context.Context, id uuid.UUID) (*models.Workshop, error)
	ListWorkshops(ctx context.Context) ([]models.Workshop, error)
	CreateWorkshop(ctx context.Context, w *models.Workshop) error
	UpdateWorkshop(ctx context.Context, w *models.Workshop) error
}
