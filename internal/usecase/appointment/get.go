package appointment

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/BruksfildServices01/workshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	appointmentID uuid.UUID,
) (*models.Appointment, error) {
	return loadAppointment(ctx, uc.repo, appointmentID)
}
