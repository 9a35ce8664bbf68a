package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

type AppointmentDTO struct {
	ID            uuid.UUID `json:"id"`
	WorkshopID    uuid.UUID `json:"workshop_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	Description   string    `json:"description,omitempty"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	State         string    `json:"state"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromAppointment(ap *models.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:            ap.ID,
		WorkshopID:    ap.WorkshopID,
		CustomerName:  ap.CustomerName,
		CustomerPhone: ap.CustomerPhone,
		Description:   ap.Description,
		StartTime:     ap.StartTime.UTC(),
		EndTime:       ap.EndTime.UTC(),
		State:         ap.State,
		Completed:     ap.Completed,
		CreatedAt:     ap.CreatedAt,
		UpdatedAt:     ap.UpdatedAt,
	}
}

func FromAppointments(aps []models.Appointment) []AppointmentDTO {
	out := make([]AppointmentDTO, 0, len(aps))
	for i := range aps {
		out = append(out, FromAppointment(&aps[i]))
	}
	return out
}
