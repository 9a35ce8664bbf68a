package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

// WorkshopSummaryDTO is the listing shape.
type WorkshopSummaryDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
	Phone   string    `json:"phone"`
}

type WorkshopDTO struct {
	WorkshopSummaryDTO
	Timezone     string          `json:"timezone,omitempty"`
	OpeningHours json.RawMessage `json:"opening_hours"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type SlotsDTO struct {
	AvailableSlots []string `json:"availableSlots"`
}

func FromWorkshopSummary(w *models.Workshop) WorkshopSummaryDTO {
	return WorkshopSummaryDTO{
		ID:      w.ID,
		Name:    w.Name,
		Address: w.Address,
		Phone:   w.Phone,
	}
}

func FromWorkshop(w *models.Workshop) WorkshopDTO {
	return WorkshopDTO{
		WorkshopSummaryDTO: FromWorkshopSummary(w),
		Timezone:           w.Timezone,
		OpeningHours:       json.RawMessage(w.OpeningHours),
		CreatedAt:          w.CreatedAt,
		UpdatedAt:          w.UpdatedAt,
	}
}
