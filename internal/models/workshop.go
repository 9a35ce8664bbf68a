package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Workshop struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:100;not null" json:"name"`
	Address  string    `gorm:"size:255" json:"address"`
	Phone    string    `gorm:"size:30" json:"phone"`
	Timezone string    `gorm:"size:64" json:"timezone,omitempty"`

	// Weekly schedule as {"weekdays":[...],"saturday":[...],"sunday":[...]}.
	OpeningHours datatypes.JSON `gorm:"type:jsonb;not null" json:"opening_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (w *Workshop) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
