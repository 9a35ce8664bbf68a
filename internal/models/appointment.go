package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// Seq is assigned by the database on insert and fixes insertion order.
	Seq int64 `gorm:"autoIncrement;not null;uniqueIndex" json:"-"`

	WorkshopID uuid.UUID `gorm:"type:uuid;not null;index" json:"workshop_id"`
	Workshop   *Workshop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerPhone string `gorm:"size:40;not null;index" json:"customer_phone"`
	Description   string `gorm:"size:500" json:"description,omitempty"`

	StartTime time.Time `gorm:"type:timestamptz;not null;index" json:"start_time"`
	EndTime   time.Time `gorm:"type:timestamptz;not null" json:"end_time"`

	State     string `gorm:"size:20;not null;default:'PENDING';index" json:"state"`
	Completed bool   `gorm:"not null;default:false" json:"completed"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
