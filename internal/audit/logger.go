package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/workshop-scheduler/internal/models"
)

// Logger writes events to the audit_logs table.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Name() string { return "audit_logs" }

func (l *Logger) Record(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		WorkshopID: ev.WorkshopID,
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		Metadata:   metaJSON,
		CreatedAt:  ev.At,
	}

	return l.db.WithContext(ctx).Create(&row).Error
}

// Query selects one workshop's audit rows. Zero values do not filter.
type Query struct {
	WorkshopID uuid.UUID
	Action     string
	Entity     string
	From       *time.Time
	To         *time.Time

	Limit  int
	Offset int
}

// List returns the matching rows newest first, with the total before paging.
func (l *Logger) List(ctx context.Context, q Query) ([]models.AuditLog, int64, error) {
	tx := l.db.WithContext(ctx).
		Model(&models.AuditLog{}).
		Where("workshop_id = ?", q.WorkshopID)

	if q.Action != "" {
		tx = tx.Where("action = ?", q.Action)
	}
	if q.Entity != "" {
		tx = tx.Where("entity = ?", q.Entity)
	}
	if q.From != nil {
		tx = tx.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("created_at < ?", *q.To)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	logs := []models.AuditLog{}
	if err := tx.
		Order("created_at DESC").
		Order("id DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}

	return logs, total, nil
}
