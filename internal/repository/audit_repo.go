package repository

import (
	"rently/internal/models"

	"gorm.io/gorm"
)

type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(a *models.AuditLog) error {
	return r.db.Create(a).Error
}

func (r *AuditLogRepository) List(action string, page, limit int) ([]models.AuditLog, int64, error) {
	q := r.db.Model(&models.AuditLog{})
	if action != "" {
		q = q.Where("action = ?", action)
	}
	var total int64
	q.Count(&total)
	var list []models.AuditLog
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// SeenEvent reports whether a webhook event id was already processed; events
// are recorded as audit rows keyed by resource id.
func (r *AuditLogRepository) SeenEvent(eventID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.AuditLog{}).
		Where("action = ? AND resource_id = ?", "webhook_event", eventID).Count(&count).Error
	return count > 0, err
}

func (r *AuditLogRepository) RecordEvent(eventID, eventType string) error {
	return r.Create(&models.AuditLog{
		Action:     "webhook_event",
		Resource:   eventType,
		ResourceID: eventID,
	})
}
