package repository

import (
	"rently/internal/models"

	"gorm.io/gorm"
)

type IdentityRepository struct {
	db *gorm.DB
}

func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

func (r *IdentityRepository) Create(v *models.IdentityVerification) error {
	return r.db.Create(v).Error
}

func (r *IdentityRepository) GetBySessionID(sessionID string) (*models.IdentityVerification, error) {
	var v models.IdentityVerification
	if err := r.db.Where("session_id = ?", sessionID).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *IdentityRepository) LatestForUser(userID uint) (*models.IdentityVerification, error) {
	var v models.IdentityVerification
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *IdentityRepository) Update(v *models.IdentityVerification) error {
	return r.db.Save(v).Error
}
