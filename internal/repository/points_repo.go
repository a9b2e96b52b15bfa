package repository

import (
	"errors"

	"rently/internal/models"

	"gorm.io/gorm"
)

type PointsRepository struct {
	db *gorm.DB
}

func NewPointsRepository(db *gorm.DB) *PointsRepository {
	return &PointsRepository{db: db}
}

func (r *PointsRepository) GetBalance(userID uint) (*models.PointsBalance, error) {
	var b models.PointsBalance
	err := r.db.Where("user_id = ?", userID).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.PointsBalance{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Award credits points and appends the transaction row in one database
// transaction, so a partial write cannot leave balance and history divergent.
func (r *PointsRepository) Award(userID uint, amount int64, reason string, bookingID *uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var b models.PointsBalance
		err := tx.Where("user_id = ?", userID).First(&b).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			b = models.PointsBalance{UserID: userID, Balance: amount}
			if err := tx.Create(&b).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else {
			b.Balance += amount
			if err := tx.Model(&b).Update("balance", b.Balance).Error; err != nil {
				return err
			}
		}
		return tx.Create(&models.PointsTransaction{
			UserID:    userID,
			BookingID: bookingID,
			Amount:    amount,
			Reason:    reason,
		}).Error
	})
}

func (r *PointsRepository) ListTransactions(userID uint, limit, offset int) ([]models.PointsTransaction, error) {
	var list []models.PointsTransaction
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// HasReason reports whether the user already received a credit for reason.
// Guards one-time bonuses against double award.
func (r *PointsRepository) HasReason(userID uint, reason string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PointsTransaction{}).
		Where("user_id = ? AND reason = ?", userID, reason).Count(&count).Error
	return count > 0, err
}
