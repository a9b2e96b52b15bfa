package repository

import (
	"rently/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByBookingID(bookingID uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.Where("booking_id = ?", bookingID).Order("created_at DESC").First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) UpdateStatusByBookingID(bookingID uint, status string) error {
	return r.db.Model(&models.Payment{}).Where("booking_id = ?", bookingID).Update("status", status).Error
}

type PayoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) Create(p *models.Payout) error {
	return r.db.Create(p).Error
}

func (r *PayoutRepository) ListByOwner(ownerID uint) ([]models.Payout, error) {
	var list []models.Payout
	err := r.db.Where("owner_id = ?", ownerID).Order("released_at DESC").Find(&list).Error
	return list, err
}
