package repository

import (
	"time"

	"rently/internal/domain"
	"rently/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(b *models.Booking) error {
	return r.db.Create(b).Error
}

func (r *BookingRepository) GetByID(id uint) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.Preload("Listing").Preload("Renter").Preload("Owner").First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByPaymentIntentID(intentID string) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.Preload("Listing").Where("payment_intent_id = ?", intentID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) Update(b *models.Booking) error {
	return r.db.Save(b).Error
}

// Delete hard-deletes a booking row. Only used as the compensating action
// when PaymentIntent creation fails right after insert.
func (r *BookingRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&models.Booking{}, id).Error
}

func (r *BookingRepository) ListByRenter(renterID uint) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.Preload("Listing").Where("renter_id = ?", renterID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *BookingRepository) ListByOwner(ownerID uint) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.Preload("Listing").Preload("Renter").Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *BookingRepository) ListByStatus(status string) ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.Preload("Listing").Where("status = ?", status).Order("created_at DESC").Find(&list).Error
	return list, err
}

// HasOverlap reports whether the listing already has a confirmed or running
// booking overlapping the window.
func (r *BookingRepository) HasOverlap(listingID uint, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).
		Where("listing_id = ?", listingID).
		Where("status IN ?", []string{domain.BookingPending, domain.BookingConfirmed, domain.BookingInProgress, domain.BookingReturnPending}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&count).Error
	return count > 0, err
}

// CompletedCountForRenter counts completed bookings for the first-rental
// points bonus check.
func (r *BookingRepository) CompletedCountForRenter(renterID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Booking{}).
		Where("renter_id = ? AND status = ?", renterID, domain.BookingCompleted).
		Count(&count).Error
	return count, err
}

// ListUnreleased returns completed bookings whose owner share has not been
// transferred yet, with owner preloaded for eligibility annotation.
func (r *BookingRepository) ListUnreleased() ([]models.Booking, error) {
	var list []models.Booking
	err := r.db.Preload("Owner").Preload("Listing").
		Where("status = ? AND admin_released_at IS NULL", domain.BookingCompleted).
		Order("completed_at ASC").
		Find(&list).Error
	return list, err
}

// WithLock loads the booking under a FOR UPDATE lock, runs fn against it and
// persists the mutated row before commit. Concurrent release attempts for the
// same booking serialize here.
func (r *BookingRepository) WithLock(id uint, fn func(b *models.Booking) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error; err != nil {
			return err
		}
		if err := fn(&b); err != nil {
			return err
		}
		return tx.Save(&b).Error
	})
}
