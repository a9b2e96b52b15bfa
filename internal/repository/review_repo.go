package repository

import (
	"rently/internal/models"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(rev *models.Review) error {
	return r.db.Create(rev).Error
}

func (r *ReviewRepository) GetByID(id uint) (*models.Review, error) {
	var rev models.Review
	if err := r.db.First(&rev, id).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

// GetByBookingAndReviewer enforces one review per reviewer per booking.
func (r *ReviewRepository) GetByBookingAndReviewer(bookingID, reviewerID uint) (*models.Review, error) {
	var rev models.Review
	if err := r.db.Where("booking_id = ? AND reviewer_id = ?", bookingID, reviewerID).First(&rev).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *ReviewRepository) Update(rev *models.Review) error {
	return r.db.Save(rev).Error
}

func (r *ReviewRepository) Delete(id uint) error {
	return r.db.Delete(&models.Review{}, id).Error
}

func (r *ReviewRepository) ListByListing(listingID uint, limit, offset int) ([]models.Review, error) {
	var list []models.Review
	err := r.db.Preload("Reviewer").Where("listing_id = ?", listingID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

func (r *ReviewRepository) ListByReviewee(revieweeID uint, limit, offset int) ([]models.Review, error) {
	var list []models.Review
	err := r.db.Preload("Reviewer").Where("reviewee_id = ?", revieweeID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}
