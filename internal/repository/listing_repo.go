package repository

import (
	"rently/internal/models"

	"gorm.io/gorm"
)

type ListingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

func (r *ListingRepository) Create(l *models.Listing) error {
	return r.db.Create(l).Error
}

func (r *ListingRepository) GetByID(id uint) (*models.Listing, error) {
	var l models.Listing
	if err := r.db.Preload("Owner").First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ListingRepository) Update(l *models.Listing) error {
	return r.db.Save(l).Error
}

func (r *ListingRepository) Delete(id, ownerID uint) error {
	return r.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Listing{}).Error
}

func (r *ListingRepository) ListByOwner(ownerID uint) ([]models.Listing, error) {
	var list []models.Listing
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// Browse returns active listings with optional filters, newest first.
func (r *ListingRepository) Browse(category, city, search string, page, limit int) ([]models.Listing, int64, error) {
	q := r.db.Model(&models.Listing{}).Where("active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if city != "" {
		q = q.Where("city = ?", city)
	}
	if search != "" {
		q = q.Where("title LIKE ?", "%"+search+"%")
	}
	var total int64
	q.Count(&total)
	var list []models.Listing
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// RefreshRating recomputes the aggregate rating from live review rows.
func (r *ListingRepository) RefreshRating(listingID uint) error {
	var agg struct {
		Avg   float64
		Count int
	}
	err := r.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("listing_id = ?", listingID).
		Scan(&agg).Error
	if err != nil {
		return err
	}
	return r.db.Model(&models.Listing{}).Where("id = ?", listingID).
		Updates(map[string]interface{}{"rating": agg.Avg, "review_count": agg.Count}).Error
}
