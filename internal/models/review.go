package models

import (
	"time"

	"rently/internal/domain"

	"gorm.io/gorm"
)

type Review struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	BookingID  uint   `gorm:"not null;index" json:"booking_id"`
	ListingID  uint   `gorm:"not null;index" json:"listing_id"`
	ReviewerID uint   `gorm:"not null;index" json:"reviewer_id"`
	RevieweeID uint   `gorm:"not null;index" json:"reviewee_id"`
	Rating     int    `gorm:"not null" json:"rating"` // 1..5
	Comment    string `gorm:"type:text" json:"comment"`
	Response   string `gorm:"type:text" json:"response"` // reviewee's reply

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Booking  Booking `gorm:"foreignKey:BookingID" json:"-"`
	Reviewer User    `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}

// Editable reports whether the review is still inside its 24h edit window.
func (r *Review) Editable(now time.Time) bool {
	return now.Sub(r.CreatedAt) <= domain.ReviewEditWindowHours*time.Hour
}

// Deletable reports whether the review is still inside its 1h delete window.
func (r *Review) Deletable(now time.Time) bool {
	return now.Sub(r.CreatedAt) <= domain.ReviewDeleteWindowHours*time.Hour
}
