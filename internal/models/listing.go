package models

import (
	"time"

	"gorm.io/gorm"
)

type Listing struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OwnerID     uint   `gorm:"not null;index" json:"owner_id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:64;index" json:"category"`

	DailyRateCents   int64 `gorm:"not null" json:"daily_rate_cents"`
	WeeklyRateCents  int64 `gorm:"default:0" json:"weekly_rate_cents"`  // 0 = tier not offered
	MonthlyRateCents int64 `gorm:"default:0" json:"monthly_rate_cents"` // 0 = tier not offered
	DepositCents     int64 `gorm:"default:0" json:"deposit_cents"`

	Photos      string  `gorm:"type:text" json:"photos"` // JSON array of URLs
	City        string  `gorm:"size:128;index" json:"city"`
	Active      bool    `gorm:"default:true;index" json:"active"`
	Rating      float64 `gorm:"default:0" json:"rating"`
	ReviewCount int     `gorm:"default:0" json:"review_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Listing) TableName() string {
	return "listings"
}
