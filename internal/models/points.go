package models

import (
	"time"

	"gorm.io/gorm"
)

type PointsBalance struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance   int64          `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PointsBalance) TableName() string {
	return "points_balances"
}

// PointsTransaction is the append-only history behind a balance.
type PointsTransaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	BookingID *uint     `gorm:"index" json:"booking_id"`
	Amount    int64     `gorm:"not null" json:"amount"` // positive = credit
	Reason    string    `gorm:"size:64;not null" json:"reason"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (PointsTransaction) TableName() string {
	return "points_transactions"
}
