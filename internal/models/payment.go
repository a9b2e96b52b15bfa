package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment mirrors processor state for a booking charge; the processor owns
// capture/void semantics, these rows are bookkeeping.
type Payment struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	BookingID      uint           `gorm:"not null;index" json:"booking_id"`
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	AmountCents    int64          `gorm:"not null" json:"amount_cents"`
	Currency       string         `gorm:"size:3;default:'USD'" json:"currency"`
	Provider       string         `gorm:"size:50;not null" json:"provider"`
	ProviderRef    string         `gorm:"size:255;uniqueIndex" json:"provider_ref"` // payment intent / transfer id
	Status         string         `gorm:"size:20;not null;index" json:"status"`
	IdempotencyKey string         `gorm:"size:255;uniqueIndex" json:"-"`
	Breakdown      string         `gorm:"type:text" json:"breakdown"` // pricing snapshot JSON
	CompletedAt    *time.Time     `json:"completed_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Booking Booking `gorm:"foreignKey:BookingID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

// Payout records a Connect transfer of the owner share for a completed booking.
type Payout struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	BookingID   uint      `gorm:"uniqueIndex;not null" json:"booking_id"` // at most one payout per booking
	OwnerID     uint      `gorm:"not null;index" json:"owner_id"`
	AmountCents int64     `gorm:"not null" json:"amount_cents"`
	TransferID  string    `gorm:"size:64;uniqueIndex" json:"transfer_id"`
	Simulated   bool      `gorm:"default:false" json:"simulated"` // test-mode balance_insufficient fallback
	ReleasedBy  uint      `gorm:"not null" json:"released_by"`    // admin user id
	ReleasedAt  time.Time `json:"released_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Booking Booking `gorm:"foreignKey:BookingID" json:"-"`
	Owner   User    `gorm:"foreignKey:OwnerID" json:"-"`
}

func (Payout) TableName() string {
	return "payouts"
}
