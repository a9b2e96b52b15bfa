package models

import (
	"time"

	"gorm.io/gorm"
)

type Booking struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ListingID uint `gorm:"not null;index" json:"listing_id"`
	RenterID  uint `gorm:"not null;index" json:"renter_id"`
	OwnerID   uint `gorm:"not null;index" json:"owner_id"`

	StartDate      time.Time `gorm:"not null" json:"start_date"`
	EndDate        time.Time `gorm:"not null" json:"end_date"`
	DeliveryMethod string    `gorm:"size:20;default:'PICKUP'" json:"delivery_method"`

	// Pricing snapshot at creation time, all cents.
	Days             int   `gorm:"not null" json:"days"`
	SubtotalCents    int64 `gorm:"not null" json:"subtotal_cents"`
	ServiceFeeCents  int64 `gorm:"not null" json:"service_fee_cents"`
	CommissionCents  int64 `gorm:"not null" json:"commission_cents"`
	OwnerPayoutCents int64 `gorm:"not null" json:"owner_payout_cents"`
	DepositCents     int64 `gorm:"default:0" json:"deposit_cents"`
	TotalCents       int64 `gorm:"not null" json:"total_cents"`

	Status       string `gorm:"size:20;not null;index" json:"status"`        // PENDING..COMPLETED / CANCELLED / DISPUTED
	PaymentState string `gorm:"size:20;not null;index" json:"payment_state"` // AUTHORIZED..RELEASED

	PaymentIntentID string `gorm:"size:64;index" json:"-"`
	TransferID      string `gorm:"size:64" json:"-"`

	// Two-party handover confirmation.
	PickupConfirmedByRenter bool       `gorm:"default:false" json:"pickup_confirmed_by_renter"`
	PickupConfirmedByOwner  bool       `gorm:"default:false" json:"pickup_confirmed_by_owner"`
	PickupConfirmedAt       *time.Time `json:"pickup_confirmed_at"`
	PickupPhotos            string     `gorm:"type:text" json:"pickup_photos"` // JSON array of URLs
	ReturnConfirmedByRenter bool       `gorm:"default:false" json:"return_confirmed_by_renter"`
	ReturnConfirmedByOwner  bool       `gorm:"default:false" json:"return_confirmed_by_owner"`
	ReturnConfirmedAt       *time.Time `json:"return_confirmed_at"`
	ReturnPhotos            string     `gorm:"type:text" json:"return_photos"`

	DamageReport            string     `gorm:"type:text" json:"damage_report"`
	OwnerReceiptConfirmedAt *time.Time `json:"owner_receipt_confirmed_at"`
	AdminReleasedAt         *time.Time `gorm:"index" json:"admin_released_at"`
	CancelledAt             *time.Time `json:"cancelled_at"`
	CompletedAt             *time.Time `json:"completed_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Listing Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
	Renter  User    `gorm:"foreignKey:RenterID" json:"renter,omitempty"`
	Owner   User    `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// Released reports whether owner funds have already been transferred (or the
// release was recorded). Used as the idempotency guard for admin release.
func (b *Booking) Released() bool {
	return b.AdminReleasedAt != nil || b.TransferID != ""
}

// Party reports whether userID is the renter or owner on this booking.
func (b *Booking) Party(userID uint) bool {
	return userID == b.RenterID || userID == b.OwnerID
}
