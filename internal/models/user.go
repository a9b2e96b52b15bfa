package models

import (
	"time"

	"rently/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `gorm:"size:128;not null;default:''" json:"name"`
	Email        string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string  `gorm:"size:255" json:"-"`
	Role         string  `gorm:"size:20;not null;index" json:"role"` // RENTER | OWNER | ADMIN
	GoogleID     *string `gorm:"uniqueIndex;size:255" json:"-"`      // nil for email signups (avoids duplicate '' on unique index)
	AvatarURL    string  `gorm:"size:512" json:"avatar_url"`
	Phone        string  `gorm:"size:20" json:"phone"`

	// Payment processor linkage.
	CustomerID          string `gorm:"size:64;index" json:"-"` // processor customer id
	ConnectAccountID    string `gorm:"size:64;index" json:"-"` // processor Connect account for payouts
	OnboardingCompleted bool   `gorm:"default:false" json:"onboarding_completed"`
	PayoutsEnabled      bool   `gorm:"default:false" json:"payouts_enabled"`
	IdentityVerified    bool   `gorm:"default:false" json:"identity_verified"`

	FCMToken  string         `gorm:"size:512" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Listings []Listing `gorm:"foreignKey:OwnerID" json:"listings,omitempty"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

// CanReceivePayouts reports whether the user is a fully onboarded seller.
func (u *User) CanReceivePayouts() bool {
	return u.ConnectAccountID != "" && u.OnboardingCompleted
}
