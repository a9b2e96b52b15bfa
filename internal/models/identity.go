package models

import (
	"time"

	"gorm.io/gorm"
)

// IdentityVerification tracks a processor identity (KYC) session for a user.
type IdentityVerification struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	SessionID  string         `gorm:"size:64;uniqueIndex;not null" json:"session_id"`
	SessionURL string         `gorm:"size:512" json:"-"`
	Status     string         `gorm:"size:20;not null;index" json:"status"` // PENDING, VERIFIED, FAILED
	VerifiedAt *time.Time     `json:"verified_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (IdentityVerification) TableName() string {
	return "identity_verifications"
}
