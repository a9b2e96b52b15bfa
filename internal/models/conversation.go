package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation links a renter and an owner around a listing (and optionally a
// booking once one exists). One conversation per renter/listing pair.
type Conversation struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	ListingID uint  `gorm:"not null;index" json:"listing_id"`
	BookingID *uint `gorm:"index" json:"booking_id"`
	RenterID  uint  `gorm:"not null;index:idx_conv_parties" json:"renter_id"`
	OwnerID   uint  `gorm:"not null;index:idx_conv_parties" json:"owner_id"`

	LastMessageAt *time.Time     `json:"last_message_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Listing Listing `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Party reports whether userID participates in the conversation.
func (c *Conversation) Party(userID uint) bool {
	return userID == c.RenterID || userID == c.OwnerID
}

type Message struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ConversationID uint       `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint       `gorm:"not null;index" json:"sender_id"`
	Body           string     `gorm:"type:text" json:"body"`
	MediaURL       string     `gorm:"size:512" json:"media_url"`
	ReadAt         *time.Time `json:"read_at"`
	CreatedAt      time.Time  `json:"created_at"`

	Conversation Conversation `gorm:"foreignKey:ConversationID" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}
