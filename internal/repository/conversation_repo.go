package repository

import (
	"errors"
	"time"

	"rently/internal/models"

	"gorm.io/gorm"
)

type ConversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// GetOrCreate returns the conversation for a renter/listing pair, creating it
// on first contact.
func (r *ConversationRepository) GetOrCreate(listingID, renterID, ownerID uint) (*models.Conversation, error) {
	var c models.Conversation
	err := r.db.Where("listing_id = ? AND renter_id = ?", listingID, renterID).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	c = models.Conversation{ListingID: listingID, RenterID: renterID, OwnerID: ownerID}
	if err := r.db.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ConversationRepository) GetByID(id uint) (*models.Conversation, error) {
	var c models.Conversation
	if err := r.db.Preload("Listing").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ConversationRepository) AttachBooking(conversationID, bookingID uint) error {
	return r.db.Model(&models.Conversation{}).Where("id = ?", conversationID).
		Update("booking_id", bookingID).Error
}

func (r *ConversationRepository) ListByUser(userID uint) ([]models.Conversation, error) {
	var list []models.Conversation
	err := r.db.Preload("Listing").
		Where("renter_id = ? OR owner_id = ?", userID, userID).
		Order("last_message_at DESC").Find(&list).Error
	return list, err
}

func (r *ConversationRepository) CreateMessage(m *models.Message) error {
	if err := r.db.Create(m).Error; err != nil {
		return err
	}
	now := time.Now()
	return r.db.Model(&models.Conversation{}).Where("id = ?", m.ConversationID).
		Update("last_message_at", now).Error
}

func (r *ConversationRepository) ListMessages(conversationID uint, limit, offset int) ([]models.Message, error) {
	var list []models.Message
	err := r.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").Limit(limit).Offset(offset).Find(&list).Error
	return list, err
}

// MarkRead stamps all messages in the conversation not sent by userID.
func (r *ConversationRepository) MarkRead(conversationID, userID uint) error {
	return r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, userID).
		Update("read_at", gorm.Expr("NOW()")).Error
}
