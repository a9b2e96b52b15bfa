package handler

import (
	"net/http"
	"strconv"

	"rently/internal/middleware"
	"rently/internal/models"
	"rently/internal/repository"
	"rently/internal/service"
	"rently/internal/ws"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	convRepo    *repository.ConversationRepository
	listingRepo *repository.ListingRepository
	userRepo    *repository.UserRepository
	chatHub     *ws.ChatHub
	notifSvc    *service.NotificationService
}

func NewChatHandler(
	convRepo *repository.ConversationRepository,
	listingRepo *repository.ListingRepository,
	userRepo *repository.UserRepository,
	chatHub *ws.ChatHub,
	notifSvc *service.NotificationService,
) *ChatHandler {
	return &ChatHandler{
		convRepo:    convRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		chatHub:     chatHub,
		notifSvc:    notifSvc,
	}
}

// Start opens (or returns) the conversation between the caller and a
// listing's owner.
func (h *ChatHandler) Start(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		ListingID uint `json:"listing_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	listing, err := h.listingRepo.GetByID(req.ListingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		return
	}
	if listing.OwnerID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot message yourself"})
		return
	}
	conv, err := h.convRepo.GetOrCreate(listing.ID, userID, listing.OwnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "conversation failed"})
		return
	}
	c.JSON(http.StatusOK, conv)
}

func (h *ChatHandler) List(c *gin.Context) {
	userID := middleware.GetUserID(c)
	convs, err := h.convRepo.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

func (h *ChatHandler) Messages(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	conv, err := h.convRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if !conv.Party(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not part of this conversation"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	messages, err := h.convRepo.ListMessages(id, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	_ = h.convRepo.MarkRead(id, userID)
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// Send posts a message over REST; connected WebSocket clients in the room get
// it pushed, the offline party gets a notification.
func (h *ChatHandler) Send(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Body     string `json:"body"`
		MediaURL string `json:"media_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Body == "" && req.MediaURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message body required"})
		return
	}
	conv, err := h.convRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	if !conv.Party(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not part of this conversation"})
		return
	}
	payload, err := persistMessage(h.convRepo, conv.ID, userID, req.Body, req.MediaURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "send failed"})
		return
	}
	recipient := conv.OwnerID
	if userID == conv.OwnerID {
		recipient = conv.RenterID
	}
	online := false
	if room := h.chatHub.GetRoom(conv.ID); room != nil {
		room.Broadcast(nil, payload)
		online = room.MemberOnline(recipient)
	}
	if !online {
		sender, _ := h.userRepo.GetByID(userID)
		name := ""
		if sender != nil {
			name = sender.Name
		}
		_ = h.notifSvc.NotifyNewMessage(recipient, conv.ID, name)
	}
	c.JSON(http.StatusCreated, payload)
}

// persistMessage writes the message row and returns the wire payload shared by
// the REST and WebSocket paths.
func persistMessage(convRepo *repository.ConversationRepository, convID, senderID uint, body, mediaURL string) (map[string]interface{}, error) {
	m := &models.Message{
		ConversationID: convID,
		SenderID:       senderID,
		Body:           body,
		MediaURL:       mediaURL,
	}
	if err := convRepo.CreateMessage(m); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"type":            "message",
		"id":              m.ID,
		"conversation_id": m.ConversationID,
		"sender_id":       m.SenderID,
		"body":            m.Body,
		"media_url":       m.MediaURL,
		"created_at":      m.CreatedAt,
	}, nil
}
