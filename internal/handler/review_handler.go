package handler

import (
	"net/http"
	"time"

	"rently/internal/domain"
	"rently/internal/middleware"
	"rently/internal/models"
	"rently/internal/repository"
	"rently/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewRepo  *repository.ReviewRepository
	bookingRepo *repository.BookingRepository
	listingRepo *repository.ListingRepository
	userRepo    *repository.UserRepository
	notifSvc    *service.NotificationService
}

func NewReviewHandler(
	reviewRepo *repository.ReviewRepository,
	bookingRepo *repository.BookingRepository,
	listingRepo *repository.ListingRepository,
	userRepo *repository.UserRepository,
	notifSvc *service.NotificationService,
) *ReviewHandler {
	return &ReviewHandler{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		notifSvc:    notifSvc,
	}
}

func (h *ReviewHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		BookingID uint   `json:"booking_id" binding:"required"`
		Rating    int    `json:"rating" binding:"required,min=1,max=5"`
		Comment   string `json:"comment" binding:"max=2000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.bookingRepo.GetByID(req.BookingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if !b.Party(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your booking"})
		return
	}
	if b.Status != domain.BookingCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking not completed yet"})
		return
	}
	if existing, _ := h.reviewRepo.GetByBookingAndReviewer(req.BookingID, userID); existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "you already reviewed this booking"})
		return
	}
	revieweeID := b.OwnerID
	if userID == b.OwnerID {
		revieweeID = b.RenterID
	}
	rev := &models.Review{
		BookingID:  b.ID,
		ListingID:  b.ListingID,
		ReviewerID: userID,
		RevieweeID: revieweeID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := h.reviewRepo.Create(rev); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	_ = h.listingRepo.RefreshRating(b.ListingID)

	reviewer, _ := h.userRepo.GetByID(userID)
	name := ""
	if reviewer != nil {
		name = reviewer.Name
	}
	_ = h.notifSvc.NotifyReviewReceived(revieweeID, rev.ID, name)
	c.JSON(http.StatusCreated, rev)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
		Comment *string `json:"comment" binding:"omitempty,max=2000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rev, err := h.reviewRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}
	if rev.ReviewerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your review"})
		return
	}
	if !rev.Editable(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reviews can only be edited within 24 hours"})
		return
	}
	if req.Rating != nil {
		rev.Rating = *req.Rating
	}
	if req.Comment != nil {
		rev.Comment = *req.Comment
	}
	if err := h.reviewRepo.Update(rev); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	_ = h.listingRepo.RefreshRating(rev.ListingID)
	c.JSON(http.StatusOK, rev)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	rev, err := h.reviewRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}
	if rev.ReviewerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your review"})
		return
	}
	if !rev.Deletable(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reviews can only be deleted within 1 hour"})
		return
	}
	if err := h.reviewRepo.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	_ = h.listingRepo.RefreshRating(rev.ListingID)
	c.JSON(http.StatusOK, gin.H{"message": "review deleted"})
}

// Respond lets the reviewee attach a single public reply.
func (h *ReviewHandler) Respond(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Response string `json:"response" binding:"required,max=2000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rev, err := h.reviewRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}
	if rev.RevieweeID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the reviewee can respond"})
		return
	}
	rev.Response = req.Response
	if err := h.reviewRepo.Update(rev); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, rev)
}
