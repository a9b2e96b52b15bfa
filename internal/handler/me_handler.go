package handler

import (
	"net/http"
	"strconv"

	"rently/internal/middleware"
	"rently/internal/repository"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	userRepo   *repository.UserRepository
	pointsRepo *repository.PointsRepository
	payoutRepo *repository.PayoutRepository
	reviewRepo *repository.ReviewRepository
}

func NewMeHandler(userRepo *repository.UserRepository, pointsRepo *repository.PointsRepository, payoutRepo *repository.PayoutRepository, reviewRepo *repository.ReviewRepository) *MeHandler {
	return &MeHandler{userRepo: userRepo, pointsRepo: pointsRepo, payoutRepo: payoutRepo, reviewRepo: reviewRepo}
}

func (h *MeHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *MeHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Name      *string `json:"name"`
		Phone     *string `json:"phone"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.AvatarURL != nil {
		u.AvatarURL = *req.AvatarURL
	}
	if err := h.userRepo.Update(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *MeHandler) UpdateFCMToken(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.userRepo.UpdateFCMToken(userID, req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "token updated"})
}

func (h *MeHandler) Points(c *gin.Context) {
	userID := middleware.GetUserID(c)
	balance, err := h.pointsRepo.GetBalance(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "points lookup failed"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	txns, err := h.pointsRepo.ListTransactions(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "points lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance.Balance, "transactions": txns})
}

// Reviews lists reviews written about the caller.
func (h *MeHandler) Reviews(c *gin.Context) {
	userID := middleware.GetUserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	reviews, err := h.reviewRepo.ListByReviewee(userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "review lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func (h *MeHandler) Payouts(c *gin.Context) {
	userID := middleware.GetUserID(c)
	payouts, err := h.payoutRepo.ListByOwner(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payout lookup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}
