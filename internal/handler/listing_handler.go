package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"rently/internal/domain"
	"rently/internal/middleware"
	"rently/internal/models"
	"rently/internal/repository"

	"github.com/gin-gonic/gin"
)

type ListingHandler struct {
	listingRepo *repository.ListingRepository
	reviewRepo  *repository.ReviewRepository
}

func NewListingHandler(listingRepo *repository.ListingRepository, reviewRepo *repository.ReviewRepository) *ListingHandler {
	return &ListingHandler{listingRepo: listingRepo, reviewRepo: reviewRepo}
}

type listingRequest struct {
	Title            string   `json:"title" binding:"required,min=3,max=255"`
	Description      string   `json:"description"`
	Category         string   `json:"category" binding:"required"`
	City             string   `json:"city" binding:"required"`
	DailyRateCents   int64    `json:"daily_rate_cents" binding:"required,gt=0"`
	WeeklyRateCents  int64    `json:"weekly_rate_cents" binding:"gte=0"`
	MonthlyRateCents int64    `json:"monthly_rate_cents" binding:"gte=0"`
	DepositCents     int64    `json:"deposit_cents" binding:"gte=0"`
	Photos           []string `json:"photos"`
}

func (h *ListingHandler) Create(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	photos, _ := json.Marshal(req.Photos)
	l := &models.Listing{
		OwnerID:          ownerID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		City:             req.City,
		DailyRateCents:   req.DailyRateCents,
		WeeklyRateCents:  req.WeeklyRateCents,
		MonthlyRateCents: req.MonthlyRateCents,
		DepositCents:     req.DepositCents,
		Photos:           string(photos),
		Active:           true,
	}
	if err := h.listingRepo.Create(l); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, l)
}

func (h *ListingHandler) Browse(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	listings, total, err := h.listingRepo.Browse(
		c.Query("category"), c.Query("city"), c.Query("search"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "browse failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings, "total": total, "page": page, "limit": limit})
}

func (h *ListingHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	l, err := h.listingRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *ListingHandler) Update(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	l, err := h.listingRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		return
	}
	if l.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your listing"})
		return
	}
	var req struct {
		Title            *string  `json:"title"`
		Description      *string  `json:"description"`
		Category         *string  `json:"category"`
		City             *string  `json:"city"`
		DailyRateCents   *int64   `json:"daily_rate_cents"`
		WeeklyRateCents  *int64   `json:"weekly_rate_cents"`
		MonthlyRateCents *int64   `json:"monthly_rate_cents"`
		DepositCents     *int64   `json:"deposit_cents"`
		Photos           []string `json:"photos"`
		Active           *bool    `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title != nil {
		l.Title = *req.Title
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.Category != nil {
		l.Category = *req.Category
	}
	if req.City != nil {
		l.City = *req.City
	}
	if req.DailyRateCents != nil {
		if *req.DailyRateCents <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "daily rate must be positive"})
			return
		}
		l.DailyRateCents = *req.DailyRateCents
	}
	if req.WeeklyRateCents != nil {
		l.WeeklyRateCents = *req.WeeklyRateCents
	}
	if req.MonthlyRateCents != nil {
		l.MonthlyRateCents = *req.MonthlyRateCents
	}
	if req.DepositCents != nil {
		l.DepositCents = *req.DepositCents
	}
	if req.Photos != nil {
		photos, _ := json.Marshal(req.Photos)
		l.Photos = string(photos)
	}
	if req.Active != nil {
		l.Active = *req.Active
	}
	if err := h.listingRepo.Update(l); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *ListingHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.listingRepo.Delete(uint(id), userID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "listing removed"})
}

func (h *ListingHandler) Mine(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	listings, err := h.listingRepo.ListByOwner(ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// Reviews returns the public review feed for a listing.
func (h *ListingHandler) Reviews(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	reviews, err := h.reviewRepo.ListByListing(uint(id), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// Quote prices a prospective booking without creating anything.
func (h *ListingHandler) Quote(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	start, err1 := parseDate(c.Query("start_date"))
	end, err2 := parseDate(c.Query("end_date"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date and end_date required (YYYY-MM-DD)"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date before start_date"})
		return
	}
	l, err := h.listingRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		return
	}
	q := domain.PriceBooking(start, end, l.DailyRateCents, l.WeeklyRateCents, l.MonthlyRateCents, l.DepositCents)
	c.JSON(http.StatusOK, q)
}
