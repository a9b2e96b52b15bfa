package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"rently/internal/domain"
	"rently/internal/escrow"
	"rently/internal/middleware"
	"rently/internal/models"
	"rently/internal/repository"
	"rently/internal/service"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingRepo *repository.BookingRepository
	listingRepo *repository.ListingRepository
	userRepo    *repository.UserRepository
	paymentRepo *repository.PaymentRepository
	convRepo    *repository.ConversationRepository
	esc         *escrow.Manager
	notifSvc    *service.NotificationService
}

func NewBookingHandler(
	bookingRepo *repository.BookingRepository,
	listingRepo *repository.ListingRepository,
	userRepo *repository.UserRepository,
	paymentRepo *repository.PaymentRepository,
	convRepo *repository.ConversationRepository,
	esc *escrow.Manager,
	notifSvc *service.NotificationService,
) *BookingHandler {
	return &BookingHandler{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		convRepo:    convRepo,
		esc:         esc,
		notifSvc:    notifSvc,
	}
}

type CreateBookingRequest struct {
	ListingID      uint   `json:"listing_id" binding:"required"`
	StartDate      string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate        string `json:"end_date" binding:"required"`
	DeliveryMethod string `json:"delivery_method" binding:"omitempty,oneof=PICKUP DELIVERY"`
}

// Create prices the rental, writes the booking row and places an authorization
// hold for the full amount. The hold is not captured until pickup.
func (h *BookingHandler) Create(c *gin.Context) {
	renterID := middleware.GetUserID(c)
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err1 := parseDate(req.StartDate)
	end, err2 := parseDate(req.EndDate)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end_date before start_date"})
		return
	}
	if start.Before(time.Now().Truncate(24 * time.Hour)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date in the past"})
		return
	}
	renter, err := h.userRepo.GetByID(renterID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	if !renter.IdentityVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "identity verification required before booking"})
		return
	}
	listing, err := h.listingRepo.GetByID(req.ListingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
		return
	}
	if !listing.Active {
		c.JSON(http.StatusBadRequest, gin.H{"error": "listing not available"})
		return
	}
	if listing.OwnerID == renterID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot book your own listing"})
		return
	}
	owner, err := h.userRepo.GetByID(listing.OwnerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "owner not found"})
		return
	}
	if !owner.CanReceivePayouts() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner payout account not configured"})
		return
	}
	overlap, err := h.bookingRepo.HasOverlap(listing.ID, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "availability check failed"})
		return
	}
	if overlap {
		c.JSON(http.StatusConflict, gin.H{"error": "listing already booked for those dates"})
		return
	}

	q := domain.PriceBooking(start, end, listing.DailyRateCents, listing.WeeklyRateCents, listing.MonthlyRateCents, listing.DepositCents)
	delivery := req.DeliveryMethod
	if delivery == "" {
		delivery = domain.DeliveryPickup
	}
	b := &models.Booking{
		ListingID:        listing.ID,
		RenterID:         renterID,
		OwnerID:          listing.OwnerID,
		StartDate:        start,
		EndDate:          end,
		DeliveryMethod:   delivery,
		Days:             q.Days,
		SubtotalCents:    q.Subtotal,
		ServiceFeeCents:  q.ServiceFee,
		CommissionCents:  q.Commission,
		OwnerPayoutCents: q.OwnerPayout,
		DepositCents:     q.Deposit,
		TotalCents:       q.Total,
		Status:           domain.BookingPending,
	}
	if err := h.bookingRepo.Create(b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}

	intent, err := h.esc.Authorize(c.Request.Context(), b, renter.CustomerID, owner.ConnectAccountID)
	if err != nil {
		// Compensating delete, the row never left this request.
		log.Printf("[booking] authorize failed for booking %d: %v", b.ID, err)
		_ = h.bookingRepo.Delete(b.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment authorization failed"})
		return
	}
	if err := h.bookingRepo.Update(b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	breakdown, _ := json.Marshal(q)
	_ = h.paymentRepo.Create(&models.Payment{
		BookingID:   b.ID,
		UserID:      renterID,
		AmountCents: q.Total,
		Currency:    "USD",
		Provider:    "stripe",
		ProviderRef: intent.ID,
		Status:      domain.PaymentAuthorized,
		Breakdown:   string(breakdown),
	})
	// Open the chat thread between the parties and pin this booking to it.
	if conv, err := h.convRepo.GetOrCreate(listing.ID, renterID, listing.OwnerID); err == nil {
		_ = h.convRepo.AttachBooking(conv.ID, b.ID)
	}
	_ = h.notifSvc.NotifyBookingRequested(listing.OwnerID, b.ID, renter.Name, listing.Title)
	c.JSON(http.StatusCreated, gin.H{"booking": b, "client_secret": intent.ClientSecret})
}

func (h *BookingHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var (
		bookings []models.Booking
		err      error
	)
	if c.DefaultQuery("as", "renter") == "owner" {
		bookings, err = h.bookingRepo.ListByOwner(userID)
	} else {
		bookings, err = h.bookingRepo.ListByRenter(userID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *BookingHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	b, err := h.bookingRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if !b.Party(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your booking"})
		return
	}
	resp := gin.H{"booking": b}
	if p, err := h.paymentRepo.GetByBookingID(b.ID); err == nil {
		resp["payment"] = p
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel voids or refunds the hold depending on how far the money got, then
// marks the booking cancelled.
func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	b, err := h.bookingRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if !b.Party(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your booking"})
		return
	}
	if !domain.CanTransition(b.Status, domain.BookingCancelled) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking can no longer be cancelled"})
		return
	}
	ctx := c.Request.Context()
	switch b.PaymentState {
	case domain.PaymentAuthorized:
		if err := h.esc.Void(ctx, b); err != nil {
			log.Printf("[booking] void failed for booking %d: %v", b.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cancellation failed"})
			return
		}
	case domain.PaymentCaptured:
		if err := h.esc.Refund(ctx, b); err != nil {
			log.Printf("[booking] refund failed for booking %d: %v", b.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "refund failed"})
			return
		}
	}
	now := time.Now()
	b.Status = domain.BookingCancelled
	b.CancelledAt = &now
	if err := h.bookingRepo.Update(b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cancellation failed"})
		return
	}
	_ = h.paymentRepo.UpdateStatusByBookingID(b.ID, b.PaymentState)
	// Tell the other party.
	other := b.OwnerID
	if userID == b.OwnerID {
		other = b.RenterID
	}
	_ = h.notifSvc.NotifyBookingCancelled(other, b.ID, b.Listing.Title)
	c.JSON(http.StatusOK, b)
}
