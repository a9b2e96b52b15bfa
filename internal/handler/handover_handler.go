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

// HandoverHandler covers the physical lifecycle of a rental: pickup
// verification, return confirmation and owner completion.
type HandoverHandler struct {
	bookingRepo *repository.BookingRepository
	pointsRepo  *repository.PointsRepository
	userRepo    *repository.UserRepository
	paymentRepo *repository.PaymentRepository
	esc         *escrow.Manager
	notifSvc    *service.NotificationService
	releaseSvc  *service.ReleaseService
	pointsBonus int64
}

func NewHandoverHandler(
	bookingRepo *repository.BookingRepository,
	pointsRepo *repository.PointsRepository,
	userRepo *repository.UserRepository,
	paymentRepo *repository.PaymentRepository,
	esc *escrow.Manager,
	notifSvc *service.NotificationService,
	releaseSvc *service.ReleaseService,
	pointsBonus int64,
) *HandoverHandler {
	return &HandoverHandler{
		bookingRepo: bookingRepo,
		pointsRepo:  pointsRepo,
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		esc:         esc,
		notifSvc:    notifSvc,
		releaseSvc:  releaseSvc,
		pointsBonus: pointsBonus,
	}
}

type handoverRequest struct {
	Photos       []string `json:"photos" binding:"required"`
	DamageReport string   `json:"damage_report"`
}

// Pickup records one party's pickup confirmation with photo evidence. When
// both parties have confirmed, the hold is captured and the rental starts.
func (h *HandoverHandler) Pickup(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req handoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Photos) < domain.MinHandoverPhotos || len(req.Photos) > domain.MaxHandoverPhotos {
		c.JSON(http.StatusBadRequest, gin.H{"error": "between 3 and 8 photos required"})
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
	if !domain.CanTransition(b.Status, domain.BookingInProgress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking is not awaiting pickup"})
		return
	}
	now := time.Now()
	if now.Before(b.StartDate) || now.After(b.EndDate.Add(24*time.Hour)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "outside the rental window"})
		return
	}
	if userID == b.RenterID {
		b.PickupConfirmedByRenter = true
	} else {
		b.PickupConfirmedByOwner = true
	}
	b.PickupPhotos = mergePhotos(b.PickupPhotos, req.Photos)

	started := false
	if b.PickupConfirmedByRenter && b.PickupConfirmedByOwner {
		if b.PaymentState == domain.PaymentAuthorized {
			if err := h.esc.Capture(c.Request.Context(), b); err != nil {
				log.Printf("[handover] capture failed for booking %d: %v", b.ID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "payment capture failed"})
				return
			}
			_ = h.paymentRepo.UpdateStatusByBookingID(b.ID, domain.PaymentCaptured)
		}
		b.Status = domain.BookingInProgress
		b.PickupConfirmedAt = &now
		started = true
	}
	if err := h.bookingRepo.Update(b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}

	by, _ := h.userRepo.GetByID(userID)
	byName := ""
	if by != nil {
		byName = by.Name
	}
	other := b.OwnerID
	if userID == b.OwnerID {
		other = b.RenterID
	}
	_ = h.notifSvc.NotifyPickupConfirmed(other, b.ID, byName)
	if started {
		_ = h.notifSvc.NotifyRentalStarted(b.RenterID, b.ID, b.Listing.Title)
		_ = h.notifSvc.NotifyRentalStarted(b.OwnerID, b.ID, b.Listing.Title)
	}
	c.JSON(http.StatusOK, b)
}

// Return records one party's return confirmation. The owner confirming the
// return also counts as confirming receipt of the item. When both parties have
// confirmed, the booking completes.
func (h *HandoverHandler) Return(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req handoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Photos) < domain.MinHandoverPhotos || len(req.Photos) > domain.MaxHandoverPhotos {
		c.JSON(http.StatusBadRequest, gin.H{"error": "between 3 and 8 photos required"})
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
	if !domain.CanTransition(b.Status, domain.BookingCompleted) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking is not in progress"})
		return
	}
	if b.PickupConfirmedAt == nil || time.Now().Before(*b.PickupConfirmedAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pickup has not happened yet"})
		return
	}
	now := time.Now()
	if userID == b.RenterID {
		b.ReturnConfirmedByRenter = true
	} else {
		b.ReturnConfirmedByOwner = true
		b.OwnerReceiptConfirmedAt = &now
	}
	b.ReturnPhotos = mergePhotos(b.ReturnPhotos, req.Photos)
	if req.DamageReport != "" {
		b.DamageReport = req.DamageReport
	}

	completed := false
	if b.ReturnConfirmedByRenter && b.ReturnConfirmedByOwner {
		b.ReturnConfirmedAt = &now
		h.completeBooking(b, now)
		completed = true
	} else if domain.CanTransition(b.Status, domain.BookingReturnPending) {
		b.Status = domain.BookingReturnPending
	}
	if err := h.bookingRepo.Update(b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if completed {
		h.afterCompletion(b)
	}
	_ = h.notifSvc.NotifyReturnConfirmed(b.RenterID, b.ID, b.Listing.Title)
	_ = h.notifSvc.NotifyReturnConfirmed(b.OwnerID, b.ID, b.Listing.Title)
	c.JSON(http.StatusOK, b)
}

// Complete lets the owner close out a rental directly, for renters who never
// confirm the return in the app. Optional auto_release triggers the payout
// flow; its failure does not undo completion.
func (h *HandoverHandler) Complete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		AutoRelease bool `json:"auto_release"`
	}
	_ = c.ShouldBindJSON(&req)

	b, err := h.bookingRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	if b.OwnerID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the owner can complete a booking"})
		return
	}
	if !domain.CanTransition(b.Status, domain.BookingCompleted) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking cannot be completed from its current state"})
		return
	}
	now := time.Now()
	b.OwnerReceiptConfirmedAt = &now
	h.completeBooking(b, now)
	if err := h.bookingRepo.Update(b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.afterCompletion(b)

	var release *service.ReleaseResult
	if req.AutoRelease && h.releaseSvc != nil {
		results := h.releaseSvc.ReleaseBatch(c.Request.Context(), userID, []uint{b.ID})
		if len(results) == 1 {
			release = &results[0]
			if release.Error != "" {
				log.Printf("[handover] auto release failed for booking %d: %s", b.ID, release.Error)
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"booking": b, "release": release})
}

func (h *HandoverHandler) completeBooking(b *models.Booking, now time.Time) {
	b.Status = domain.BookingCompleted
	b.CompletedAt = &now
}

// afterCompletion runs the post-completion side effects: first-booking points
// for the renter and notifications. Failures are logged, never surfaced.
func (h *HandoverHandler) afterCompletion(b *models.Booking) {
	count, err := h.bookingRepo.CompletedCountForRenter(b.RenterID)
	if err != nil {
		log.Printf("[handover] completed count for renter %d: %v", b.RenterID, err)
		return
	}
	if count != 1 {
		return
	}
	has, err := h.pointsRepo.HasReason(b.RenterID, domain.PointsReasonFirstBooking)
	if err != nil || has {
		return
	}
	if err := h.pointsRepo.Award(b.RenterID, h.pointsBonus, domain.PointsReasonFirstBooking, &b.ID); err != nil {
		log.Printf("[handover] first booking points for renter %d: %v", b.RenterID, err)
		return
	}
	_ = h.notifSvc.NotifyPointsAwarded(b.RenterID, h.pointsBonus)
}

// mergePhotos appends new photo URLs onto an existing JSON array column.
func mergePhotos(existing string, urls []string) string {
	var all []string
	if existing != "" {
		_ = json.Unmarshal([]byte(existing), &all)
	}
	all = append(all, urls...)
	data, _ := json.Marshal(all)
	return string(data)
}
