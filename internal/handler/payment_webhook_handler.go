package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"rently/config"
	"rently/internal/domain"
	"rently/internal/repository"
	"rently/internal/service"
	"rently/pkg/payment"

	"github.com/gin-gonic/gin"
)

// PaymentWebhookHandler receives processor events. Signature is verified
// against the shared webhook secret; each event id is processed at most once.
type PaymentWebhookHandler struct {
	cfg          *config.Config
	bookingRepo  *repository.BookingRepository
	paymentRepo  *repository.PaymentRepository
	userRepo     *repository.UserRepository
	identityRepo *repository.IdentityRepository
	auditRepo    *repository.AuditLogRepository
	notifSvc     *service.NotificationService
}

func NewPaymentWebhookHandler(
	cfg *config.Config,
	bookingRepo *repository.BookingRepository,
	paymentRepo *repository.PaymentRepository,
	userRepo *repository.UserRepository,
	identityRepo *repository.IdentityRepository,
	auditRepo *repository.AuditLogRepository,
	notifSvc *service.NotificationService,
) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		cfg:          cfg,
		bookingRepo:  bookingRepo,
		paymentRepo:  paymentRepo,
		userRepo:     userRepo,
		identityRepo: identityRepo,
		auditRepo:    auditRepo,
		notifSvc:     notifSvc,
	}
}

type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

func (h *PaymentWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	sig := c.GetHeader("Stripe-Signature")
	if err := payment.VerifyWebhookSignature(body, sig, h.cfg.Payment.WebhookSecret, h.cfg.Payment.WebhookTolerance, time.Now()); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}
	var ev webhookEvent
	if err := json.Unmarshal(body, &ev); err != nil || ev.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event"})
		return
	}
	seen, err := h.auditRepo.SeenEvent(ev.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event check failed"})
		return
	}
	if seen {
		c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": true})
		return
	}

	switch ev.Type {
	case "payment_intent.amount_capturable_updated":
		h.onAuthorized(ev.Data.Object)
	case "payment_intent.canceled":
		h.onCanceled(ev.Data.Object)
	case "account.updated":
		h.onAccountUpdated(ev.Data.Object)
	case "identity.verification_session.verified":
		h.onIdentity(ev.Data.Object, domain.IdentityVerified)
	case "identity.verification_session.requires_input":
		h.onIdentity(ev.Data.Object, domain.IdentityFailed)
	default:
		log.Printf("[webhook] ignoring event type %s", ev.Type)
	}

	if err := h.auditRepo.RecordEvent(ev.ID, ev.Type); err != nil {
		log.Printf("[webhook] record event %s: %v", ev.ID, err)
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

// onAuthorized: the hold landed, the booking is confirmed and awaits pickup.
func (h *PaymentWebhookHandler) onAuthorized(raw json.RawMessage) {
	var obj struct {
		ID string `json:"id"`
	}
	if json.Unmarshal(raw, &obj) != nil || obj.ID == "" {
		return
	}
	b, err := h.bookingRepo.GetByPaymentIntentID(obj.ID)
	if err != nil {
		log.Printf("[webhook] booking for intent %s not found", obj.ID)
		return
	}
	if !domain.CanTransition(b.Status, domain.BookingConfirmed) {
		return
	}
	b.Status = domain.BookingConfirmed
	if err := h.bookingRepo.Update(b); err != nil {
		log.Printf("[webhook] confirm booking %d: %v", b.ID, err)
		return
	}
	_ = h.notifSvc.NotifyBookingConfirmed(b.RenterID, b.ID, b.Listing.Title)
}

func (h *PaymentWebhookHandler) onCanceled(raw json.RawMessage) {
	var obj struct {
		ID string `json:"id"`
	}
	if json.Unmarshal(raw, &obj) != nil || obj.ID == "" {
		return
	}
	b, err := h.bookingRepo.GetByPaymentIntentID(obj.ID)
	if err != nil {
		return
	}
	if !domain.CanTransition(b.Status, domain.BookingCancelled) {
		return
	}
	now := time.Now()
	b.Status = domain.BookingCancelled
	b.CancelledAt = &now
	if b.PaymentState == domain.PaymentAuthorized {
		b.PaymentState = domain.PaymentVoided
	}
	if err := h.bookingRepo.Update(b); err != nil {
		log.Printf("[webhook] cancel booking %d: %v", b.ID, err)
		return
	}
	_ = h.paymentRepo.UpdateStatusByBookingID(b.ID, b.PaymentState)
	_ = h.notifSvc.NotifyBookingCancelled(b.RenterID, b.ID, b.Listing.Title)
	_ = h.notifSvc.NotifyBookingCancelled(b.OwnerID, b.ID, b.Listing.Title)
}

func (h *PaymentWebhookHandler) onAccountUpdated(raw json.RawMessage) {
	var obj struct {
		ID               string `json:"id"`
		PayoutsEnabled   bool   `json:"payouts_enabled"`
		DetailsSubmitted bool   `json:"details_submitted"`
	}
	if json.Unmarshal(raw, &obj) != nil || obj.ID == "" {
		return
	}
	u, err := h.userRepo.GetByConnectAccountID(obj.ID)
	if err != nil {
		return
	}
	wasEnabled := u.PayoutsEnabled
	u.OnboardingCompleted = obj.DetailsSubmitted
	u.PayoutsEnabled = obj.PayoutsEnabled
	if err := h.userRepo.Update(u); err != nil {
		log.Printf("[webhook] account update for user %d: %v", u.ID, err)
		return
	}
	if obj.PayoutsEnabled && !wasEnabled {
		_ = h.notifSvc.NotifyPayoutsEnabled(u.ID)
	}
}

func (h *PaymentWebhookHandler) onIdentity(raw json.RawMessage, status string) {
	var obj struct {
		ID string `json:"id"`
	}
	if json.Unmarshal(raw, &obj) != nil || obj.ID == "" {
		return
	}
	v, err := h.identityRepo.GetBySessionID(obj.ID)
	if err != nil {
		return
	}
	v.Status = status
	if status == domain.IdentityVerified {
		now := time.Now()
		v.VerifiedAt = &now
	}
	if err := h.identityRepo.Update(v); err != nil {
		log.Printf("[webhook] identity session %s: %v", obj.ID, err)
		return
	}
	if status == domain.IdentityVerified {
		if err := h.userRepo.SetIdentityVerified(v.UserID, true); err != nil {
			log.Printf("[webhook] mark user %d verified: %v", v.UserID, err)
			return
		}
		_ = h.notifSvc.NotifyIdentityVerified(v.UserID)
	}
}
