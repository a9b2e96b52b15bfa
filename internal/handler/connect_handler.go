package handler

import (
	"log"
	"net/http"

	"rently/config"
	"rently/internal/domain"
	"rently/internal/middleware"
	"rently/internal/models"
	"rently/internal/repository"
	"rently/pkg/payment"

	"github.com/gin-gonic/gin"
)

// ConnectHandler manages the owner payout onboarding and renter identity
// verification sessions at the payment processor.
type ConnectHandler struct {
	cfg          *config.Config
	provider     payment.Provider
	userRepo     *repository.UserRepository
	identityRepo *repository.IdentityRepository
}

func NewConnectHandler(cfg *config.Config, provider payment.Provider, userRepo *repository.UserRepository, identityRepo *repository.IdentityRepository) *ConnectHandler {
	return &ConnectHandler{cfg: cfg, provider: provider, userRepo: userRepo, identityRepo: identityRepo}
}

// StartOnboarding creates the Connect account if missing and returns a hosted
// onboarding link. payouts_enabled flips later via the account.updated webhook.
func (h *ConnectHandler) StartOnboarding(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	ctx := c.Request.Context()
	if u.ConnectAccountID == "" {
		acct, err := h.provider.CreateAccount(ctx, u.Email)
		if err != nil {
			log.Printf("[connect] account create failed for user %d: %v", userID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "account creation failed"})
			return
		}
		u.ConnectAccountID = acct.ID
		if err := h.userRepo.Update(u); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})
			return
		}
	}
	link, err := h.provider.CreateAccountLink(ctx, u.ConnectAccountID,
		h.cfg.Payment.OnboardingReturnURL, h.cfg.Payment.OnboardingRefreshURL)
	if err != nil {
		log.Printf("[connect] account link failed for user %d: %v", userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "onboarding link failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"onboarding_url": link})
}

// Status re-fetches the Connect account and syncs the local flags; lets the
// client poll after returning from the hosted onboarding flow.
func (h *ConnectHandler) Status(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if u.ConnectAccountID == "" {
		c.JSON(http.StatusOK, gin.H{"onboarding_completed": false, "payouts_enabled": false})
		return
	}
	acct, err := h.provider.GetAccount(c.Request.Context(), u.ConnectAccountID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "account lookup failed"})
		return
	}
	if acct.DetailsSubmitted != u.OnboardingCompleted || acct.PayoutsEnabled != u.PayoutsEnabled {
		u.OnboardingCompleted = acct.DetailsSubmitted
		u.PayoutsEnabled = acct.PayoutsEnabled
		_ = h.userRepo.Update(u)
	}
	c.JSON(http.StatusOK, gin.H{
		"onboarding_completed": u.OnboardingCompleted,
		"payouts_enabled":      u.PayoutsEnabled,
	})
}

// StartIdentity opens a hosted identity verification session for the caller.
// The webhook marks the user verified when the session completes.
func (h *ConnectHandler) StartIdentity(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if u.IdentityVerified {
		c.JSON(http.StatusOK, gin.H{"verified": true})
		return
	}
	if prev, err := h.identityRepo.LatestForUser(userID); err == nil && prev.Status == domain.IdentityPending && prev.SessionURL != "" {
		c.JSON(http.StatusOK, gin.H{"session_url": prev.SessionURL, "session_id": prev.SessionID})
		return
	}
	sess, err := h.provider.CreateIdentitySession(c.Request.Context(), u.Email)
	if err != nil {
		log.Printf("[connect] identity session failed for user %d: %v", userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "identity session failed"})
		return
	}
	_ = h.identityRepo.Create(&models.IdentityVerification{
		UserID:     userID,
		SessionID:  sess.ID,
		SessionURL: sess.URL,
		Status:     domain.IdentityPending,
	})
	c.JSON(http.StatusOK, gin.H{"session_url": sess.URL, "session_id": sess.ID})
}
