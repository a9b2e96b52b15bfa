package handler

import (
	"net/http"

	"rently/internal/middleware"
	"rently/internal/models"
	"rently/internal/repository"
	"rently/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminReleaseHandler exposes the payout review screen and the batch release
// action. Routes sit behind AdminRequired.
type AdminReleaseHandler struct {
	releaseSvc *service.ReleaseService
	auditRepo  *repository.AuditLogRepository
}

func NewAdminReleaseHandler(releaseSvc *service.ReleaseService, auditRepo *repository.AuditLogRepository) *AdminReleaseHandler {
	return &AdminReleaseHandler{releaseSvc: releaseSvc, auditRepo: auditRepo}
}

func (h *AdminReleaseHandler) List(c *gin.Context) {
	candidates, err := h.releaseSvc.Candidates()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	eligible := 0
	for _, cand := range candidates {
		if cand.Eligible {
			eligible++
		}
	}
	c.JSON(http.StatusOK, gin.H{"candidates": candidates, "eligible_count": eligible})
}

func (h *AdminReleaseHandler) Release(c *gin.Context) {
	adminID := middleware.GetUserID(c)
	var req struct {
		BookingIDs []uint `json:"booking_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	results := h.releaseSvc.ReleaseBatch(c.Request.Context(), adminID, req.BookingIDs)

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	if h.auditRepo != nil {
		_ = h.auditRepo.Create(&models.AuditLog{
			UserID:   &adminID,
			Action:   "payment_release",
			Resource: "booking",
			IP:       c.ClientIP(),
		})
	}
	status := http.StatusOK
	if failed > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, gin.H{"results": results, "failed": failed})
}
