package handler

import (
	"net/http"
	"strconv"

	"rently/internal/domain"
	"rently/internal/repository"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	userRepo    *repository.UserRepository
	bookingRepo *repository.BookingRepository
	auditRepo   *repository.AuditLogRepository
}

func NewAdminHandler(userRepo *repository.UserRepository, bookingRepo *repository.BookingRepository, auditRepo *repository.AuditLogRepository) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, bookingRepo: bookingRepo, auditRepo: auditRepo}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	users, total, err := h.userRepo.List(c.Query("search"), c.Query("role"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) ListBookings(c *gin.Context) {
	status := c.DefaultQuery("status", domain.BookingPending)
	bookings, err := h.bookingRepo.ListByStatus(status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *AdminHandler) ListDisputes(c *gin.Context) {
	bookings, err := h.bookingRepo.ListByStatus(domain.BookingDisputed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

func (h *AdminHandler) ListAuditLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	logs, total, err := h.auditRepo.List(c.Query("action"), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "total": total, "page": page, "limit": limit})
}
