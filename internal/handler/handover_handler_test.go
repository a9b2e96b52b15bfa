package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rently/internal/database"
	"rently/internal/domain"
	"rently/internal/escrow"
	"rently/internal/models"
	"rently/internal/repository"
	"rently/internal/service"
	"rently/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type lifecycleEnv struct {
	db       *gorm.DB
	bookings *repository.BookingRepository
	owner    models.User
	renter   models.User
	booking  models.Booking
}

func newLifecycleEnv(t *testing.T, status string) *lifecycleEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	env := &lifecycleEnv{db: db, bookings: repository.NewBookingRepository(db)}
	env.owner = models.User{Email: "owner@example.com", Name: "Olivia", Role: domain.RoleOwner}
	env.renter = models.User{Email: "renter@example.com", Name: "Ravi", Role: domain.RoleRenter}
	if err := db.Create(&env.owner).Error; err != nil {
		t.Fatalf("create owner: %v", err)
	}
	if err := db.Create(&env.renter).Error; err != nil {
		t.Fatalf("create renter: %v", err)
	}
	listing := models.Listing{OwnerID: env.owner.ID, Title: "Canon EOS R6", DailyRateCents: 3000, Active: true}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("create listing: %v", err)
	}
	pickupAt := time.Now().Add(-48 * time.Hour)
	env.booking = models.Booking{
		ListingID:       listing.ID,
		RenterID:        env.renter.ID,
		OwnerID:         env.owner.ID,
		StartDate:       time.Now().Add(-72 * time.Hour),
		EndDate:         time.Now().Add(72 * time.Hour),
		Days:            6,
		SubtotalCents:   18000,
		ServiceFeeCents: 2700,
		TotalCents:      20700,
		Status:          status,
		PaymentState:    domain.PaymentCaptured,
		PaymentIntentID: "pi_lifecycle",
	}
	if status == domain.BookingInProgress || status == domain.BookingReturnPending {
		env.booking.PickupConfirmedByRenter = true
		env.booking.PickupConfirmedByOwner = true
		env.booking.PickupConfirmedAt = &pickupAt
	}
	if err := db.Create(&env.booking).Error; err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return env
}

// router exposes the lifecycle endpoints with every request authenticated as
// the given user.
func (e *lifecycleEnv) router(userID uint) *gin.Engine {
	userRepo := repository.NewUserRepository(e.db)
	paymentRepo := repository.NewPaymentRepository(e.db)
	pointsRepo := repository.NewPointsRepository(e.db)
	convRepo := repository.NewConversationRepository(e.db)
	listingRepo := repository.NewListingRepository(e.db)
	notifRepo := repository.NewNotificationRepository(e.db)
	notifSvc := service.NewNotificationService(notifRepo, userRepo, nil, nil)
	esc := escrow.NewManager(payment.NewStubProvider(), "usd")

	handover := NewHandoverHandler(e.bookings, pointsRepo, userRepo, paymentRepo, esc, notifSvc, nil, 500)
	bookings := NewBookingHandler(e.bookings, listingRepo, userRepo, paymentRepo, convRepo, esc, notifSvc)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", userID) })
	r.POST("/bookings/:id/pickup", handover.Pickup)
	r.POST("/bookings/:id/return", handover.Return)
	r.POST("/bookings/:id/complete", handover.Complete)
	r.POST("/bookings/:id/cancel", bookings.Cancel)
	return r
}

func handoverBody(t *testing.T) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"photos": []string{"https://img/1.jpg", "https://img/2.jpg", "https://img/3.jpg"},
	})
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(body)
}

func TestPickup_RejectedOutsideAllowedStatus(t *testing.T) {
	for _, status := range []string{domain.BookingPending, domain.BookingInProgress, domain.BookingCompleted, domain.BookingCancelled} {
		t.Run(status, func(t *testing.T) {
			env := newLifecycleEnv(t, status)
			r := env.router(env.renter.ID)

			req := httptest.NewRequest(http.MethodPost, "/bookings/1/pickup", handoverBody(t))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			b, _ := env.bookings.GetByID(env.booking.ID)
			if b.Status != status {
				t.Errorf("booking status = %s, want unchanged %s", b.Status, status)
			}
		})
	}
}

func TestReturn_OwnerMovesBookingToReturnPending(t *testing.T) {
	env := newLifecycleEnv(t, domain.BookingInProgress)
	r := env.router(env.owner.ID)

	req := httptest.NewRequest(http.MethodPost, "/bookings/1/return", handoverBody(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	b, err := env.bookings.GetByID(env.booking.ID)
	if err != nil {
		t.Fatalf("reload booking: %v", err)
	}
	if b.Status != domain.BookingReturnPending {
		t.Errorf("booking status = %s, want %s", b.Status, domain.BookingReturnPending)
	}
	if b.OwnerReceiptConfirmedAt == nil {
		t.Errorf("owner receipt confirmation not stamped")
	}
}

func TestComplete_RejectedBeforeRentalStarts(t *testing.T) {
	env := newLifecycleEnv(t, domain.BookingConfirmed)
	r := env.router(env.owner.ID)

	req := httptest.NewRequest(http.MethodPost, "/bookings/1/complete", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	b, _ := env.bookings.GetByID(env.booking.ID)
	if b.Status != domain.BookingConfirmed {
		t.Errorf("booking status = %s, want unchanged CONFIRMED", b.Status)
	}
}

func TestCancel_RejectedOnceRentalRunning(t *testing.T) {
	for _, status := range []string{domain.BookingInProgress, domain.BookingReturnPending, domain.BookingCompleted} {
		t.Run(status, func(t *testing.T) {
			env := newLifecycleEnv(t, status)
			r := env.router(env.renter.ID)

			req := httptest.NewRequest(http.MethodPost, "/bookings/1/cancel", bytes.NewReader([]byte(`{}`)))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			b, _ := env.bookings.GetByID(env.booking.ID)
			if b.Status != status {
				t.Errorf("booking status = %s, want unchanged %s", b.Status, status)
			}
		})
	}
}
