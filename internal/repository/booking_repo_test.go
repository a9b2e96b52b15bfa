package repository

import (
	"testing"
	"time"

	"rently/internal/database"
	"rently/internal/domain"
	"rently/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedBookingFixture(t *testing.T, db *gorm.DB) *models.Booking {
	t.Helper()
	owner := models.User{Email: "owner@example.com", Name: "Olivia", Role: domain.RoleOwner}
	renter := models.User{Email: "renter@example.com", Name: "Ravi", Role: domain.RoleRenter}
	if err := db.Create(&owner).Error; err != nil {
		t.Fatalf("create owner: %v", err)
	}
	if err := db.Create(&renter).Error; err != nil {
		t.Fatalf("create renter: %v", err)
	}
	listing := models.Listing{OwnerID: owner.ID, Title: "Canon EOS R6", DailyRateCents: 3000, Active: true}
	if err := db.Create(&listing).Error; err != nil {
		t.Fatalf("create listing: %v", err)
	}
	b := models.Booking{
		ListingID:       listing.ID,
		RenterID:        renter.ID,
		OwnerID:         owner.ID,
		StartDate:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		Days:            3,
		SubtotalCents:   9000,
		ServiceFeeCents: 1350,
		TotalCents:      10350,
		Status:          domain.BookingPending,
		PaymentState:    domain.PaymentAuthorized,
		PaymentIntentID: "pi_test_1",
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return &b
}

func TestGetByPaymentIntentID_PreloadsListing(t *testing.T) {
	db := newTestDB(t)
	seedBookingFixture(t, db)
	repo := NewBookingRepository(db)

	got, err := repo.GetByPaymentIntentID("pi_test_1")
	if err != nil {
		t.Fatalf("GetByPaymentIntentID: %v", err)
	}
	// Webhook notifications render the listing title; an empty preload would
	// produce blank message bodies.
	if got.Listing.Title != "Canon EOS R6" {
		t.Errorf("listing title = %q, want %q", got.Listing.Title, "Canon EOS R6")
	}

	if _, err := repo.GetByPaymentIntentID("pi_missing"); err == nil {
		t.Errorf("expected error for unknown intent id")
	}
}

func TestHasOverlap(t *testing.T) {
	db := newTestDB(t)
	b := seedBookingFixture(t, db)
	repo := NewBookingRepository(db)

	overlap, err := repo.HasOverlap(b.ListingID,
		time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("HasOverlap: %v", err)
	}
	if !overlap {
		t.Errorf("expected overlap with existing pending booking")
	}

	overlap, err = repo.HasOverlap(b.ListingID,
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("HasOverlap: %v", err)
	}
	if overlap {
		t.Errorf("expected no overlap for a disjoint window")
	}
}
