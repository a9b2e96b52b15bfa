package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"rently/internal/domain"
	"rently/internal/escrow"
	"rently/internal/models"
	"rently/pkg/payment"
)

type mockBookingStore struct {
	bookings map[uint]*models.Booking
}

func (m *mockBookingStore) ListUnreleased() ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if b.Status == domain.BookingCompleted && !b.Released() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockBookingStore) WithLock(id uint, fn func(b *models.Booking) error) error {
	b, ok := m.bookings[id]
	if !ok {
		return errors.New("booking not found")
	}
	return fn(b)
}

type mockPayoutStore struct {
	created []*models.Payout
}

func (m *mockPayoutStore) Create(p *models.Payout) error {
	m.created = append(m.created, p)
	return nil
}

type mockPaymentStore struct {
	statuses map[uint]string
}

func (m *mockPaymentStore) UpdateStatusByBookingID(bookingID uint, status string) error {
	if m.statuses == nil {
		m.statuses = make(map[uint]string)
	}
	m.statuses[bookingID] = status
	return nil
}

type mockUserStore struct {
	users map[uint]*models.User
}

func (m *mockUserStore) GetByID(id uint) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return u, nil
}

type mockNotifier struct {
	released []uint
}

func (m *mockNotifier) NotifyPaymentReleased(ownerID, bookingID uint, amountCents int64) error {
	m.released = append(m.released, bookingID)
	return nil
}

func receiptConfirmed() *time.Time {
	t := time.Now().Add(-time.Hour)
	return &t
}

func completedBooking(id, ownerID uint) *models.Booking {
	return &models.Booking{
		ID:                      id,
		OwnerID:                 ownerID,
		Status:                  domain.BookingCompleted,
		PaymentState:            domain.PaymentCaptured,
		OwnerPayoutCents:        4800,
		CommissionCents:         1200,
		OwnerReceiptConfirmedAt: receiptConfirmed(),
	}
}

func onboardedOwner(id uint) *models.User {
	return &models.User{
		ID:                  id,
		ConnectAccountID:    "acct_owner",
		OnboardingCompleted: true,
		PayoutsEnabled:      true,
	}
}

func newTestService(bookings *mockBookingStore, users *mockUserStore, stub *payment.StubProvider, testMode bool) (*ReleaseService, *mockPayoutStore, *mockPaymentStore, *mockNotifier) {
	payouts := &mockPayoutStore{}
	payments := &mockPaymentStore{}
	notifier := &mockNotifier{}
	esc := escrow.NewManager(stub, "usd")
	svc := NewReleaseService(bookings, payouts, payments, users, esc, notifier, testMode)
	return svc, payouts, payments, notifier
}

func TestReleaseBatch_HappyPath(t *testing.T) {
	b := completedBooking(1, 10)
	bookings := &mockBookingStore{bookings: map[uint]*models.Booking{1: b}}
	users := &mockUserStore{users: map[uint]*models.User{10: onboardedOwner(10)}}
	svc, payouts, payments, notifier := newTestService(bookings, users, payment.NewStubProvider(), false)

	results := svc.ReleaseBatch(context.Background(), 99, []uint{1})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Error != "" || r.Skipped {
		t.Fatalf("unexpected result %+v", r)
	}
	if r.TransferID == "" || r.Simulated {
		t.Errorf("expected real transfer id, got %+v", r)
	}
	if b.AdminReleasedAt == nil {
		t.Errorf("admin_released_at not stamped")
	}
	if b.PaymentState != domain.PaymentReleased {
		t.Errorf("state = %s, want RELEASED", b.PaymentState)
	}
	if len(payouts.created) != 1 {
		t.Fatalf("expected 1 payout row, got %d", len(payouts.created))
	}
	p := payouts.created[0]
	if p.BookingID != 1 || p.OwnerID != 10 || p.AmountCents != 4800 || p.Simulated || p.ReleasedBy != 99 {
		t.Errorf("unexpected payout %+v", p)
	}
	if payments.statuses[1] != domain.PaymentReleased {
		t.Errorf("payment row status = %s", payments.statuses[1])
	}
	if len(notifier.released) != 1 || notifier.released[0] != 1 {
		t.Errorf("owner not notified: %v", notifier.released)
	}
}

func TestReleaseBatch_AlreadyReleasedSkips(t *testing.T) {
	b := completedBooking(1, 10)
	b.TransferID = "tr_done"
	bookings := &mockBookingStore{bookings: map[uint]*models.Booking{1: b}}
	users := &mockUserStore{users: map[uint]*models.User{10: onboardedOwner(10)}}
	svc, payouts, _, _ := newTestService(bookings, users, payment.NewStubProvider(), false)

	results := svc.ReleaseBatch(context.Background(), 99, []uint{1})
	r := results[0]
	if !r.Skipped || r.Message != "Already released" {
		t.Fatalf("expected skip, got %+v", r)
	}
	if r.Error != "" {
		t.Errorf("skip must not count as failure: %s", r.Error)
	}
	if len(payouts.created) != 0 {
		t.Errorf("no payout row expected, got %d", len(payouts.created))
	}
}

func TestReleaseBatch_NotCompletedFails(t *testing.T) {
	b := completedBooking(1, 10)
	b.Status = domain.BookingInProgress
	bookings := &mockBookingStore{bookings: map[uint]*models.Booking{1: b}}
	users := &mockUserStore{users: map[uint]*models.User{10: onboardedOwner(10)}}
	svc, _, _, _ := newTestService(bookings, users, payment.NewStubProvider(), false)

	r := svc.ReleaseBatch(context.Background(), 99, []uint{1})[0]
	if r.Error == "" {
		t.Fatalf("expected error for in-progress booking, got %+v", r)
	}
	if b.AdminReleasedAt != nil {
		t.Errorf("failed release must not stamp admin_released_at")
	}
}

func TestReleaseBatch_OwnerNotOnboardedFails(t *testing.T) {
	b := completedBooking(1, 10)
	bookings := &mockBookingStore{bookings: map[uint]*models.Booking{1: b}}
	users := &mockUserStore{users: map[uint]*models.User{10: {ID: 10}}}
	svc, _, _, _ := newTestService(bookings, users, payment.NewStubProvider(), false)

	r := svc.ReleaseBatch(context.Background(), 99, []uint{1})[0]
	if r.Error == "" {
		t.Fatalf("expected error for unonboarded owner, got %+v", r)
	}
}

func TestReleaseBatch_TestModeSimulatesOnEmptyBalance(t *testing.T) {
	b := completedBooking(1, 10)
	bookings := &mockBookingStore{bookings: map[uint]*models.Booking{1: b}}
	users := &mockUserStore{users: map[uint]*models.User{10: onboardedOwner(10)}}
	stub := payment.NewStubProvider()
	stub.FailTransfers = true
	svc, payouts, _, _ := newTestService(bookings, users, stub, true)

	r := svc.ReleaseBatch(context.Background(), 99, []uint{1})[0]
	if r.Error != "" {
		t.Fatalf("expected simulated success, got error %s", r.Error)
	}
	if !r.Simulated {
		t.Fatalf("expected simulated result, got %+v", r)
	}
	if !strings.HasPrefix(r.TransferID, "tr_sim_") {
		t.Errorf("transfer id = %s, want tr_sim_ prefix", r.TransferID)
	}
	if len(payouts.created) != 1 || !payouts.created[0].Simulated {
		t.Errorf("payout row must be flagged simulated")
	}
	if b.PaymentState != domain.PaymentReleased {
		t.Errorf("state = %s, want RELEASED", b.PaymentState)
	}
}

func TestReleaseBatch_ProductionPropagatesEmptyBalance(t *testing.T) {
	b := completedBooking(1, 10)
	bookings := &mockBookingStore{bookings: map[uint]*models.Booking{1: b}}
	users := &mockUserStore{users: map[uint]*models.User{10: onboardedOwner(10)}}
	stub := payment.NewStubProvider()
	stub.FailTransfers = true
	svc, payouts, _, _ := newTestService(bookings, users, stub, false)

	r := svc.ReleaseBatch(context.Background(), 99, []uint{1})[0]
	if r.Error == "" || r.Simulated {
		t.Fatalf("expected propagated failure outside test mode, got %+v", r)
	}
	if b.Released() {
		t.Errorf("booking must not be marked released")
	}
	if len(payouts.created) != 0 {
		t.Errorf("no payout row on failure")
	}
}

func TestReleaseBatch_ProcessesIDsIndependently(t *testing.T) {
	good := completedBooking(1, 10)
	bad := completedBooking(2, 10)
	bad.Status = domain.BookingInProgress
	done := completedBooking(3, 10)
	done.TransferID = "tr_prev"
	bookings := &mockBookingStore{bookings: map[uint]*models.Booking{1: good, 2: bad, 3: done}}
	users := &mockUserStore{users: map[uint]*models.User{10: onboardedOwner(10)}}
	svc, _, _, _ := newTestService(bookings, users, payment.NewStubProvider(), false)

	results := svc.ReleaseBatch(context.Background(), 99, []uint{1, 2, 3})
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Error != "" {
		t.Errorf("booking 1 should succeed: %s", results[0].Error)
	}
	if results[1].Error == "" {
		t.Errorf("booking 2 should fail")
	}
	if !results[2].Skipped {
		t.Errorf("booking 3 should be skipped")
	}
	if !good.Released() {
		t.Errorf("failure of one id must not block another")
	}
}

func TestCandidates_EligibilityAnnotations(t *testing.T) {
	ready := completedBooking(1, 10)
	ready.Owner = *onboardedOwner(10)
	noReceipt := completedBooking(2, 10)
	noReceipt.Owner = *onboardedOwner(10)
	noReceipt.OwnerReceiptConfirmedAt = nil
	noAccount := completedBooking(3, 11)
	noAccount.Owner = models.User{ID: 11}
	bookings := &mockBookingStore{bookings: map[uint]*models.Booking{1: ready, 2: noReceipt, 3: noAccount}}
	users := &mockUserStore{users: map[uint]*models.User{10: onboardedOwner(10), 11: {ID: 11}}}
	svc, _, _, _ := newTestService(bookings, users, payment.NewStubProvider(), false)

	candidates, err := svc.Candidates()
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	byID := make(map[uint]ReleaseCandidate)
	for _, c := range candidates {
		byID[c.Booking.ID] = c
	}
	if !byID[1].Eligible {
		t.Errorf("booking 1 should be eligible: %s", byID[1].Reason)
	}
	if byID[1].OwnerPayoutCents != 4800 || byID[1].CommissionCents != 1200 {
		t.Errorf("split = %d/%d, want 4800/1200", byID[1].OwnerPayoutCents, byID[1].CommissionCents)
	}
	if byID[2].Eligible {
		t.Errorf("booking 2 lacks receipt confirmation, must be ineligible")
	}
	if byID[3].Eligible {
		t.Errorf("booking 3 owner has no payout account, must be ineligible")
	}
}
