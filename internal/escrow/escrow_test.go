package escrow

import (
	"context"
	"errors"
	"testing"

	"rently/internal/domain"
	"rently/internal/models"
	"rently/pkg/payment"
)

func newBooking() *models.Booking {
	return &models.Booking{
		ID:               42,
		TotalCents:       6900,
		SubtotalCents:    6000,
		ServiceFeeCents:  900,
		CommissionCents:  1200,
		OwnerPayoutCents: 4800,
	}
}

func TestAuthorize_SetsIntentAndState(t *testing.T) {
	m := NewManager(payment.NewStubProvider(), "usd")
	b := newBooking()
	intent, err := m.Authorize(context.Background(), b, "cus_1", "acct_owner")
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	if b.PaymentIntentID != intent.ID {
		t.Errorf("intent id not stamped on booking")
	}
	if b.PaymentState != domain.PaymentAuthorized {
		t.Errorf("state = %s, want AUTHORIZED", b.PaymentState)
	}
	if intent.AmountCents != 6900 {
		t.Errorf("amount = %d, want 6900", intent.AmountCents)
	}
}

func TestAuthorize_RequiresDestination(t *testing.T) {
	m := NewManager(payment.NewStubProvider(), "usd")
	if _, err := m.Authorize(context.Background(), newBooking(), "cus_1", ""); err != ErrOwnerNotOnboard {
		t.Fatalf("err = %v, want ErrOwnerNotOnboard", err)
	}
}

func TestAuthorize_RejectsDoubleAuthorize(t *testing.T) {
	m := NewManager(payment.NewStubProvider(), "usd")
	b := newBooking()
	if _, err := m.Authorize(context.Background(), b, "", "acct_owner"); err != nil {
		t.Fatalf("first authorize: %v", err)
	}
	if _, err := m.Authorize(context.Background(), b, "", "acct_owner"); !errors.Is(err, ErrWrongState) {
		t.Fatalf("second authorize err = %v, want ErrWrongState", err)
	}
}

func TestCapture_Lifecycle(t *testing.T) {
	m := NewManager(payment.NewStubProvider(), "usd")
	b := newBooking()
	ctx := context.Background()

	// Cannot capture before authorize.
	if err := m.Capture(ctx, b); !errors.Is(err, ErrWrongState) {
		t.Fatalf("capture before authorize err = %v, want ErrWrongState", err)
	}
	if _, err := m.Authorize(ctx, b, "", "acct_owner"); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if err := m.Capture(ctx, b); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if b.PaymentState != domain.PaymentCaptured {
		t.Errorf("state = %s, want CAPTURED", b.PaymentState)
	}
	// Second capture is rejected at the state guard.
	if err := m.Capture(ctx, b); !errors.Is(err, ErrWrongState) {
		t.Fatalf("double capture err = %v, want ErrWrongState", err)
	}
}

func TestVoid_OnlyFromAuthorized(t *testing.T) {
	m := NewManager(payment.NewStubProvider(), "usd")
	b := newBooking()
	ctx := context.Background()
	if _, err := m.Authorize(ctx, b, "", "acct_owner"); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if err := m.Void(ctx, b); err != nil {
		t.Fatalf("void: %v", err)
	}
	if b.PaymentState != domain.PaymentVoided {
		t.Errorf("state = %s, want VOIDED", b.PaymentState)
	}
	// Voiding again fails: the hold is gone.
	if err := m.Void(ctx, b); !errors.Is(err, ErrWrongState) {
		t.Fatalf("double void err = %v, want ErrWrongState", err)
	}
}

func TestRefund_OnlyFromCaptured(t *testing.T) {
	m := NewManager(payment.NewStubProvider(), "usd")
	b := newBooking()
	ctx := context.Background()
	if err := m.Refund(ctx, b); !errors.Is(err, ErrWrongState) {
		t.Fatalf("refund before capture err = %v, want ErrWrongState", err)
	}
	if _, err := m.Authorize(ctx, b, "", "acct_owner"); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if err := m.Refund(ctx, b); !errors.Is(err, ErrWrongState) {
		t.Fatalf("refund of uncaptured hold err = %v, want ErrWrongState", err)
	}
	if err := m.Capture(ctx, b); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if err := m.Refund(ctx, b); err != nil {
		t.Fatalf("refund: %v", err)
	}
	if b.PaymentState != domain.PaymentRefunded {
		t.Errorf("state = %s, want REFUNDED", b.PaymentState)
	}
}

func TestRelease_HappyPath(t *testing.T) {
	m := NewManager(payment.NewStubProvider(), "usd")
	b := newBooking()
	ctx := context.Background()
	if _, err := m.Authorize(ctx, b, "", "acct_owner"); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if err := m.Capture(ctx, b); err != nil {
		t.Fatalf("capture: %v", err)
	}
	tr, err := m.Release(ctx, b, "acct_owner")
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if tr.AmountCents != 4800 {
		t.Errorf("transfer amount = %d, want owner payout 4800", tr.AmountCents)
	}
	if b.TransferID != tr.ID {
		t.Errorf("transfer id not stamped on booking")
	}
	if b.PaymentState != domain.PaymentReleased {
		t.Errorf("state = %s, want RELEASED", b.PaymentState)
	}
}

func TestRelease_DoubleReleaseRejected(t *testing.T) {
	m := NewManager(payment.NewStubProvider(), "usd")
	b := newBooking()
	ctx := context.Background()
	if _, err := m.Authorize(ctx, b, "", "acct_owner"); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if err := m.Capture(ctx, b); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if _, err := m.Release(ctx, b, "acct_owner"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, err := m.Release(ctx, b, "acct_owner"); err != ErrAlreadyReleased {
		t.Fatalf("second release err = %v, want ErrAlreadyReleased", err)
	}
}

func TestRelease_GuardsStateAndDestination(t *testing.T) {
	m := NewManager(payment.NewStubProvider(), "usd")
	b := newBooking()
	ctx := context.Background()
	if _, err := m.Release(ctx, b, "acct_owner"); !errors.Is(err, ErrWrongState) {
		t.Fatalf("release of unauthorized booking err = %v, want ErrWrongState", err)
	}
	if _, err := m.Authorize(ctx, b, "", "acct_owner"); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if _, err := m.Release(ctx, b, "acct_owner"); !errors.Is(err, ErrWrongState) {
		t.Fatalf("release of uncaptured booking err = %v, want ErrWrongState", err)
	}
	if err := m.Capture(ctx, b); err != nil {
		t.Fatalf("capture: %v", err)
	}
	if _, err := m.Release(ctx, b, ""); err != ErrOwnerNotOnboard {
		t.Fatalf("release without destination err = %v, want ErrOwnerNotOnboard", err)
	}
}

func TestRelease_BalanceInsufficientPropagates(t *testing.T) {
	stub := payment.NewStubProvider()
	m := NewManager(stub, "usd")
	b := newBooking()
	ctx := context.Background()
	if _, err := m.Authorize(ctx, b, "", "acct_owner"); err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if err := m.Capture(ctx, b); err != nil {
		t.Fatalf("capture: %v", err)
	}
	stub.FailTransfers = true
	if _, err := m.Release(ctx, b, "acct_owner"); !errors.Is(err, payment.ErrBalanceInsufficient) {
		t.Fatalf("err = %v, want ErrBalanceInsufficient", err)
	}
	// Failed release must not mark the booking released.
	if b.Released() {
		t.Errorf("booking marked released after failed transfer")
	}
	if b.PaymentState != domain.PaymentCaptured {
		t.Errorf("state = %s, want CAPTURED after failed transfer", b.PaymentState)
	}
}
