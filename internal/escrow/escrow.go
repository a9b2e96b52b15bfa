// Package escrow is the single authority for moving booking funds. Renter
// money is authorized at booking time, captured when the rental starts,
// voided or refunded on cancellation, and released to the owner by an
// explicit admin action. Every transition is guarded here; handlers never
// talk to the processor about booking funds directly.
package escrow

import (
	"context"
	"errors"
	"fmt"

	"rently/internal/domain"
	"rently/internal/models"
	"rently/pkg/payment"
)

var (
	ErrWrongState      = errors.New("operation not allowed in current payment state")
	ErrAlreadyReleased = errors.New("booking already released")
	ErrOwnerNotOnboard = errors.New("owner payout account not configured")
)

type Manager struct {
	provider payment.Provider
	currency string
}

func NewManager(provider payment.Provider, currency string) *Manager {
	if currency == "" {
		currency = "USD"
	}
	return &Manager{provider: provider, currency: currency}
}

// Authorize creates the manual-capture intent for a freshly priced booking
// and stamps intent id + AUTHORIZED state on the row. The caller persists.
func (m *Manager) Authorize(ctx context.Context, b *models.Booking, customerID, destinationAccount string) (*payment.Intent, error) {
	if destinationAccount == "" {
		return nil, ErrOwnerNotOnboard
	}
	if b.PaymentState != "" {
		return nil, fmt.Errorf("%w: %s", ErrWrongState, b.PaymentState)
	}
	intent, err := m.provider.CreateIntent(ctx, payment.IntentRequest{
		AmountCents:        b.TotalCents,
		Currency:           m.currency,
		CustomerID:         customerID,
		DestinationAccount: destinationAccount,
		ApplicationFee:     b.ServiceFeeCents + b.CommissionCents,
		IdempotencyKey:     fmt.Sprintf("booking-%d-authorize", b.ID),
		Description:        fmt.Sprintf("Rental booking #%d", b.ID),
		Metadata:           map[string]string{"booking_id": fmt.Sprint(b.ID)},
	})
	if err != nil {
		return nil, err
	}
	b.PaymentIntentID = intent.ID
	b.PaymentState = domain.PaymentAuthorized
	return intent, nil
}

// Capture settles the held funds. Only legal from AUTHORIZED, and only when
// the processor still reports the intent as capturable.
func (m *Manager) Capture(ctx context.Context, b *models.Booking) error {
	if b.PaymentState != domain.PaymentAuthorized {
		return fmt.Errorf("%w: %s", ErrWrongState, b.PaymentState)
	}
	intent, err := m.provider.GetIntent(ctx, b.PaymentIntentID)
	if err != nil {
		return err
	}
	if intent.Status != "requires_capture" {
		return payment.ErrNotCapturable
	}
	if _, err := m.provider.CaptureIntent(ctx, b.PaymentIntentID); err != nil {
		return err
	}
	b.PaymentState = domain.PaymentCaptured
	return nil
}

// Void cancels an authorization that was never captured.
func (m *Manager) Void(ctx context.Context, b *models.Booking) error {
	if b.PaymentState != domain.PaymentAuthorized {
		return fmt.Errorf("%w: %s", ErrWrongState, b.PaymentState)
	}
	if _, err := m.provider.CancelIntent(ctx, b.PaymentIntentID); err != nil {
		return err
	}
	b.PaymentState = domain.PaymentVoided
	return nil
}

// Refund returns captured funds to the renter. Not allowed once released.
func (m *Manager) Refund(ctx context.Context, b *models.Booking) error {
	if b.PaymentState != domain.PaymentCaptured {
		return fmt.Errorf("%w: %s", ErrWrongState, b.PaymentState)
	}
	if _, err := m.provider.RefundIntent(ctx, b.PaymentIntentID, 0); err != nil {
		return err
	}
	b.PaymentState = domain.PaymentRefunded
	return nil
}

// Release transfers the owner share. Idempotency is double-guarded: the
// booking row check here and a stable idempotency key at the processor.
func (m *Manager) Release(ctx context.Context, b *models.Booking, destinationAccount string) (*payment.Transfer, error) {
	if b.Released() {
		return nil, ErrAlreadyReleased
	}
	if b.PaymentState != domain.PaymentCaptured {
		return nil, fmt.Errorf("%w: %s", ErrWrongState, b.PaymentState)
	}
	if destinationAccount == "" {
		return nil, ErrOwnerNotOnboard
	}
	transfer, err := m.provider.CreateTransfer(ctx, payment.TransferRequest{
		AmountCents:        b.OwnerPayoutCents,
		Currency:           m.currency,
		DestinationAccount: destinationAccount,
		IdempotencyKey:     fmt.Sprintf("release-%d", b.ID),
		Description:        fmt.Sprintf("Owner payout for booking #%d", b.ID),
		Metadata:           map[string]string{"booking_id": fmt.Sprint(b.ID)},
	})
	if err != nil {
		return nil, err
	}
	b.TransferID = transfer.ID
	b.PaymentState = domain.PaymentReleased
	return transfer, nil
}
