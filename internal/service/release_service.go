package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"rently/internal/domain"
	"rently/internal/escrow"
	"rently/internal/models"
	"rently/pkg/payment"
)

// Stores are narrowed to what the release workflow touches so the workflow
// can be exercised without a database.
type releaseBookingStore interface {
	ListUnreleased() ([]models.Booking, error)
	WithLock(id uint, fn func(b *models.Booking) error) error
}

type releasePayoutStore interface {
	Create(p *models.Payout) error
}

type releasePaymentStore interface {
	UpdateStatusByBookingID(bookingID uint, status string) error
}

type releaseUserStore interface {
	GetByID(id uint) (*models.User, error)
}

type releaseNotifier interface {
	NotifyPaymentReleased(ownerID, bookingID uint, amountCents int64) error
}

// ReleaseCandidate annotates a completed booking with its commission split
// and eligibility for the admin review screen.
type ReleaseCandidate struct {
	Booking          models.Booking `json:"booking"`
	CommissionCents  int64          `json:"commission_cents"`
	OwnerPayoutCents int64          `json:"owner_payout_cents"`
	Eligible         bool           `json:"eligible"`
	Reason           string         `json:"reason,omitempty"`
}

// ReleaseResult is the per-booking outcome of a batch release.
type ReleaseResult struct {
	BookingID  uint   `json:"booking_id"`
	TransferID string `json:"transfer_id,omitempty"`
	Simulated  bool   `json:"simulated,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ReleaseService owns the admin payout workflow: list what is owed, then
// transfer owner shares one booking at a time, each under a row lock.
type ReleaseService struct {
	bookings releaseBookingStore
	payouts  releasePayoutStore
	payments releasePaymentStore
	users    releaseUserStore
	esc      *escrow.Manager
	notifier releaseNotifier
	testMode bool
}

func NewReleaseService(
	bookings releaseBookingStore,
	payouts releasePayoutStore,
	payments releasePaymentStore,
	users releaseUserStore,
	esc *escrow.Manager,
	notifier releaseNotifier,
	testMode bool,
) *ReleaseService {
	return &ReleaseService{
		bookings: bookings,
		payouts:  payouts,
		payments: payments,
		users:    users,
		esc:      esc,
		notifier: notifier,
		testMode: testMode,
	}
}

// Candidates returns all completed-unreleased bookings annotated with the
// commission split and whether they are eligible for release right now.
func (s *ReleaseService) Candidates() ([]ReleaseCandidate, error) {
	bookings, err := s.bookings.ListUnreleased()
	if err != nil {
		return nil, err
	}
	out := make([]ReleaseCandidate, 0, len(bookings))
	for _, b := range bookings {
		c := ReleaseCandidate{
			Booking:          b,
			CommissionCents:  b.CommissionCents,
			OwnerPayoutCents: b.OwnerPayoutCents,
			Eligible:         true,
		}
		switch {
		case !b.Owner.CanReceivePayouts():
			c.Eligible = false
			c.Reason = "owner payout account not configured"
		case b.OwnerReceiptConfirmedAt == nil:
			c.Eligible = false
			c.Reason = "owner has not confirmed receipt"
		case b.PaymentState != domain.PaymentCaptured:
			c.Eligible = false
			c.Reason = "funds not captured"
		}
		out = append(out, c)
	}
	return out, nil
}

// ReleaseBatch processes each booking id independently; one failure never
// stops the rest. Results and errors aggregate per id.
func (s *ReleaseService) ReleaseBatch(ctx context.Context, adminID uint, bookingIDs []uint) []ReleaseResult {
	results := make([]ReleaseResult, 0, len(bookingIDs))
	for _, id := range bookingIDs {
		results = append(results, s.releaseOne(ctx, adminID, id))
	}
	return results
}

func (s *ReleaseService) releaseOne(ctx context.Context, adminID uint, bookingID uint) ReleaseResult {
	res := ReleaseResult{BookingID: bookingID}
	var payout *models.Payout
	var ownerID uint
	var amount int64

	err := s.bookings.WithLock(bookingID, func(b *models.Booking) error {
		if b.Released() {
			return escrow.ErrAlreadyReleased
		}
		if b.Status != domain.BookingCompleted {
			return fmt.Errorf("booking is %s, not completed", b.Status)
		}
		if b.OwnerReceiptConfirmedAt == nil {
			return errors.New("owner has not confirmed receipt")
		}
		owner, err := s.users.GetByID(b.OwnerID)
		if err != nil {
			return fmt.Errorf("load owner: %w", err)
		}
		if !owner.CanReceivePayouts() {
			return escrow.ErrOwnerNotOnboard
		}

		simulated := false
		_, err = s.esc.Release(ctx, b, owner.ConnectAccountID)
		if err != nil {
			// Test environments run against an empty platform balance; a
			// simulated transfer keeps the workflow testable end to end but
			// is recorded as such and never happens outside test mode.
			if errors.Is(err, payment.ErrBalanceInsufficient) && s.testMode {
				simulated = true
				b.TransferID = "tr_sim_" + uuid.New().String()
				b.PaymentState = domain.PaymentReleased
				log.Printf("[Release] booking %d: simulated transfer %s (test mode)", b.ID, b.TransferID)
			} else {
				return err
			}
		}
		now := time.Now()
		b.AdminReleasedAt = &now
		ownerID = b.OwnerID
		amount = b.OwnerPayoutCents
		payout = &models.Payout{
			BookingID:   b.ID,
			OwnerID:     b.OwnerID,
			AmountCents: b.OwnerPayoutCents,
			TransferID:  b.TransferID,
			Simulated:   simulated,
			ReleasedBy:  adminID,
			ReleasedAt:  now,
		}
		res.TransferID = b.TransferID
		res.Simulated = simulated
		return nil
	})

	if err != nil {
		if errors.Is(err, escrow.ErrAlreadyReleased) {
			res.Skipped = true
			res.Message = "Already released"
			return res
		}
		res.Error = err.Error()
		return res
	}

	// Post-commit bookkeeping and side effects, best effort.
	if err := s.payouts.Create(payout); err != nil {
		log.Printf("[Release] booking %d: payout row: %v", bookingID, err)
	}
	if err := s.payments.UpdateStatusByBookingID(bookingID, domain.PaymentReleased); err != nil {
		log.Printf("[Release] booking %d: payment row: %v", bookingID, err)
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyPaymentReleased(ownerID, bookingID, amount); err != nil {
			log.Printf("[Release] booking %d: notify owner: %v", bookingID, err)
		}
	}
	return res
}
