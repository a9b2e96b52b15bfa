package payment

import (
	"context"
	"errors"
)

// Sentinel errors surfaced by providers. Handlers branch on these rather than
// on provider-specific error bodies.
var (
	ErrBalanceInsufficient = errors.New("platform balance insufficient")
	ErrNotCapturable       = errors.New("intent is not awaiting capture")
	ErrIntentNotFound      = errors.New("payment intent not found")
)

// IntentRequest creates a manual-capture PaymentIntent. Funds are authorized
// on the renter's card and held until Capture or Cancel.
type IntentRequest struct {
	AmountCents        int64
	Currency           string
	CustomerID         string
	DestinationAccount string // owner's Connect account
	ApplicationFee     int64  // platform share, cents
	IdempotencyKey     string
	Description        string
	Metadata           map[string]string
}

type Intent struct {
	ID           string
	Status       string // requires_payment_method, requires_capture, succeeded, canceled
	ClientSecret string
	AmountCents  int64
}

// TransferRequest moves captured funds to a Connect account.
type TransferRequest struct {
	AmountCents        int64
	Currency           string
	DestinationAccount string
	IdempotencyKey     string
	Description        string
	Metadata           map[string]string
}

type Transfer struct {
	ID          string
	AmountCents int64
}

type Account struct {
	ID               string
	PayoutsEnabled   bool
	DetailsSubmitted bool
}

type IdentitySession struct {
	ID     string
	URL    string
	Status string
}

// Provider is the card processor surface the marketplace depends on:
// manual-capture intents for escrow, Connect accounts and transfers for owner
// payouts, identity sessions for renter KYC.
type Provider interface {
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
	CaptureIntent(ctx context.Context, id string) (*Intent, error)
	CancelIntent(ctx context.Context, id string) (*Intent, error)
	RefundIntent(ctx context.Context, id string, amountCents int64) (string, error)

	CreateTransfer(ctx context.Context, req TransferRequest) (*Transfer, error)

	CreateAccount(ctx context.Context, email string) (*Account, error)
	CreateAccountLink(ctx context.Context, accountID, returnURL, refreshURL string) (string, error)
	GetAccount(ctx context.Context, accountID string) (*Account, error)

	CreateIdentitySession(ctx context.Context, userRef string) (*IdentitySession, error)
}
