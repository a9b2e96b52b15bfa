package payment

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StubProvider is an in-memory provider for development and tests. Intents
// move through the same statuses the real processor reports.
type StubProvider struct {
	mu      sync.Mutex
	seq     int
	intents map[string]*Intent
	// FailTransfers makes CreateTransfer return ErrBalanceInsufficient.
	FailTransfers bool
}

func NewStubProvider() *StubProvider {
	return &StubProvider{intents: make(map[string]*Intent)}
}

func (s *StubProvider) next(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s_stub_%d_%d", prefix, time.Now().UnixNano(), s.seq)
}

func (s *StubProvider) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in := &Intent{
		ID:           s.next("pi"),
		Status:       "requires_capture",
		ClientSecret: s.next("secret"),
		AmountCents:  req.AmountCents,
	}
	s.intents[in.ID] = in
	return in, nil
}

func (s *StubProvider) GetIntent(ctx context.Context, id string) (*Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.intents[id]
	if !ok {
		return nil, ErrIntentNotFound
	}
	cp := *in
	return &cp, nil
}

func (s *StubProvider) CaptureIntent(ctx context.Context, id string) (*Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.intents[id]
	if !ok {
		return nil, ErrIntentNotFound
	}
	if in.Status != "requires_capture" {
		return nil, ErrNotCapturable
	}
	in.Status = "succeeded"
	cp := *in
	return &cp, nil
}

func (s *StubProvider) CancelIntent(ctx context.Context, id string) (*Intent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.intents[id]
	if !ok {
		return nil, ErrIntentNotFound
	}
	in.Status = "canceled"
	cp := *in
	return &cp, nil
}

func (s *StubProvider) RefundIntent(ctx context.Context, id string, amountCents int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.intents[id]; !ok {
		return "", ErrIntentNotFound
	}
	return s.next("re"), nil
}

func (s *StubProvider) CreateTransfer(ctx context.Context, req TransferRequest) (*Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailTransfers {
		return nil, ErrBalanceInsufficient
	}
	return &Transfer{ID: s.next("tr"), AmountCents: req.AmountCents}, nil
}

func (s *StubProvider) CreateAccount(ctx context.Context, email string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Account{ID: s.next("acct")}, nil
}

func (s *StubProvider) CreateAccountLink(ctx context.Context, accountID, returnURL, refreshURL string) (string, error) {
	return "https://connect.example.com/onboard/" + accountID, nil
}

func (s *StubProvider) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	return &Account{ID: accountID, PayoutsEnabled: true, DetailsSubmitted: true}, nil
}

func (s *StubProvider) CreateIdentitySession(ctx context.Context, userRef string) (*IdentitySession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &IdentitySession{ID: s.next("ivs"), URL: "https://verify.example.com/" + userRef, Status: "requires_input"}, nil
}
