package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripeProvider_CreateIntent(t *testing.T) {
	var gotPath, gotAuth, gotIdem string
	var gotForm map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotIdem = r.Header.Get("Idempotency-Key")
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotForm = r.PostForm
		w.Write([]byte(`{"id":"pi_123","status":"requires_capture","client_secret":"pi_123_secret","amount":6900}`))
	}))
	defer srv.Close()

	p := NewStripeProvider(srv.URL, "sk_test_abc")
	in, err := p.CreateIntent(context.Background(), IntentRequest{
		AmountCents:        6900,
		Currency:           "USD",
		DestinationAccount: "acct_owner",
		ApplicationFee:     2100,
		IdempotencyKey:     "booking-42-authorize",
		Metadata:           map[string]string{"booking_id": "42"},
	})
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if in.ID != "pi_123" || in.Status != "requires_capture" || in.AmountCents != 6900 {
		t.Errorf("unexpected intent %+v", in)
	}
	if gotPath != "/v1/payment_intents" {
		t.Errorf("path = %s", gotPath)
	}
	if gotAuth != "Bearer sk_test_abc" {
		t.Errorf("auth = %s", gotAuth)
	}
	if gotIdem != "booking-42-authorize" {
		t.Errorf("idempotency key = %s", gotIdem)
	}
	checks := map[string]string{
		"amount":                     "6900",
		"currency":                   "usd",
		"capture_method":             "manual",
		"transfer_data[destination]": "acct_owner",
		"application_fee_amount":     "2100",
		"metadata[booking_id]":       "42",
	}
	for k, want := range checks {
		if got := gotForm[k]; len(got) != 1 || got[0] != want {
			t.Errorf("form[%s] = %v, want %s", k, got, want)
		}
	}
}

func TestStripeProvider_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"balance insufficient", 400, `{"error":{"code":"balance_insufficient","message":"no funds"}}`, ErrBalanceInsufficient},
		{"unexpected state", 400, `{"error":{"code":"payment_intent_unexpected_state"}}`, ErrNotCapturable},
		{"resource missing", 404, `{"error":{"code":"resource_missing"}}`, ErrIntentNotFound},
		{"bare 404", 404, `{}`, ErrIntentNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()
			p := NewStripeProvider(srv.URL, "sk_test_abc")
			_, err := p.CreateTransfer(context.Background(), TransferRequest{
				AmountCents: 100, Currency: "usd", DestinationAccount: "acct_x",
			})
			if err != tc.wantErr {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestStripeProvider_TransferCarriesIdempotencyKey(t *testing.T) {
	var gotIdem string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdem = r.Header.Get("Idempotency-Key")
		w.Write([]byte(`{"id":"tr_1","amount":4800}`))
	}))
	defer srv.Close()
	p := NewStripeProvider(srv.URL, "sk_test_abc")
	tr, err := p.CreateTransfer(context.Background(), TransferRequest{
		AmountCents:        4800,
		Currency:           "usd",
		DestinationAccount: "acct_owner",
		IdempotencyKey:     "release-42",
	})
	if err != nil {
		t.Fatalf("CreateTransfer: %v", err)
	}
	if tr.ID != "tr_1" || tr.AmountCents != 4800 {
		t.Errorf("unexpected transfer %+v", tr)
	}
	if gotIdem != "release-42" {
		t.Errorf("idempotency key = %s, want release-42", gotIdem)
	}
}

func TestStripeProvider_GetAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/accounts/acct_1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":"acct_1","payouts_enabled":true,"details_submitted":true}`))
	}))
	defer srv.Close()
	p := NewStripeProvider(srv.URL, "sk_test_abc")
	acct, err := p.GetAccount(context.Background(), "acct_1")
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if !acct.PayoutsEnabled || !acct.DetailsSubmitted {
		t.Errorf("unexpected account %+v", acct)
	}
}
