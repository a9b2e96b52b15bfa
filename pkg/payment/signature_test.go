package payment

import (
	"testing"
	"time"
)

func TestVerifyWebhookSignature_Valid(t *testing.T) {
	body := []byte(`{"id":"evt_1","type":"payment_intent.amount_capturable_updated"}`)
	now := time.Now()
	header := SignWebhookPayload(body, "whsec_test", now)
	if err := VerifyWebhookSignature(body, header, "whsec_test", 5*time.Minute, now); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
}

func TestVerifyWebhookSignature_WrongSecret(t *testing.T) {
	body := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := SignWebhookPayload(body, "whsec_test", now)
	if err := VerifyWebhookSignature(body, header, "whsec_other", 5*time.Minute, now); err != ErrBadSignature {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestVerifyWebhookSignature_TamperedBody(t *testing.T) {
	now := time.Now()
	header := SignWebhookPayload([]byte(`{"amount":100}`), "whsec_test", now)
	err := VerifyWebhookSignature([]byte(`{"amount":999}`), header, "whsec_test", 5*time.Minute, now)
	if err != ErrBadSignature {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestVerifyWebhookSignature_StaleTimestamp(t *testing.T) {
	body := []byte(`{"id":"evt_1"}`)
	signedAt := time.Now().Add(-10 * time.Minute)
	header := SignWebhookPayload(body, "whsec_test", signedAt)
	err := VerifyWebhookSignature(body, header, "whsec_test", 5*time.Minute, time.Now())
	if err != ErrStaleTimestamp {
		t.Fatalf("expected ErrStaleTimestamp, got %v", err)
	}
}

func TestVerifyWebhookSignature_FutureTimestamp(t *testing.T) {
	body := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	header := SignWebhookPayload(body, "whsec_test", now.Add(10*time.Minute))
	err := VerifyWebhookSignature(body, header, "whsec_test", 5*time.Minute, now)
	if err != ErrStaleTimestamp {
		t.Fatalf("expected ErrStaleTimestamp, got %v", err)
	}
}

func TestVerifyWebhookSignature_MalformedHeader(t *testing.T) {
	body := []byte(`{}`)
	for _, header := range []string{"", "t=123", "v1=deadbeef", "garbage", "t=,v1="} {
		err := VerifyWebhookSignature(body, header, "whsec_test", 5*time.Minute, time.Now())
		if err != ErrBadSignature {
			t.Errorf("header %q: expected ErrBadSignature, got %v", header, err)
		}
	}
}

func TestVerifyWebhookSignature_MultipleSignatures(t *testing.T) {
	// Processors send multiple v1 entries during secret rotation; any one
	// matching is enough.
	body := []byte(`{"id":"evt_1"}`)
	now := time.Now()
	valid := SignWebhookPayload(body, "whsec_test", now)
	header := valid + ",v1=0000000000000000000000000000000000000000000000000000000000000000"
	if err := VerifyWebhookSignature(body, header, "whsec_test", 5*time.Minute, now); err != nil {
		t.Fatalf("expected valid with one good signature, got %v", err)
	}
}
