package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rently/config"
	"rently/pkg/payment"

	"github.com/gin-gonic/gin"
)

func webhookTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPaymentWebhookHandler(cfg, nil, nil, nil, nil, nil, nil)
	r := gin.New()
	r.POST("/webhooks/payment", h.Handle)
	return r
}

func webhookConfig() *config.Config {
	return &config.Config{
		Payment: config.PaymentConfig{
			WebhookSecret:    "whsec_test",
			WebhookTolerance: 5 * time.Minute,
		},
	}
}

func TestWebhook_RejectsBadSignature(t *testing.T) {
	r := webhookTestRouter(webhookConfig())
	body := []byte(`{"id":"evt_1","type":"payment_intent.canceled"}`)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", payment.SignWebhookPayload(body, "whsec_wrong", time.Now()))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestWebhook_RejectsMissingSignature(t *testing.T) {
	r := webhookTestRouter(webhookConfig())
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader([]byte(`{"id":"evt_1"}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestWebhook_RejectsStaleTimestamp(t *testing.T) {
	r := webhookTestRouter(webhookConfig())
	body := []byte(`{"id":"evt_1","type":"payment_intent.canceled"}`)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", payment.SignWebhookPayload(body, "whsec_test", time.Now().Add(-time.Hour)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestWebhook_RejectsEventWithoutID(t *testing.T) {
	r := webhookTestRouter(webhookConfig())
	body := []byte(`{"type":"payment_intent.canceled"}`)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", bytes.NewReader(body))
	req.Header.Set("Stripe-Signature", payment.SignWebhookPayload(body, "whsec_test", time.Now()))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
