package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// StripeProvider talks to the card processor's REST API directly
// (form-encoded requests, bearer secret key, idempotency keys per mutation).
type StripeProvider struct {
	BaseURL   string
	SecretKey string
	client    *http.Client
}

func NewStripeProvider(baseURL, secretKey string) *StripeProvider {
	if baseURL == "" {
		baseURL = "https://api.stripe.com"
	}
	return &StripeProvider{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type intentResp struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
}

type transferResp struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

type accountResp struct {
	ID               string `json:"id"`
	PayoutsEnabled   bool   `json:"payouts_enabled"`
	DetailsSubmitted bool   `json:"details_submitted"`
}

type accountLinkResp struct {
	URL string `json:"url"`
}

type identitySessionResp struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

type refundResp struct {
	ID string `json:"id"`
}

// post sends a form-encoded POST and decodes the response into out.
func (p *StripeProvider) post(ctx context.Context, path string, form url.Values, idempotencyKey string, out interface{}) error {
	body := ""
	if form != nil {
		body = form.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+path, strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+p.SecretKey)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	return p.do(req, path, out)
}

func (p *StripeProvider) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.SecretKey)
	return p.do(req, path, out)
}

func (p *StripeProvider) do(req *http.Request, path string, out interface{}) error {
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var apiErr apiError
		_ = json.Unmarshal(respBody, &apiErr)
		log.Printf("[Payment] %s %s status=%d code=%s", req.Method, path, resp.StatusCode, apiErr.Error.Code)
		switch apiErr.Error.Code {
		case "balance_insufficient":
			return ErrBalanceInsufficient
		case "payment_intent_unexpected_state":
			return ErrNotCapturable
		case "resource_missing":
			return ErrIntentNotFound
		}
		if resp.StatusCode == http.StatusNotFound {
			return ErrIntentNotFound
		}
		return fmt.Errorf("processor: %d %s", resp.StatusCode, apiErr.Error.Message)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func (p *StripeProvider) CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	form.Set("currency", strings.ToLower(req.Currency))
	form.Set("capture_method", "manual")
	form.Set("automatic_payment_methods[enabled]", "true")
	if req.CustomerID != "" {
		form.Set("customer", req.CustomerID)
	}
	if req.DestinationAccount != "" {
		form.Set("transfer_data[destination]", req.DestinationAccount)
	}
	if req.ApplicationFee > 0 {
		form.Set("application_fee_amount", strconv.FormatInt(req.ApplicationFee, 10))
	}
	if req.Description != "" {
		form.Set("description", req.Description)
	}
	for k, v := range req.Metadata {
		form.Set("metadata["+k+"]", v)
	}
	var out intentResp
	if err := p.post(ctx, "/v1/payment_intents", form, req.IdempotencyKey, &out); err != nil {
		return nil, err
	}
	return &Intent{ID: out.ID, Status: out.Status, ClientSecret: out.ClientSecret, AmountCents: out.Amount}, nil
}

func (p *StripeProvider) GetIntent(ctx context.Context, id string) (*Intent, error) {
	var out intentResp
	if err := p.get(ctx, "/v1/payment_intents/"+id, &out); err != nil {
		return nil, err
	}
	return &Intent{ID: out.ID, Status: out.Status, ClientSecret: out.ClientSecret, AmountCents: out.Amount}, nil
}

func (p *StripeProvider) CaptureIntent(ctx context.Context, id string) (*Intent, error) {
	var out intentResp
	if err := p.post(ctx, "/v1/payment_intents/"+id+"/capture", nil, "capture-"+id, &out); err != nil {
		return nil, err
	}
	return &Intent{ID: out.ID, Status: out.Status, AmountCents: out.Amount}, nil
}

func (p *StripeProvider) CancelIntent(ctx context.Context, id string) (*Intent, error) {
	var out intentResp
	if err := p.post(ctx, "/v1/payment_intents/"+id+"/cancel", nil, "cancel-"+id, &out); err != nil {
		return nil, err
	}
	return &Intent{ID: out.ID, Status: out.Status, AmountCents: out.Amount}, nil
}

func (p *StripeProvider) RefundIntent(ctx context.Context, id string, amountCents int64) (string, error) {
	form := url.Values{}
	form.Set("payment_intent", id)
	if amountCents > 0 {
		form.Set("amount", strconv.FormatInt(amountCents, 10))
	}
	var out refundResp
	if err := p.post(ctx, "/v1/refunds", form, "refund-"+id, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (p *StripeProvider) CreateTransfer(ctx context.Context, req TransferRequest) (*Transfer, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(req.AmountCents, 10))
	form.Set("currency", strings.ToLower(req.Currency))
	form.Set("destination", req.DestinationAccount)
	if req.Description != "" {
		form.Set("description", req.Description)
	}
	for k, v := range req.Metadata {
		form.Set("metadata["+k+"]", v)
	}
	var out transferResp
	if err := p.post(ctx, "/v1/transfers", form, req.IdempotencyKey, &out); err != nil {
		return nil, err
	}
	log.Printf("[Payment] transfer %s amount=%d dest=%s", out.ID, out.Amount, req.DestinationAccount)
	return &Transfer{ID: out.ID, AmountCents: out.Amount}, nil
}

func (p *StripeProvider) CreateAccount(ctx context.Context, email string) (*Account, error) {
	form := url.Values{}
	form.Set("type", "express")
	form.Set("email", email)
	form.Set("capabilities[transfers][requested]", "true")
	var out accountResp
	if err := p.post(ctx, "/v1/accounts", form, "", &out); err != nil {
		return nil, err
	}
	return &Account{ID: out.ID, PayoutsEnabled: out.PayoutsEnabled, DetailsSubmitted: out.DetailsSubmitted}, nil
}

func (p *StripeProvider) CreateAccountLink(ctx context.Context, accountID, returnURL, refreshURL string) (string, error) {
	form := url.Values{}
	form.Set("account", accountID)
	form.Set("return_url", returnURL)
	form.Set("refresh_url", refreshURL)
	form.Set("type", "account_onboarding")
	var out accountLinkResp
	if err := p.post(ctx, "/v1/account_links", form, "", &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (p *StripeProvider) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	var out accountResp
	if err := p.get(ctx, "/v1/accounts/"+accountID, &out); err != nil {
		return nil, err
	}
	return &Account{ID: out.ID, PayoutsEnabled: out.PayoutsEnabled, DetailsSubmitted: out.DetailsSubmitted}, nil
}

func (p *StripeProvider) CreateIdentitySession(ctx context.Context, userRef string) (*IdentitySession, error) {
	form := url.Values{}
	form.Set("type", "document")
	form.Set("metadata[user_ref]", userRef)
	var out identitySessionResp
	if err := p.post(ctx, "/v1/identity/verification_sessions", form, "", &out); err != nil {
		return nil, err
	}
	return &IdentitySession{ID: out.ID, URL: out.URL, Status: out.Status}, nil
}
