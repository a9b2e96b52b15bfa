package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Client sends transactional email via a Resend-style JSON API. The zero-value
// behavior with an empty API key is a silent no-op so local development never
// needs an email account.
type Client struct {
	BaseURL string
	APIKey  string
	From    string
	client  *http.Client
}

func NewClient(baseURL, apiKey, from string) *Client {
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		From:    from,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type sendReq struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

type sendResp struct {
	ID string `json:"id"`
}

// Send delivers one email. Returns the provider message id.
func (c *Client) Send(ctx context.Context, to, subject, html, text string) (string, error) {
	if c.APIKey == "" {
		log.Printf("[Email] skipped (no api key): to=%s subject=%q", to, subject)
		return "", nil
	}
	body, _ := json.Marshal(sendReq{
		From:    c.From,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
		Text:    text,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("email send: %d %s", resp.StatusCode, string(respBody))
	}
	var out sendResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}
