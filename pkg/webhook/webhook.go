package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"net/http"
	"net/url"
	"time"
)

const sendAttempts = 3

// Notification reports a tracked transaction reaching a terminal state.
type Notification struct {
	ID         uuid.UUID `json:"id"`
	TxHash     string    `json:"tx_hash"`
	Sender     string    `json:"sender"`
	Status     string    `json:"status"`
	BlockNonce uint64    `json:"block_nonce,omitempty"`
	ResultCode string    `json:"result_code,omitempty"`
	Timestamp  int64     `json:"timestamp"`
}

// Client delivers notifications to a single configured endpoint. Delivery is
// at-least-once, consumers must dedupe on the notification id.
type Client struct {
	client *http.Client
	url    string
}

func NewClient(webhookURL string) (*Client, error) {
	if _, err := url.ParseRequestURI(webhookURL); err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", webhookURL, err)
	}
	return &Client{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    webhookURL,
	}, nil
}

// Send posts the notification, retrying with linearly growing waits. A 2xx
// from the consumer acknowledges delivery.
func (c *Client) Send(ctx context.Context, notification Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	var lastErr error
	for i := 1; i <= sendAttempts; i++ {
		lastErr = c.post(ctx, payload)
		if lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second * time.Duration(i)):
		}
	}
	return fmt.Errorf("notification %s not delivered: %w", notification.ID, lastErr)
}

func (c *Client) post(ctx context.Context, payload []byte) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json; charset=UTF-8")
	response, err := c.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("webhook response status: %v", response.Status)
	}
	return nil
}
