// Package whatsapp sends messages through an Evolution API instance.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Config struct {
	BaseURL  string
	Instance string
	APIKey   string
	Timeout  time.Duration
}

// Client is a thin client for the Evolution API text-message endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type sendTextRequest struct {
	Number string `json:"number"`
	Text   string `json:"text"`
}

// SendText posts a text message to the given recipient. A non-2xx response
// is returned as an error; retry policy is the caller's concern.
func (c *Client) SendText(ctx context.Context, recipient, text string) error {
	body, err := json.Marshal(sendTextRequest{Number: recipient, Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/message/sendText/%s", c.cfg.BaseURL, c.cfg.Instance)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("evolution api returned %d: %s", resp.StatusCode, snippet)
	}
	return nil
}

// NopSender discards outbound messages. Used when no Evolution instance is
// configured, so dispatch results are still produced and logged.
type NopSender struct{}

func (NopSender) SendText(ctx context.Context, recipient, text string) error {
	return nil
}
