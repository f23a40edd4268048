// Package upstream defines the assistant responder contract and its HTTP
// implementation against the remote assist endpoint.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oakline/concierge/internal/model/conversation"
)

// Responder produces one assistant reply for a user message and its prior
// context. An empty reply with a nil error is a valid outcome; the caller
// substitutes its fallback text.
type Responder interface {
	Reply(ctx context.Context, message string, history []conversation.Turn) (string, error)
}

// request mirrors the assist endpoint contract: the new augmented message
// rides separately from the prior-turns history.
type request struct {
	Message string              `json:"message"`
	History []conversation.Turn `json:"history"`
}

// Client calls a remote assist endpoint over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient builds a client for the given assist URL. The timeout bounds the
// whole exchange; the widget itself imposes none.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Reply posts the message and history and extracts the optional reply field.
// Transport errors, non-2xx statuses and non-JSON bodies are all reported as
// a single failure class. Any valid JSON shape is tolerated: a body that is
// not an object, or whose reply field is absent or not a string, yields ""
// so the caller takes its fallback text, not the failure path.
func (c *Client) Reply(ctx context.Context, message string, history []conversation.Turn) (string, error) {
	payload, err := json.Marshal(request{Message: message, History: history})
	if err != nil {
		return "", fmt.Errorf("encode assist request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build assist request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call assist endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("assist endpoint returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read assist response: %w", err)
	}

	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("decode assist response: %w", err)
	}

	obj, ok := body.(map[string]any)
	if !ok {
		return "", nil
	}
	reply, _ := obj["reply"].(string)
	return reply, nil
}
