// Package expo is a thin client for the Expo push API. Sends are
// fire-and-forget from the caller's point of view: the dispatcher logs
// failures and never retries.
package expo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const DefaultPushURL = "https://exp.host/--/api/v2/push/send"

// PushMessage is the Expo push payload addressed to a single device token.
type PushMessage struct {
	To    string         `json:"to"`
	Title string         `json:"title,omitempty"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
}

type pushTicket struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type pushResponse struct {
	Data []pushTicket `json:"data"`
}

type Client interface {
	SendPush(ctx context.Context, message *PushMessage) error
}

type client struct {
	httpClient *http.Client
	pushURL    string
}

func NewClient(pushURL string, timeout time.Duration) Client {
	if pushURL == "" {
		pushURL = DefaultPushURL
	}

	return &client{
		httpClient: &http.Client{Timeout: timeout},
		pushURL:    pushURL,
	}
}

// SendPush posts one message and checks the per-message ticket. Expo answers
// 200 even when the ticket reports an error, so both are inspected.
func (c *client) SendPush(ctx context.Context, message *PushMessage) error {

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pushURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("push rejected, status code: %d", resp.StatusCode)
	}

	var result pushResponse

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode push response: %w", err)
	}

	for _, ticket := range result.Data {
		if ticket.Status == "error" {
			return fmt.Errorf("push ticket error: %s", ticket.Message)
		}
	}

	return nil
}
