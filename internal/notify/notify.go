// Package notify sends email notifications through an external sending API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type sendRequest struct {
	UserID  int    `json:"userId"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Email   string `json:"email"`
}

// Sender delivers a notification to the configured recipient.
type Sender interface {
	Send(ctx context.Context, subject, message string) error
}

// EmailClient sends notifications through the email API. The recipient and
// API identity are fixed at construction; callers only supply content.
type EmailClient struct {
	endpoint   string
	token      string
	recipient  string
	userID     int
	httpClient *http.Client
}

// NewEmailClient creates an email notification client.
//
// Parameters:
//   - endpoint: Full URL of the send endpoint
//   - token: Bearer token for the email API
//   - recipient: Destination email address
//   - userID: Account identifier expected by the email API
//
// Returns:
//   - *EmailClient: A new client instance ready for use
func NewEmailClient(endpoint, token, recipient string, userID int) *EmailClient {
	return &EmailClient{
		endpoint:   endpoint,
		token:      token,
		recipient:  recipient,
		userID:     userID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Send delivers one email with the given subject and message body.
func (c *EmailClient) Send(ctx context.Context, subject, message string) error {
	body, err := json.Marshal(sendRequest{
		UserID:  c.userID,
		Subject: subject,
		Message: message,
		Email:   c.recipient,
	})
	if err != nil {
		return fmt.Errorf("encoding notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building notification request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sending notification: unexpected status %d", resp.StatusCode)
	}

	return nil
}
