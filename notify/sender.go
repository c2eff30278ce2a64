// Package notify sends entrants their confirmation email.
package notify

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send one email.
type SendRequest struct {
	To      []string
	From    string
	ReplyTo string
	Subject string
	Text    string // plain text body
	HTML    string // optional HTML alternative
}

// SendResult is what the provider reported for an accepted message.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers email through an outbound provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
