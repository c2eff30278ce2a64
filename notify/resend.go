package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	log    *zap.Logger
}

// NewResendSender creates a new ResendSender with the given API key and default from address.
func NewResendSender(apiKey, from string, log *zap.Logger) *ResendSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		log:    log,
	}
}

func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	from := req.From
	if from == "" {
		from = s.from
	}

	params := &resend.SendEmailRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		Text:    req.Text,
	}
	if req.ReplyTo != "" {
		params.ReplyTo = req.ReplyTo
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.log.Error("resend send failed", zap.Error(err), zap.Strings("to", req.To), zap.String("subject", req.Subject))
		return SendResult{}, fmt.Errorf("resend send: %w", err)
	}

	s.log.Info("resend sent", zap.String("message_id", sent.Id), zap.Strings("to", req.To))
	return SendResult{
		MessageID: sent.Id,
		SentAt:    time.Now(),
	}, nil
}
