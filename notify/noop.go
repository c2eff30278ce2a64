package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// NoopSender logs sends but does not deliver them.
type NoopSender struct {
	log *zap.Logger
}

// NewNoopSender creates a new NoopSender.
func NewNoopSender(log *zap.Logger) *NoopSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &NoopSender{log: log}
}

func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	s.log.Info("noop email send", zap.Strings("to", req.To), zap.String("subject", req.Subject))
	return SendResult{
		MessageID: fmt.Sprintf("noop-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}
