package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SMTPSender relays mail through an SSL SMTP server with a user and app password.
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
	timeout  time.Duration
	log      *zap.Logger
}

// NewSMTPSender returns a sender for host:port. from defaults to user.
func NewSMTPSender(host string, port int, user, password, from string, timeout time.Duration, log *zap.Logger) (*SMTPSender, error) {
	if host == "" || user == "" || password == "" {
		return nil, errors.New("smtp: host, user and password are required")
	}
	if from == "" {
		from = user
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SMTPSender{host: host, port: port, user: user, password: password, from: from, timeout: timeout, log: log}, nil
}

func (s *SMTPSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	msg, err := s.message(req)
	if err != nil {
		return SendResult{}, err
	}

	opts := []mail.Option{
		mail.WithPort(s.port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.user),
		mail.WithPassword(s.password),
	}
	if s.timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.timeout))
	}
	client, err := mail.NewClient(s.host, opts...)
	if err != nil {
		return SendResult{}, fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		s.log.Error("smtp send failed", zap.Error(err), zap.Strings("to", req.To), zap.String("subject", req.Subject))
		return SendResult{}, fmt.Errorf("smtp send: %w", err)
	}

	id := msg.GetGenHeader(mail.HeaderMessageID)
	s.log.Info("smtp sent", zap.Strings("to", req.To), zap.String("subject", req.Subject))
	res := SendResult{SentAt: time.Now()}
	if len(id) > 0 {
		res.MessageID = id[0]
	}
	return res, nil
}

func (s *SMTPSender) message(req SendRequest) (*mail.Msg, error) {
	from := req.From
	if from == "" {
		from = s.from
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("smtp from %q: %w", from, err)
	}
	if err := msg.To(req.To...); err != nil {
		return nil, fmt.Errorf("smtp to %v: %w", req.To, err)
	}
	if req.ReplyTo != "" {
		if err := msg.ReplyTo(req.ReplyTo); err != nil {
			return nil, fmt.Errorf("smtp reply-to %q: %w", req.ReplyTo, err)
		}
	}
	msg.Subject(req.Subject)
	msg.SetMessageID()

	switch {
	case req.HTML != "" && req.Text != "":
		msg.SetBodyString(mail.TypeTextPlain, req.Text)
		msg.AddAlternativeString(mail.TypeTextHTML, req.HTML)
	case req.HTML != "":
		msg.SetBodyString(mail.TypeTextHTML, req.HTML)
	default:
		msg.SetBodyString(mail.TypeTextPlain, req.Text)
	}
	return msg, nil
}
