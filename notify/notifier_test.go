package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/cupsurvey/models"
)

type fakeSender struct {
	sent []SendRequest
	err  error
}

func (f *fakeSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	f.sent = append(f.sent, req)
	if f.err != nil {
		return SendResult{}, f.err
	}
	return SendResult{MessageID: "m1"}, nil
}

func jane() models.Entry {
	return models.Entry{
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		Chevrolet:    models.Pick{Name: "Kyle Larson"},
		Ford:         models.Pick{Name: "Joey Logano"},
		Toyota:       models.Pick{Name: "Christopher Bell"},
		Manufacturer: "Chevrolet",
		LeadLap:      24,
	}
}

func TestComposePlain(t *testing.T) {
	n := NewNotifier(&fakeSender{}, Plain, "Cup Car Challenge", "", "")

	req, err := n.Compose(jane())
	require.NoError(t, err)
	assert.Equal(t, []string{"jane@example.com"}, req.To)
	assert.Equal(t, "✅ Cup Car Challenge – Confirmation", req.Subject)
	assert.Empty(t, req.HTML)
	assert.Contains(t, req.Text, "Hi Jane Doe,")
	assert.Contains(t, req.Text, "- Chevrolet Driver: Kyle Larson\n")
	assert.Contains(t, req.Text, "- Ford Driver: Joey Logano\n")
	assert.Contains(t, req.Text, "- Toyota Driver: Christopher Bell\n")
	assert.Contains(t, req.Text, "- Manufacturer Winner: Chevrolet\n")
	assert.Contains(t, req.Text, "- Cars on Lead Lap: 24\n")
}

func TestComposeRich(t *testing.T) {
	n := NewNotifier(&fakeSender{}, Rich, "Cup Car Challenge", "noreply@example.com", "")
	e := jane()
	e.Chevrolet = models.Pick{Rank: 5, Name: "Kyle Larson"}
	e.Name = "<b>Jane</b>"

	req, err := n.Compose(e)
	require.NoError(t, err)
	assert.Equal(t, "noreply@example.com", req.From)
	assert.Contains(t, req.HTML, "<li><strong>Chevrolet Driver:</strong> #5 Kyle Larson</li>")
	assert.Contains(t, req.HTML, "<li><strong>Cars on Lead Lap:</strong> 24</li>")
	assert.NotContains(t, req.HTML, "<b>Jane</b>")
	assert.Contains(t, req.Text, "- Chevrolet Driver: #5 Kyle Larson")
}

func TestNotifySends(t *testing.T) {
	fs := &fakeSender{}
	n := NewNotifier(fs, Plain, "Cup Car Challenge", "", "")

	res, err := n.Notify(context.Background(), jane())
	require.NoError(t, err)
	assert.Equal(t, "m1", res.MessageID)
	require.Len(t, fs.sent, 1)
}

func TestNotifyWrapsFailure(t *testing.T) {
	boom := errors.New("535 auth failed")
	n := NewNotifier(&fakeSender{err: boom}, Plain, "Cup Car Challenge", "", "")

	_, err := n.Notify(context.Background(), jane())
	var nerr *NotificationError
	require.True(t, errors.As(err, &nerr))
	assert.Equal(t, "jane@example.com", nerr.To)
	assert.ErrorIs(t, err, boom)
}

func TestNewSMTPSenderRequiresCredentials(t *testing.T) {
	_, err := NewSMTPSender("smtp.gmail.com", 465, "", "", "", 0, nil)
	assert.Error(t, err)

	s, err := NewSMTPSender("smtp.gmail.com", 465, "me@gmail.com", "app-pass", "", 0, nil)
	require.NoError(t, err)
	msg, err := s.message(SendRequest{To: []string{"jane@example.com"}, Subject: "hi", Text: "body"})
	require.NoError(t, err)
	assert.NotNil(t, msg)
}
