package handlers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/cupsurvey/middleware"
	"github.com/padraicbc/cupsurvey/models"
	"github.com/padraicbc/cupsurvey/notify"
	"github.com/padraicbc/cupsurvey/survey"
)

// Recorder durably stores a validated entry.
type Recorder interface {
	Append(ctx context.Context, e models.Entry, ts time.Time) error
	Title() string
}

// Notifier sends the entrant a confirmation.
type Notifier interface {
	Notify(ctx context.Context, e models.Entry) (notify.SendResult, error)
}

// Ledger tracks confirmation outcomes. It is optional.
type Ledger interface {
	Record(ctx context.Context, sub *models.Submission) error
	MarkNotified(ctx context.Context, id string, sendErr error) error
}

// Deps are the collaborators a Handler needs.
type Deps struct {
	Validator     *survey.Validator
	Sheet         Recorder
	Notifier      Notifier
	Ledger        Ledger
	Summaries     *middleware.SummaryStore
	Drivers       models.DriverList
	Logger        *zap.Logger
	Contest       string
	SheetsTimeout time.Duration
	MailTimeout   time.Duration
}

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	Deps
	now func() time.Time
}

// New creates a Handler.
func New(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Validator == nil {
		d.Validator = survey.NewValidator(survey.FreeText, nil)
	}
	if d.SheetsTimeout <= 0 {
		d.SheetsTimeout = 20 * time.Second
	}
	if d.MailTimeout <= 0 {
		d.MailTimeout = 15 * time.Second
	}
	return &Handler{Deps: d, now: time.Now}
}
