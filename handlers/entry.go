package handlers

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/padraicbc/cupsurvey/models"
	"github.com/padraicbc/cupsurvey/survey"
)

const persistFailedMessage = "Sorry, we could not save your entry right now. Please try again in a few minutes."

type option struct {
	Value    string
	Label    string
	Selected bool
}

type questionView struct {
	Field   string
	Label   string
	Value   string
	Options []option
}

type formPage struct {
	Contest       string
	Errors        []string
	Form          survey.Form
	Questions     []questionView
	Manufacturers []string
	MinLeadLap    int
	MaxLeadLap    int
	CSRF          template.HTML
}

type thankYouPage struct {
	Contest string
	Summary *models.Summary
}

type errorPage struct {
	Contest string
	Message string
}

// Form renders the empty entry form.
func (h *Handler) Form(c echo.Context) error {
	return h.renderForm(c, http.StatusOK, survey.Form{}, nil)
}

// Submit validates an entry, writes it to the sheet, sends the confirmation
// and redirects to the thank-you page. A rejected entry re-renders the form;
// an entry that could not be written renders a failure page and is never
// confirmed.
func (h *Handler) Submit(c echo.Context) error {
	var f survey.Form
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entry, err := h.Validator.Validate(f)
	if err != nil {
		var verrs survey.ValidationErrors
		if !errors.As(err, &verrs) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		h.Logger.Info("entry rejected", zap.Strings("errors", verrs.Messages()))
		return h.renderForm(c, http.StatusUnprocessableEntity, f, verrs.Messages())
	}

	// Once persisting starts it runs to completion even if the client goes away.
	ctx := context.WithoutCancel(c.Request().Context())
	ts := h.now()

	if err := h.persist(ctx, entry, ts); err != nil {
		h.Logger.Error("entry not persisted", zap.Error(err), zap.String("email", entry.Email))
		return c.Render(http.StatusServiceUnavailable, "error.html", errorPage{Contest: h.Contest, Message: persistFailedMessage})
	}

	id := uuid.NewString()
	log := h.Logger.With(zap.String("submission", id), zap.String("email", entry.Email))
	log.Info("entry recorded", zap.String("worksheet", h.Sheet.Title()))

	h.record(ctx, log, models.NewSubmission(id, h.Sheet.Title(), entry, ts))
	h.notify(ctx, log, id, entry)

	if err := h.Summaries.Put(c, entry.Summary()); err != nil {
		log.Error("summary not stored", zap.Error(err))
	}
	return c.Redirect(http.StatusSeeOther, "/thank-you")
}

// ThankYou shows the summary of the last submission once.
func (h *Handler) ThankYou(c echo.Context) error {
	return c.Render(http.StatusOK, "thank_you.html", thankYouPage{
		Contest: h.Contest,
		Summary: h.Summaries.Take(c),
	})
}

func (h *Handler) persist(ctx context.Context, entry models.Entry, ts time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, h.SheetsTimeout)
	defer cancel()
	return h.Sheet.Append(ctx, entry, ts)
}

// record writes the ledger row. The sheet is the record of truth, so ledger
// failures are only logged.
func (h *Handler) record(ctx context.Context, log *zap.Logger, sub *models.Submission) {
	if h.Ledger == nil {
		return
	}
	if err := h.Ledger.Record(ctx, sub); err != nil {
		log.Error("ledger record failed", zap.Error(err))
	}
}

// notify sends the confirmation at most once. Failures are logged and kept in
// the ledger for a later resend; they never affect the response.
func (h *Handler) notify(ctx context.Context, log *zap.Logger, id string, entry models.Entry) {
	mctx, cancel := context.WithTimeout(ctx, h.MailTimeout)
	defer cancel()

	res, sendErr := h.Notifier.Notify(mctx, entry)
	if sendErr != nil {
		log.Error("confirmation email failed", zap.Error(sendErr))
	} else {
		log.Info("confirmation email sent", zap.String("message_id", res.MessageID))
	}

	if h.Ledger == nil {
		return
	}
	if err := h.Ledger.MarkNotified(ctx, id, sendErr); err != nil {
		log.Error("ledger update failed", zap.Error(err))
	}
}

func (h *Handler) renderForm(c echo.Context, status int, f survey.Form, errs []string) error {
	return c.Render(status, "form.html", formPage{
		Contest:       h.Contest,
		Errors:        errs,
		Form:          f,
		Questions:     h.questions(f),
		Manufacturers: survey.Manufacturers,
		MinLeadLap:    survey.MinLeadLap,
		MaxLeadLap:    survey.MaxLeadLap,
		CSRF:          csrf.TemplateField(c.Request()),
	})
}

func (h *Handler) questions(f survey.Form) []questionView {
	submitted := [][3]string{
		{f.Q1, f.Q1Name, f.Q1Rank},
		{f.Q2, f.Q2Name, f.Q2Rank},
		{f.Q3, f.Q3Name, f.Q3Rank},
	}
	out := make([]questionView, len(survey.DriverQuestions))
	for i, q := range survey.DriverQuestions {
		raw := submitted[i]
		qv := questionView{Field: q.Field, Label: q.Label, Value: raw[0]}
		if h.Validator.Mode() == survey.Structured {
			var selected models.Pick
			if p, err := survey.ParsePick(raw[0], raw[1], raw[2]); err == nil {
				selected = p
			}
			for _, d := range h.Drivers[q.Group] {
				p := d.Pick()
				qv.Options = append(qv.Options, option{
					Value:    survey.EncodePick(p),
					Label:    p.String(),
					Selected: p.Rank == selected.Rank && strings.EqualFold(p.Name, selected.Name),
				})
			}
		}
		out[i] = qv
	}
	return out
}
