// Package setup builds the service's collaborators from a Config.
package setup

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/padraicbc/cupsurvey/config"
	"github.com/padraicbc/cupsurvey/drivers"
	"github.com/padraicbc/cupsurvey/ledger"
	"github.com/padraicbc/cupsurvey/models"
	"github.com/padraicbc/cupsurvey/notify"
	"github.com/padraicbc/cupsurvey/sheets"
	"github.com/padraicbc/cupsurvey/survey"
)

// Sender returns the mail sender selected by MAIL_PROVIDER.
func Sender(cfg *config.Config, log *zap.Logger) (notify.Sender, error) {
	switch cfg.MailProvider {
	case config.MailSMTP:
		return notify.NewSMTPSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPassword, cfg.MailFrom, cfg.MailTimeout, log)
	case config.MailResend:
		return notify.NewResendSender(cfg.ResendAPIKey, cfg.MailFrom, log), nil
	default:
		log.Warn("email delivery disabled, confirmations are only logged")
		return notify.NewNoopSender(log), nil
	}
}

// Notifier returns the confirmation notifier.
func Notifier(cfg *config.Config, log *zap.Logger) (*notify.Notifier, error) {
	sender, err := Sender(cfg, log)
	if err != nil {
		return nil, err
	}
	return notify.NewNotifier(sender, cfg.DisplayFormat, cfg.ContestName, cfg.MailFrom, cfg.MailReplyTo), nil
}

// Backend returns the Google Sheets backend, or an in-memory one when no
// credentials are configured. ctx must outlive the backend.
func Backend(ctx context.Context, cfg *config.Config, log *zap.Logger) (sheets.Backend, error) {
	creds, err := cfg.Credentials()
	if err != nil {
		return nil, err
	}
	if creds == nil {
		log.Warn("no spreadsheet credentials, entries are kept in memory only")
		return sheets.NewMemory(), nil
	}
	g, err := sheets.NewGoogle(ctx, creds, cfg.SpreadsheetID, cfg.SpreadsheetName)
	if err != nil {
		return nil, err
	}
	log.Info("spreadsheet opened", zap.String("spreadsheet_id", g.SpreadsheetID()), zap.String("worksheet", cfg.WorksheetTitle))
	return g, nil
}

// Validator loads the driver list when picks are structured and returns the
// matching validator along with the list.
func Validator(cfg *config.Config) (*survey.Validator, models.DriverList, error) {
	if cfg.PickMode != survey.Structured {
		return survey.NewValidator(cfg.PickMode, nil), nil, nil
	}
	list, err := drivers.Load(cfg.DriverListFile)
	if err != nil {
		return nil, nil, err
	}
	for _, q := range survey.DriverQuestions {
		if len(list[q.Group]) == 0 {
			return nil, nil, fmt.Errorf("driver list %s has no %s", cfg.DriverListFile, q.Group)
		}
	}
	return survey.NewValidator(cfg.PickMode, list), list, nil
}

// Ledger opens the submission ledger, or returns nil when LEDGER_DSN is unset.
func Ledger(ctx context.Context, cfg *config.Config) (*bun.DB, *ledger.Store, error) {
	if cfg.LedgerDSN == "" {
		return nil, nil, nil
	}
	db, err := ledger.Open(ctx, cfg.LedgerDSN, cfg.Debug)
	if err != nil {
		return nil, nil, err
	}
	if err := ledger.CreateTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, ledger.NewStore(db), nil
}
