// Package config loads application settings from a .env file and environment variables.
// Environment variables always take precedence over .env file values.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/padraicbc/cupsurvey/notify"
	"github.com/padraicbc/cupsurvey/survey"
)

// Spreadsheet credential sources.
const (
	CredsFile   = "file"
	CredsInline = "inline"
	CredsNone   = "none"
)

// Mail providers.
const (
	MailSMTP   = "smtp"
	MailResend = "resend"
	MailNoop   = "noop"
)

// Config holds all application configuration.
type Config struct {
	// Session signing secret (required).
	SecretKey  string
	SummaryTTL time.Duration

	// Server
	Debug      bool
	Port       string
	TLSDomains []string

	// Hosts accepted as form Origin besides the request's own host.
	TrustedOrigins []string
	// HTTPS-only CSRF and summary cookies.
	SecureCookies  bool

	ContestName string
	Location    *time.Location

	// Spreadsheet
	CredsSource     string
	CredsFile       string
	CredsJSON       string
	SpreadsheetID   string
	SpreadsheetName string
	WorksheetTitle  string
	SheetsTimeout   time.Duration

	// Mail
	MailProvider  string
	MailHost      string
	MailPort      int
	MailUser      string
	MailPassword  string
	MailFrom      string
	MailReplyTo   string
	ResendAPIKey  string
	DisplayFormat notify.Format
	MailTimeout   time.Duration

	// Form
	PickMode       survey.PickMode
	DriverListFile string

	// Ledger, optional.
	LedgerDSN string
}

// Load reads configuration from a .env file (if present) and then from
// environment variables. Environment variables always win.
func Load() *Config {
	cfg, err := FromViper(newViper())
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// FromViper applies defaults to v and builds a validated Config.
func FromViper(v *viper.Viper) (*Config, error) {
	// Legacy names from the first deployments.
	_ = v.BindEnv("SECRET_KEY", "SECRET_KEY", "FLASK_SECRET_KEY")
	_ = v.BindEnv("MAIL_USER", "MAIL_USER", "GMAIL_USER")
	_ = v.BindEnv("MAIL_PASSWORD", "MAIL_PASSWORD", "GMAIL_APP_PASSWORD")

	// Defaults
	v.SetDefault("PORT", ":9000")
	v.SetDefault("DEBUG", false)
	v.SetDefault("CONTEST_NAME", "Cup Car Challenge")
	v.SetDefault("TIMEZONE", "US/Eastern")
	v.SetDefault("SPREADSHEET_NAME", "Cup Survey")
	v.SetDefault("WORKSHEET_TITLE", "Chicago 2025")
	v.SetDefault("GOOGLE_CREDS_FILE", "credentials.json")
	v.SetDefault("SHEETS_TIMEOUT", "20s")
	v.SetDefault("MAIL_HOST", "smtp.gmail.com")
	v.SetDefault("MAIL_PORT", 465)
	v.SetDefault("MAIL_TIMEOUT", "15s")
	v.SetDefault("DISPLAY_FORMAT", string(notify.Plain))
	v.SetDefault("PICK_MODE", string(survey.FreeText))
	v.SetDefault("SUMMARY_TTL", "10m")

	v.SetDefault("SECURE_COOKIES", !v.GetBool("DEBUG"))

	loc, err := time.LoadLocation(v.GetString("TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}

	cfg := &Config{
		SecretKey:       v.GetString("SECRET_KEY"),
		SummaryTTL:      v.GetDuration("SUMMARY_TTL"),
		Debug:           v.GetBool("DEBUG"),
		Port:            v.GetString("PORT"),
		TLSDomains:      splitTrimmed(v.GetString("TLS_DOMAINS")),
		TrustedOrigins:  splitTrimmed(v.GetString("TRUSTED_ORIGINS")),
		SecureCookies:   v.GetBool("SECURE_COOKIES"),
		ContestName:     v.GetString("CONTEST_NAME"),
		Location:        loc,
		CredsSource:     strings.ToLower(v.GetString("CREDS_SOURCE")),
		CredsFile:       v.GetString("GOOGLE_CREDS_FILE"),
		CredsJSON:       v.GetString("GOOGLE_CREDS_JSON"),
		SpreadsheetID:   v.GetString("SPREADSHEET_ID"),
		SpreadsheetName: v.GetString("SPREADSHEET_NAME"),
		WorksheetTitle:  v.GetString("WORKSHEET_TITLE"),
		SheetsTimeout:   v.GetDuration("SHEETS_TIMEOUT"),
		MailProvider:    strings.ToLower(v.GetString("MAIL_PROVIDER")),
		MailHost:        v.GetString("MAIL_HOST"),
		MailPort:        v.GetInt("MAIL_PORT"),
		MailUser:        v.GetString("MAIL_USER"),
		MailPassword:    v.GetString("MAIL_PASSWORD"),
		MailFrom:        v.GetString("MAIL_FROM"),
		MailReplyTo:     v.GetString("MAIL_REPLY_TO"),
		ResendAPIKey:    v.GetString("RESEND_API_KEY"),
		DisplayFormat:   notify.Format(strings.ToLower(v.GetString("DISPLAY_FORMAT"))),
		MailTimeout:     v.GetDuration("MAIL_TIMEOUT"),
		PickMode:        survey.PickMode(strings.ToLower(v.GetString("PICK_MODE"))),
		DriverListFile:  v.GetString("DRIVER_LIST_FILE"),
		LedgerDSN:       v.GetString("LEDGER_DSN"),
	}

	cfg.applyDerived()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDerived fills the credential source and mail provider from whichever
// secrets are present when they are not set explicitly. Missing credentials
// only fall back to the in-memory sheet in debug mode.
func (c *Config) applyDerived() {
	if c.CredsSource == "" {
		switch {
		case c.CredsJSON != "":
			c.CredsSource = CredsInline
		case fileExists(c.CredsFile):
			c.CredsSource = CredsFile
		case c.Debug:
			c.CredsSource = CredsNone
		}
	}
	if len(c.TrustedOrigins) == 0 {
		c.TrustedOrigins = c.TLSDomains
	}
	if c.MailProvider == "" {
		switch {
		case c.MailUser != "":
			c.MailProvider = MailSMTP
		case c.ResendAPIKey != "":
			c.MailProvider = MailResend
		default:
			c.MailProvider = MailNoop
		}
	}
	if c.MailFrom == "" {
		c.MailFrom = c.MailUser
	}
}

// Credentials returns the service-account key JSON for the configured source,
// or nil when spreadsheet access is not configured.
func (c *Config) Credentials() ([]byte, error) {
	switch c.CredsSource {
	case CredsInline:
		return []byte(c.CredsJSON), nil
	case CredsFile:
		b, err := os.ReadFile(c.CredsFile)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", c.CredsFile, err)
		}
		return b, nil
	default:
		return nil, nil
	}
}

// SecretBytes returns the session signing secret as a byte slice.
func (c *Config) SecretBytes() []byte {
	return []byte(c.SecretKey)
}

// TLS reports whether the server should terminate TLS itself via autocert.
func (c *Config) TLS() bool {
	return !c.Debug && len(c.TLSDomains) > 0
}

func (c *Config) validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY must be set"))
	}
	if c.WorksheetTitle == "" {
		errs = append(errs, errors.New("WORKSHEET_TITLE must be set"))
	}
	switch c.CredsSource {
	case "":
		errs = append(errs, fmt.Errorf("no spreadsheet credentials: set GOOGLE_CREDS_JSON, provide %s or set CREDS_SOURCE=none", c.CredsFile))
	case CredsFile, CredsNone:
	case CredsInline:
		if c.CredsJSON == "" {
			errs = append(errs, errors.New("GOOGLE_CREDS_JSON must be set when CREDS_SOURCE=inline"))
		}
	default:
		errs = append(errs, fmt.Errorf("CREDS_SOURCE %q must be file, inline or none", c.CredsSource))
	}
	if c.CredsSource != CredsNone && c.CredsSource != "" && c.SpreadsheetID == "" && c.SpreadsheetName == "" {
		errs = append(errs, errors.New("SPREADSHEET_ID or SPREADSHEET_NAME must be set"))
	}
	switch c.MailProvider {
	case MailSMTP:
		if c.MailUser == "" || c.MailPassword == "" {
			errs = append(errs, errors.New("MAIL_USER and MAIL_PASSWORD must be set for smtp"))
		}
	case MailResend:
		if c.ResendAPIKey == "" || c.MailFrom == "" {
			errs = append(errs, errors.New("RESEND_API_KEY and MAIL_FROM must be set for resend"))
		}
	case MailNoop:
	default:
		errs = append(errs, fmt.Errorf("MAIL_PROVIDER %q must be smtp, resend or noop", c.MailProvider))
	}
	if c.DisplayFormat != notify.Plain && c.DisplayFormat != notify.Rich {
		errs = append(errs, fmt.Errorf("DISPLAY_FORMAT %q must be plain or rich", c.DisplayFormat))
	}
	switch c.PickMode {
	case survey.FreeText:
	case survey.Structured:
		if c.DriverListFile == "" {
			errs = append(errs, errors.New("DRIVER_LIST_FILE must be set when PICK_MODE=structured"))
		}
	default:
		errs = append(errs, fmt.Errorf("PICK_MODE %q must be free-text or structured", c.PickMode))
	}
	if c.SheetsTimeout <= 0 || c.MailTimeout <= 0 || c.SummaryTTL <= 0 {
		errs = append(errs, errors.New("SHEETS_TIMEOUT, MAIL_TIMEOUT and SUMMARY_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func newViper() *viper.Viper {
	// Silently load .env – OK if the file doesn't exist (production uses real env vars).
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables only")
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
