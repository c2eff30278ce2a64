package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/cupsurvey/notify"
	"github.com/padraicbc/cupsurvey/survey"
)

func newTestViper(values map[string]any) *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := FromViper(newTestViper(map[string]any{"SECRET_KEY": "s", "DEBUG": true}))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Port)
	assert.Equal(t, "Cup Car Challenge", cfg.ContestName)
	assert.Equal(t, "Cup Survey", cfg.SpreadsheetName)
	assert.Equal(t, "Chicago 2025", cfg.WorksheetTitle)
	assert.Equal(t, "US/Eastern", cfg.Location.String())
	assert.Equal(t, CredsNone, cfg.CredsSource)
	assert.Equal(t, MailNoop, cfg.MailProvider)
	assert.Equal(t, notify.Plain, cfg.DisplayFormat)
	assert.Equal(t, survey.FreeText, cfg.PickMode)
	assert.Equal(t, 20*time.Second, cfg.SheetsTimeout)
	assert.Equal(t, 15*time.Second, cfg.MailTimeout)
	assert.Equal(t, 10*time.Minute, cfg.SummaryTTL)
	assert.False(t, cfg.TLS())
	assert.False(t, cfg.SecureCookies)
	assert.Empty(t, cfg.TrustedOrigins)

	creds, err := cfg.Credentials()
	require.NoError(t, err)
	assert.Nil(t, creds)
}

func TestMissingCredentialsRejectedOutsideDebug(t *testing.T) {
	_, err := FromViper(newTestViper(map[string]any{"SECRET_KEY": "s"}))
	assert.ErrorContains(t, err, "CREDS_SOURCE=none")

	cfg, err := FromViper(newTestViper(map[string]any{"SECRET_KEY": "s", "CREDS_SOURCE": "none"}))
	require.NoError(t, err)
	assert.Equal(t, CredsNone, cfg.CredsSource)
	assert.True(t, cfg.SecureCookies)
}

func TestTrustedOrigins(t *testing.T) {
	cfg, err := FromViper(newTestViper(map[string]any{
		"SECRET_KEY":      "s",
		"CREDS_SOURCE":    "none",
		"TRUSTED_ORIGINS": "cup.example.org, www.cup.example.org",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"cup.example.org", "www.cup.example.org"}, cfg.TrustedOrigins)
	assert.False(t, cfg.TLS())
	assert.True(t, cfg.SecureCookies)

	cfg, err = FromViper(newTestViper(map[string]any{
		"SECRET_KEY":     "s",
		"CREDS_SOURCE":   "none",
		"SECURE_COOKIES": false,
	}))
	require.NoError(t, err)
	assert.False(t, cfg.SecureCookies)
}

func TestSecretRequired(t *testing.T) {
	_, err := FromViper(newTestViper(nil))
	assert.ErrorContains(t, err, "SECRET_KEY")
}

func TestLegacyEnvNames(t *testing.T) {
	t.Setenv("FLASK_SECRET_KEY", "legacy")
	t.Setenv("GMAIL_USER", "me@gmail.com")
	t.Setenv("GMAIL_APP_PASSWORD", "app-pass")

	cfg, err := FromViper(newTestViper(map[string]any{"CREDS_SOURCE": "none"}))
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.SecretKey)
	assert.Equal(t, MailSMTP, cfg.MailProvider)
	assert.Equal(t, "me@gmail.com", cfg.MailFrom)
	assert.Equal(t, "smtp.gmail.com", cfg.MailHost)
	assert.Equal(t, 465, cfg.MailPort)
}

func TestInlineCredentials(t *testing.T) {
	cfg, err := FromViper(newTestViper(map[string]any{
		"SECRET_KEY":        "s",
		"GOOGLE_CREDS_JSON": `{"type":"service_account"}`,
	}))
	require.NoError(t, err)
	assert.Equal(t, CredsInline, cfg.CredsSource)

	creds, err := cfg.Credentials()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(creds))
}

func TestFileCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"type":"service_account"}`), 0o600))

	cfg, err := FromViper(newTestViper(map[string]any{
		"SECRET_KEY":        "s",
		"GOOGLE_CREDS_FILE": path,
	}))
	require.NoError(t, err)
	assert.Equal(t, CredsFile, cfg.CredsSource)

	creds, err := cfg.Credentials()
	require.NoError(t, err)
	assert.NotEmpty(t, creds)
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   string
	}{
		{"bad format", map[string]any{"DISPLAY_FORMAT": "fancy"}, "DISPLAY_FORMAT"},
		{"bad pick mode", map[string]any{"PICK_MODE": "radio"}, "PICK_MODE"},
		{"structured without list", map[string]any{"PICK_MODE": "structured"}, "DRIVER_LIST_FILE"},
		{"inline without json", map[string]any{"CREDS_SOURCE": "inline"}, "GOOGLE_CREDS_JSON"},
		{"unknown creds source", map[string]any{"CREDS_SOURCE": "vault"}, "CREDS_SOURCE"},
		{"smtp without password", map[string]any{"MAIL_PROVIDER": "smtp", "MAIL_USER": "me"}, "MAIL_PASSWORD"},
		{"resend without key", map[string]any{"MAIL_PROVIDER": "resend"}, "RESEND_API_KEY"},
		{"bad timezone", map[string]any{"TIMEZONE": "Mars/Olympus"}, "TIMEZONE"},
		{"zero timeout", map[string]any{"MAIL_TIMEOUT": "0s"}, "MAIL_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.values["SECRET_KEY"] = "s"
			_, err := FromViper(newTestViper(tt.values))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestTLSDomains(t *testing.T) {
	cfg, err := FromViper(newTestViper(map[string]any{
		"SECRET_KEY":   "s",
		"CREDS_SOURCE": "none",
		"TLS_DOMAINS":  " cupsurvey.app, www.cupsurvey.app ,",
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"cupsurvey.app", "www.cupsurvey.app"}, cfg.TLSDomains)
	assert.Equal(t, cfg.TLSDomains, cfg.TrustedOrigins)
	assert.True(t, cfg.TLS())
}
