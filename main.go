package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/padraicbc/cupsurvey/config"
	"github.com/padraicbc/cupsurvey/handlers"
	applog "github.com/padraicbc/cupsurvey/logger"
	mw "github.com/padraicbc/cupsurvey/middleware"
	"github.com/padraicbc/cupsurvey/setup"
	"github.com/padraicbc/cupsurvey/sheets"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug, "web")
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	validator, driverList, err := setup.Validator(cfg)
	if err != nil {
		logger.Fatal("load driver list failed", zap.Error(err))
	}

	backend, err := setup.Backend(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open spreadsheet failed", zap.Error(err))
	}

	notifier, err := setup.Notifier(cfg, logger)
	if err != nil {
		logger.Fatal("mail setup failed", zap.Error(err))
	}

	deps := handlers.Deps{
		Validator:     validator,
		Sheet:         sheets.NewWriter(backend, cfg.WorksheetTitle, cfg.Location, logger),
		Notifier:      notifier,
		Summaries:     mw.NewSummaryStore(cfg.SecretBytes(), cfg.SummaryTTL, cfg.SecureCookies, logger),
		Drivers:       driverList,
		Logger:        logger,
		Contest:       cfg.ContestName,
		SheetsTimeout: cfg.SheetsTimeout,
		MailTimeout:   cfg.MailTimeout,
	}

	bdb, store, err := setup.Ledger(ctx, cfg)
	if err != nil {
		logger.Fatal("open ledger failed", zap.Error(err))
	}
	if bdb != nil {
		defer bdb.Close()
		deps.Ledger = store
	}

	h := handlers.New(deps)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("64K"))

	h.Routes(e, mw.CSRF(mw.CSRFKey(cfg.SecretKey), cfg.SecureCookies, cfg.TrustedOrigins))

	if !cfg.TLS() {
		logger.Info("starting server",
			zap.Bool("debug", cfg.Debug),
			zap.String("addr", cfg.Port),
			zap.String("pick_mode", string(cfg.PickMode)),
			zap.String("mail", cfg.MailProvider),
		)
		if err := e.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	logger.Info("starting tls server", zap.Strings("domains", cfg.TLSDomains))
	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
