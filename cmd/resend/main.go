// cmd/resend/main.go
// Retries confirmation emails that failed to send, using the submission ledger.
//
// Usage:
//
//	go run ./cmd/resend -limit 50 -max-attempts 5
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/cupsurvey/config"
	applog "github.com/padraicbc/cupsurvey/logger"
	"github.com/padraicbc/cupsurvey/setup"
)

func main() {
	limit := flag.Int("limit", 50, "maximum submissions to retry")
	maxAttempts := flag.Int("max-attempts", 5, "skip submissions already tried this many times (0 = no cap)")
	flag.Parse()

	cfg := config.Load()
	if cfg.LedgerDSN == "" {
		log.Fatal("LEDGER_DSN must be set")
	}

	logger, err := applog.New(cfg.Debug, "resend")
	if err != nil {
		log.Fatal("logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	db, store, err := setup.Ledger(ctx, cfg)
	if err != nil {
		log.Fatal("open ledger:", err)
	}
	defer db.Close()

	notifier, err := setup.Notifier(cfg, logger)
	if err != nil {
		log.Fatal("mail setup:", err)
	}

	subs, err := store.Failed(ctx, *limit, *maxAttempts)
	if err != nil {
		log.Fatal("list failed:", err)
	}

	var sent, failed int
	for i := range subs {
		sub := &subs[i]
		sendCtx, cancel := context.WithTimeout(ctx, cfg.MailTimeout+5*time.Second)
		_, sendErr := notifier.Notify(sendCtx, sub.Entry())
		cancel()

		if err := store.MarkNotified(ctx, sub.ID, sendErr); err != nil {
			log.Fatal("mark notified:", err)
		}
		if sendErr != nil {
			failed++
			logger.Warn("resend failed", zap.String("id", sub.ID), zap.Int("attempts", sub.Attempts+1), zap.Error(sendErr))
			continue
		}
		sent++
		logger.Info("resend ok", zap.String("id", sub.ID), zap.String("email", sub.Email))
	}

	fmt.Printf("%d submissions retried: %d sent, %d still failing\n", len(subs), sent, failed)
}
