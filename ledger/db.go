// Package ledger keeps a local record of accepted entries and whether their
// confirmation email went out, so failed confirmations can be re-sent.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	_ "modernc.org/sqlite"

	"github.com/padraicbc/cupsurvey/models"
)

// Open connects to the ledger database. postgres:// DSNs use PostgreSQL,
// anything else is treated as a SQLite DSN.
func Open(ctx context.Context, dsn string, debug bool) (*bun.DB, error) {
	var db *bun.DB
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		db = bun.NewDB(sqldb, pgdialect.New())
	} else {
		sqldb, err := sql.Open("sqlite", strings.TrimPrefix(dsn, "sqlite://"))
		if err != nil {
			return nil, fmt.Errorf("opening sqlite ledger: %w", err)
		}
		// a single connection keeps :memory: databases and writers consistent
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	}

	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to ledger: %w", err)
	}
	return db, nil
}

// CreateTables creates the ledger schema if it does not exist.
func CreateTables(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().Model((*models.Submission)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("creating table for %T: %w", (*models.Submission)(nil), err)
	}
	_, err := db.NewCreateIndex().
		Model((*models.Submission)(nil)).
		Index("submissions_notify_status_idx").
		Column("notify_status", "created_at").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("creating notify_status index: %w", err)
	}
	return nil
}
