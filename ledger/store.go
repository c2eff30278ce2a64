package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/padraicbc/cupsurvey/models"
)

// Store reads and writes Submission rows.
type Store struct {
	db *bun.DB
}

// NewStore wraps an open ledger database.
func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// Record inserts a submission.
func (s *Store) Record(ctx context.Context, sub *models.Submission) error {
	if _, err := s.db.NewInsert().Model(sub).Exec(ctx); err != nil {
		return fmt.Errorf("recording submission %s: %w", sub.ID, err)
	}
	return nil
}

// MarkNotified stores the outcome of a confirmation attempt. A nil sendErr
// marks the submission sent, anything else marks it failed.
func (s *Store) MarkNotified(ctx context.Context, id string, sendErr error) error {
	q := s.db.NewUpdate().
		TableExpr("submissions").
		Set("attempts = attempts + 1").
		Where("id = ?", id)
	if sendErr == nil {
		q = q.Set("notify_status = ?", models.NotifySent).
			Set("notify_error = NULL").
			Set("notified_at = ?", time.Now().UTC())
	} else {
		q = q.Set("notify_status = ?", models.NotifyFailed).
			Set("notify_error = ?", sendErr.Error())
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("marking submission %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("marking submission %s: not found", id)
	}
	return nil
}

// Get returns one submission by ID.
func (s *Store) Get(ctx context.Context, id string) (*models.Submission, error) {
	sub := &models.Submission{}
	if err := s.db.NewSelect().Model(sub).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, fmt.Errorf("loading submission %s: %w", id, err)
	}
	return sub, nil
}

// Failed returns up to limit submissions whose confirmation failed, oldest
// first, skipping those already tried maxAttempts times (0 means no cap).
func (s *Store) Failed(ctx context.Context, limit, maxAttempts int) ([]models.Submission, error) {
	var subs []models.Submission
	q := s.db.NewSelect().
		Model(&subs).
		Where("notify_status = ?", models.NotifyFailed).
		OrderExpr("created_at ASC").
		Limit(limit)
	if maxAttempts > 0 {
		q = q.Where("attempts < ?", maxAttempts)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("listing failed submissions: %w", err)
	}
	return subs, nil
}
