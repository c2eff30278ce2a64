package sheets

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/padraicbc/cupsurvey/models"
)

// Header is the fixed first row of every contest worksheet.
var Header = []string{
	"Timestamp",
	"Email",
	"Entry Name",
	"Chevrolet Driver",
	"Ford Driver",
	"Toyota Driver",
	"Manufacturer",
	"Lead Lap",
}

// TimestampLayout formats the first column.
const TimestampLayout = "2006-01-02 15:04:05"

// Capacity of a newly created worksheet.
const (
	NewSheetRows = 100
	NewSheetCols = 10
)

// HeaderFormat is bold white text on dark gray.
var HeaderFormat = CellFormat{
	Background: Color{Red: 0.27, Green: 0.27, Blue: 0.27},
	Foreground: Color{Red: 1, Green: 1, Blue: 1},
	Bold:       true,
}

// PersistenceError reports that an entry could not be recorded.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("sheets: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Writer appends entries to one worksheet, creating it and healing its
// header row as needed.
type Writer struct {
	backend Backend
	title   string
	loc     *time.Location
	log     *zap.Logger
}

// NewWriter returns a writer targeting the worksheet with the given title.
// Timestamps are rendered in loc (UTC when nil).
func NewWriter(backend Backend, title string, loc *time.Location, log *zap.Logger) *Writer {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Writer{backend: backend, title: title, loc: loc, log: log}
}

// Title returns the target worksheet title.
func (w *Writer) Title() string { return w.title }

// Row builds the sheet row for an entry.
func (w *Writer) Row(e models.Entry, ts time.Time) []any {
	return []any{
		ts.In(w.loc).Format(TimestampLayout),
		e.Email,
		e.Name,
		e.Chevrolet.String(),
		e.Ford.String(),
		e.Toyota.String(),
		e.Manufacturer,
		e.LeadLap,
	}
}

// Append records the entry as the next data row of the worksheet.
func (w *Writer) Append(ctx context.Context, e models.Entry, ts time.Time) error {
	ws, err := w.Worksheet(ctx)
	if err != nil {
		return err
	}
	if err := w.EnsureHeader(ctx, ws); err != nil {
		return err
	}
	if err := w.backend.AppendRow(ctx, ws, w.Row(e, ts)); err != nil {
		return &PersistenceError{Op: "append row", Err: err}
	}
	w.log.Debug("row appended", zap.String("worksheet", ws.Title), zap.String("email", e.Email))
	return nil
}

// Worksheet finds the target worksheet by trimmed, case-insensitive title,
// creating it when missing.
func (w *Writer) Worksheet(ctx context.Context) (Worksheet, error) {
	all, err := w.backend.Worksheets(ctx)
	if err != nil {
		return Worksheet{}, &PersistenceError{Op: "list worksheets", Err: err}
	}
	want := strings.ToLower(strings.TrimSpace(w.title))
	if ws, ok := lo.Find(all, func(ws Worksheet) bool {
		return strings.ToLower(strings.TrimSpace(ws.Title)) == want
	}); ok {
		return ws, nil
	}

	ws, err := w.backend.AddWorksheet(ctx, w.title, NewSheetRows, NewSheetCols)
	if err != nil {
		return Worksheet{}, &PersistenceError{Op: "add worksheet", Err: err}
	}
	w.log.Info("worksheet created", zap.String("worksheet", ws.Title))
	return ws, nil
}

// EnsureHeader rewrites and restyles the first row unless it already equals
// Header. A correct header costs one read and no writes.
func (w *Writer) EnsureHeader(ctx context.Context, ws Worksheet) error {
	r := RowRange(0, len(Header))
	rows, err := w.backend.ReadRange(ctx, ws, r)
	if err != nil {
		return &PersistenceError{Op: "read header", Err: err}
	}
	if len(rows) > 0 && slices.Equal(rows[0], Header) {
		return nil
	}

	if err := w.backend.WriteRange(ctx, ws, r, [][]any{lo.ToAnySlice(Header)}); err != nil {
		return &PersistenceError{Op: "write header", Err: err}
	}
	if err := w.backend.FormatRange(ctx, ws, r, HeaderFormat); err != nil {
		return &PersistenceError{Op: "format header", Err: err}
	}
	w.log.Info("header row written", zap.String("worksheet", ws.Title))
	return nil
}
