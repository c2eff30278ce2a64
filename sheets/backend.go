// Package sheets records entries in a worksheet of a remote spreadsheet.
package sheets

import (
	"context"
	"fmt"
)

// Worksheet identifies a tab of the spreadsheet.
type Worksheet struct {
	ID    int64
	Title string
}

// Range is a zero-based, end-exclusive block of cells.
type Range struct {
	StartRow, EndRow int
	StartCol, EndCol int
}

// RowRange covers the first cols cells of the zero-based row.
func RowRange(row, cols int) Range {
	return Range{StartRow: row, EndRow: row + 1, StartCol: 0, EndCol: cols}
}

// A1 renders the range in A1 notation, e.g. "A1:H1".
func (r Range) A1() string {
	return fmt.Sprintf("%s%d:%s%d", column(r.StartCol), r.StartRow+1, column(r.EndCol-1), r.EndRow)
}

func column(i int) string {
	s := ""
	for i >= 0 {
		s = string(rune('A'+i%26)) + s
		i = i/26 - 1
	}
	return s
}

// Color is an RGB color with components in [0,1].
type Color struct {
	Red, Green, Blue float64
}

// CellFormat is the subset of cell styling the writer applies.
type CellFormat struct {
	Background Color
	Foreground Color
	Bold       bool
}

// Backend is the set of remote spreadsheet operations the Writer needs.
type Backend interface {
	Worksheets(ctx context.Context) ([]Worksheet, error)
	AddWorksheet(ctx context.Context, title string, rows, cols int) (Worksheet, error)
	ReadRange(ctx context.Context, ws Worksheet, r Range) ([][]string, error)
	WriteRange(ctx context.Context, ws Worksheet, r Range, values [][]any) error
	AppendRow(ctx context.Context, ws Worksheet, values []any) error
	FormatRange(ctx context.Context, ws Worksheet, r Range, f CellFormat) error
}
