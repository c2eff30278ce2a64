package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Memory is an in-process Backend. It stands in for the spreadsheet when no
// credentials are configured and lets tests inspect what was written.
type Memory struct {
	mu     sync.Mutex
	nextID int64
	sheets []*memSheet
	fail   map[string]error
	calls  map[string]int
}

type memSheet struct {
	ws      Worksheet
	rows    [][]string
	formats map[int]CellFormat
}

// NewMemory returns an empty spreadsheet holding the given worksheet titles.
func NewMemory(titles ...string) *Memory {
	m := &Memory{fail: map[string]error{}, calls: map[string]int{}}
	for _, t := range titles {
		m.add(t)
	}
	return m
}

// Operation names accepted by FailOn and Calls.
const (
	OpWorksheets   = "worksheets"
	OpAddWorksheet = "add_worksheet"
	OpReadRange    = "read_range"
	OpWriteRange   = "write_range"
	OpAppendRow    = "append_row"
	OpFormatRange  = "format_range"
)

// FailOn makes every later call of op return err. A nil err clears it.
func (m *Memory) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, op)
		return
	}
	m.fail[op] = err
}

// Calls returns how many times op has been invoked.
func (m *Memory) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Rows returns a copy of the worksheet's cells, or nil when it does not exist.
func (m *Memory) Rows(title string) [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.byTitle(title)
	if s == nil {
		return nil
	}
	out := make([][]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

// SetRows replaces the worksheet's cells, creating it when missing.
func (m *Memory) SetRows(title string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.byTitle(title)
	if s == nil {
		s = m.add(title)
	}
	s.rows = rows
}

// Format returns the format applied to a zero-based row, if any.
func (m *Memory) Format(title string, row int) (CellFormat, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.byTitle(title)
	if s == nil {
		return CellFormat{}, false
	}
	f, ok := s.formats[row]
	return f, ok
}

func (m *Memory) add(title string) *memSheet {
	s := &memSheet{ws: Worksheet{ID: m.nextID, Title: title}, formats: map[int]CellFormat{}}
	m.nextID++
	m.sheets = append(m.sheets, s)
	return s
}

func (m *Memory) byTitle(title string) *memSheet {
	for _, s := range m.sheets {
		if s.ws.Title == title {
			return s
		}
	}
	return nil
}

func (m *Memory) byID(id int64) (*memSheet, error) {
	for _, s := range m.sheets {
		if s.ws.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("worksheet %d not found", id)
}

func (m *Memory) begin(op string) error {
	m.calls[op]++
	return m.fail[op]
}

func (m *Memory) Worksheets(_ context.Context) ([]Worksheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(OpWorksheets); err != nil {
		return nil, err
	}
	out := make([]Worksheet, len(m.sheets))
	for i, s := range m.sheets {
		out[i] = s.ws
	}
	return out, nil
}

func (m *Memory) AddWorksheet(_ context.Context, title string, _, _ int) (Worksheet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(OpAddWorksheet); err != nil {
		return Worksheet{}, err
	}
	for _, s := range m.sheets {
		if strings.EqualFold(s.ws.Title, title) {
			return Worksheet{}, fmt.Errorf("worksheet %q already exists", title)
		}
	}
	return m.add(title).ws, nil
}

func (m *Memory) ReadRange(_ context.Context, ws Worksheet, r Range) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(OpReadRange); err != nil {
		return nil, err
	}
	s, err := m.byID(ws.ID)
	if err != nil {
		return nil, err
	}
	var out [][]string
	for i := r.StartRow; i < r.EndRow && i < len(s.rows); i++ {
		row := s.rows[i]
		var cells []string
		for j := r.StartCol; j < r.EndCol && j < len(row); j++ {
			cells = append(cells, row[j])
		}
		out = append(out, trimRight(cells))
	}
	// like the Sheets API, trailing empty rows are omitted
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *Memory) WriteRange(_ context.Context, ws Worksheet, r Range, values [][]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(OpWriteRange); err != nil {
		return err
	}
	s, err := m.byID(ws.ID)
	if err != nil {
		return err
	}
	for i, vals := range values {
		row := r.StartRow + i
		if row >= r.EndRow {
			break
		}
		for len(s.rows) <= row {
			s.rows = append(s.rows, nil)
		}
		for j, v := range vals {
			col := r.StartCol + j
			if col >= r.EndCol {
				break
			}
			for len(s.rows[row]) <= col {
				s.rows[row] = append(s.rows[row], "")
			}
			s.rows[row][col] = fmt.Sprint(v)
		}
	}
	return nil
}

func (m *Memory) AppendRow(_ context.Context, ws Worksheet, values []any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(OpAppendRow); err != nil {
		return err
	}
	s, err := m.byID(ws.ID)
	if err != nil {
		return err
	}
	last := len(s.rows)
	for last > 0 && len(trimRight(s.rows[last-1])) == 0 {
		last--
	}
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = fmt.Sprint(v)
	}
	s.rows = append(s.rows[:last], row)
	return nil
}

func (m *Memory) FormatRange(_ context.Context, ws Worksheet, r Range, f CellFormat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.begin(OpFormatRange); err != nil {
		return err
	}
	s, err := m.byID(ws.ID)
	if err != nil {
		return err
	}
	for i := r.StartRow; i < r.EndRow; i++ {
		s.formats[i] = f
	}
	return nil
}

func trimRight(cells []string) []string {
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}
