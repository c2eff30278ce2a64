package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const spreadsheetMime = "application/vnd.google-apps.spreadsheet"

// Google is a Backend over the Sheets v4 API.
type Google struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewGoogle authenticates with a service-account key and opens the
// spreadsheet by ID, or, when id is empty, by looking its title up in Drive.
// ctx is used for token refreshes and must outlive the backend.
func NewGoogle(ctx context.Context, credsJSON []byte, id, title string) (*Google, error) {
	conf, err := google.JWTConfigFromJSON(credsJSON, sheetsapi.SpreadsheetsScope, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}
	auth := option.WithTokenSource(conf.TokenSource(ctx))

	svc, err := sheetsapi.NewService(ctx, auth)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	if id == "" {
		dsvc, err := drive.NewService(ctx, auth)
		if err != nil {
			return nil, fmt.Errorf("creating drive service: %w", err)
		}
		if id, err = lookupSpreadsheet(ctx, dsvc, title); err != nil {
			return nil, err
		}
	}
	return NewGoogleService(svc, id), nil
}

// NewGoogleService wraps an existing Sheets service.
func NewGoogleService(svc *sheetsapi.Service, spreadsheetID string) *Google {
	return &Google{svc: svc, spreadsheetID: spreadsheetID}
}

// SpreadsheetID returns the resolved spreadsheet ID.
func (g *Google) SpreadsheetID() string { return g.spreadsheetID }

func lookupSpreadsheet(ctx context.Context, dsvc *drive.Service, title string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", errors.New("spreadsheet id or name is required")
	}
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", escapeQuery(title), spreadsheetMime)
	fl, err := dsvc.Files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(1).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("looking up spreadsheet %q: %w", title, err)
	}
	if len(fl.Files) == 0 {
		return "", fmt.Errorf("spreadsheet %q not found or not shared with the service account", title)
	}
	return fl.Files[0].Id, nil
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

func quoteTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

func (g *Google) Worksheets(ctx context.Context) ([]Worksheet, error) {
	ss, err := g.svc.Spreadsheets.Get(g.spreadsheetID).
		Fields("sheets.properties(sheetId,title)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	out := make([]Worksheet, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties == nil {
			continue
		}
		out = append(out, Worksheet{ID: sh.Properties.SheetId, Title: sh.Properties.Title})
	}
	return out, nil
}

func (g *Google) AddWorksheet(ctx context.Context, title string, rows, cols int) (Worksheet, error) {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{
					Title: title,
					GridProperties: &sheetsapi.GridProperties{
						RowCount:    int64(rows),
						ColumnCount: int64(cols),
					},
				},
			},
		}},
	}
	resp, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return Worksheet{}, err
	}
	if len(resp.Replies) == 0 || resp.Replies[0].AddSheet == nil || resp.Replies[0].AddSheet.Properties == nil {
		return Worksheet{}, errors.New("add sheet: empty reply")
	}
	p := resp.Replies[0].AddSheet.Properties
	return Worksheet{ID: p.SheetId, Title: p.Title}, nil
}

func (g *Google) ReadRange(ctx context.Context, ws Worksheet, r Range) ([][]string, error) {
	vr, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, quoteTitle(ws.Title)+"!"+r.A1()).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(vr.Values))
	for i, row := range vr.Values {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = fmt.Sprint(v)
		}
	}
	return out, nil
}

func (g *Google) WriteRange(ctx context.Context, ws Worksheet, r Range, values [][]any) error {
	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, quoteTitle(ws.Title)+"!"+r.A1(), &sheetsapi.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func (g *Google) AppendRow(ctx context.Context, ws Worksheet, values []any) error {
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, quoteTitle(ws.Title)+"!A1", &sheetsapi.ValueRange{Values: [][]any{values}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (g *Google) FormatRange(ctx context.Context, ws Worksheet, r Range, f CellFormat) error {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			RepeatCell: &sheetsapi.RepeatCellRequest{
				Range: &sheetsapi.GridRange{
					SheetId:          ws.ID,
					StartRowIndex:    int64(r.StartRow),
					EndRowIndex:      int64(r.EndRow),
					StartColumnIndex: int64(r.StartCol),
					EndColumnIndex:   int64(r.EndCol),
				},
				Cell: &sheetsapi.CellData{
					UserEnteredFormat: &sheetsapi.CellFormat{
						BackgroundColor: apiColor(f.Background),
						TextFormat: &sheetsapi.TextFormat{
							Bold:            f.Bold,
							ForegroundColor: apiColor(f.Foreground),
						},
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat)",
			},
		}},
	}
	_, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, req).Context(ctx).Do()
	return err
}

func apiColor(c Color) *sheetsapi.Color {
	return &sheetsapi.Color{Red: c.Red, Green: c.Green, Blue: c.Blue}
}
