package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

func newTestGoogle(t *testing.T, h http.HandlerFunc) *Google {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	svc, err := sheetsapi.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return NewGoogleService(svc, "sheet-id")
}

func TestGoogleWorksheets(t *testing.T) {
	g := newTestGoogle(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/spreadsheets/sheet-id", r.URL.Path)
		_, _ = io.WriteString(w, `{"sheets":[{"properties":{"sheetId":0,"title":"Sheet1"}},{"properties":{"sheetId":42,"title":"Chicago 2025"}}]}`)
	})

	got, err := g.Worksheets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Worksheet{{ID: 0, Title: "Sheet1"}, {ID: 42, Title: "Chicago 2025"}}, got)
}

func TestGoogleAppendRow(t *testing.T) {
	var body sheetsapi.ValueRange
	g := newTestGoogle(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":append"), r.URL.Path)
		assert.Contains(t, r.URL.Path, "'Chicago 2025'!A1")
		assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
		assert.Equal(t, "INSERT_ROWS", r.URL.Query().Get("insertDataOption"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = io.WriteString(w, `{}`)
	})

	err := g.AppendRow(context.Background(), Worksheet{ID: 42, Title: "Chicago 2025"}, []any{"a@b.c", 24})
	require.NoError(t, err)
	require.Len(t, body.Values, 1)
	assert.Equal(t, []any{"a@b.c", float64(24)}, body.Values[0])
}

func TestGoogleReadRangeStringifies(t *testing.T) {
	g := newTestGoogle(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "'Chicago 2025'!A1:H1")
		_, _ = io.WriteString(w, `{"values":[["Timestamp","Email"]]}`)
	})

	got, err := g.ReadRange(context.Background(), Worksheet{Title: "Chicago 2025"}, RowRange(0, 8))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Timestamp", "Email"}}, got)
}

func TestGoogleErrorsPropagate(t *testing.T) {
	g := newTestGoogle(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"denied"}}`)
	})

	_, err := g.Worksheets(context.Background())
	assert.Error(t, err)
}

func TestQuoteTitle(t *testing.T) {
	assert.Equal(t, "'Bob''s Race'", quoteTitle("Bob's Race"))
	assert.Equal(t, `Bob\'s`, escapeQuery("Bob's"))
}
