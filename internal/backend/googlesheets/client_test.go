package googlesheets_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"stravasheet/internal/backend/googlesheets"
	"stravasheet/internal/config"
	"stravasheet/internal/service"
)

const spreadsheetID = "sheet-123"

// fakeSheets serves the three Sheets API calls the client makes.
type fakeSheets struct {
	titles      []string
	column      string // JSON values array, e.g. [["Date","Jan 01"]]
	status      int
	gotRange    string
	gotMajor    string
	batch       map[string]any
	batchCalled int
}

func (f *fakeSheets) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if f.status != 0 {
			w.WriteHeader(f.status)
			fmt.Fprintf(w, `{"error":{"code":%d,"message":"denied"}}`, f.status)
			return
		}

		prefix := "/v4/spreadsheets/" + spreadsheetID
		switch {
		case r.Method == http.MethodGet && r.URL.Path == prefix:
			sheets := []map[string]any{}
			for _, title := range f.titles {
				sheets = append(sheets, map[string]any{"properties": map[string]any{"title": title}})
			}
			json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})

		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, prefix+"/values/"):
			f.gotRange = strings.TrimPrefix(r.URL.Path, prefix+"/values/")
			f.gotMajor = r.URL.Query().Get("majorDimension")
			values := f.column
			if values == "" {
				values = "null"
			}
			w.Write([]byte(`{"range":"` + f.gotRange + `","majorDimension":"COLUMNS","values":` + values + `}`))

		case r.Method == http.MethodPost && r.URL.Path == prefix+"/values:batchUpdate":
			f.batchCalled++
			f.batch = map[string]any{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&f.batch))
			w.Write([]byte(`{"spreadsheetId":"` + spreadsheetID + `"}`))

		default:
			http.NotFound(w, r)
		}
	}
}

func newClient(t *testing.T, f *fakeSheets, valueInput string) *googlesheets.Client {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	client, err := googlesheets.NewWithHTTPClient(context.Background(), srv.Client(), spreadsheetID, valueInput,
		option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return client
}

func TestWorksheet(t *testing.T) {
	f := &fakeSheets{titles: []string{"Summary", "Tracker ", "Log"}}
	client := newClient(t, f, "")

	title, err := client.Worksheet(context.Background(), " tracker")
	require.NoError(t, err)
	assert.Equal(t, "Tracker ", title)

	_, err = client.Worksheet(context.Background(), "Missing")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestColumn(t *testing.T) {
	f := &fakeSheets{column: `[["Date","Jan 14","","Jan 15"]]`}
	client := newClient(t, f, "")

	values, err := client.Column(context.Background(), "Tracker", "B")
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Jan 14", "", "Jan 15"}, values)
	assert.Equal(t, "'Tracker'!B:B", f.gotRange)
	assert.Equal(t, "COLUMNS", f.gotMajor)
}

func TestColumn_Empty(t *testing.T) {
	f := &fakeSheets{}
	client := newClient(t, f, "")

	values, err := client.Column(context.Background(), "Tracker", "B")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestBatchUpdate(t *testing.T) {
	f := &fakeSheets{}
	client := newClient(t, f, config.ValueInputUserEntered)

	err := client.BatchUpdate(context.Background(), "My 'Log'", []service.Cell{
		{Column: "G", Row: 3, Value: "Morning Run"},
		{Column: "H", Row: 3, Value: 62},
	})
	require.NoError(t, err)

	require.Equal(t, 1, f.batchCalled)
	assert.Equal(t, "USER_ENTERED", f.batch["valueInputOption"])

	data, ok := f.batch["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 2)

	first := data[0].(map[string]any)
	assert.Equal(t, "'My ''Log'''!G3", first["range"])
	assert.Equal(t, []any{[]any{"Morning Run"}}, first["values"])

	second := data[1].(map[string]any)
	assert.Equal(t, "'My ''Log'''!H3", second["range"])
	assert.Equal(t, []any{[]any{float64(62)}}, second["values"])
}

func TestBatchUpdate_DefaultsToRaw(t *testing.T) {
	f := &fakeSheets{}
	client := newClient(t, f, "")

	require.NoError(t, client.BatchUpdate(context.Background(), "Tracker", []service.Cell{{Column: "G", Row: 1, Value: "x"}}))
	assert.Equal(t, "RAW", f.batch["valueInputOption"])
}

func TestBatchUpdate_NoCells(t *testing.T) {
	f := &fakeSheets{}
	client := newClient(t, f, "")

	require.NoError(t, client.BatchUpdate(context.Background(), "Tracker", nil))
	assert.Zero(t, f.batchCalled)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusForbidden, service.ErrUnauthorized},
		{http.StatusUnauthorized, service.ErrUnauthorized},
		{http.StatusNotFound, service.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			f := &fakeSheets{status: tt.status}
			client := newClient(t, f, "")

			_, err := client.Column(context.Background(), "Tracker", "B")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestA1(t *testing.T) {
	assert.Equal(t, "'Tracker'!B:B", googlesheets.A1("Tracker", "B:B"))
	assert.Equal(t, "'Bob''s runs'!G7", googlesheets.A1("Bob's runs", "G7"))
}

func TestNew_MissingSheetID(t *testing.T) {
	cfg, _ := config.New(t.TempDir())

	_, err := googlesheets.New(context.Background(), cfg)
	assert.ErrorIs(t, err, config.ErrMissingEnv)
}

func TestNew_MissingCredentials(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, _ := config.New(t.TempDir())
	cfg.SpreadsheetID = spreadsheetID

	_, err := googlesheets.New(context.Background(), cfg)
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "credentials.json not found")
}

func TestNew_InvalidCredentials(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.CredentialsFile), []byte(`{"type":"authorized_user"}`), 0600))

	cfg, _ := config.New(t.TempDir())
	cfg.SpreadsheetID = spreadsheetID

	_, err := googlesheets.New(context.Background(), cfg)
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
