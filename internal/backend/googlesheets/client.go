// Package googlesheets implements service.Sheet using the Google Sheets API.
package googlesheets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"stravasheet/internal/config"
	"stravasheet/internal/service"
)

// APITimeout is the timeout for API calls.
const APITimeout = 30 * time.Second

// Client implements service.Sheet for one spreadsheet.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	valueInput    string
}

// New creates a Sheets client authenticated with the service account key
// in credentials.json.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if err := cfg.RequireSheet(); err != nil {
		return nil, err
	}

	if !cfg.HasCredentials() {
		return nil, fmt.Errorf("%s not found: download a service account key and share the sheet with its email: %w",
			config.CredentialsFile, fs.ErrNotExist)
	}

	key, err := os.ReadFile(cfg.CredentialsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", config.CredentialsFile, err)
	}

	jwt, err := google.JWTConfigFromJSON(key, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", config.CredentialsFile, err)
	}

	return NewWithHTTPClient(ctx, jwt.Client(ctx), cfg.SpreadsheetID, cfg.Layout.ValueInput)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// Extra options are passed to the Sheets service, e.g. option.WithEndpoint.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, spreadsheetID, valueInput string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	if valueInput == "" {
		valueInput = config.ValueInputRaw
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		valueInput:    valueInput,
	}, nil
}

// Worksheet resolves a worksheet title (case-insensitive, trimmed).
func (c *Client) Worksheet(ctx context.Context, name string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	spreadsheet, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return "", wrapError(err)
	}

	want := strings.ToLower(strings.TrimSpace(name))
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties == nil {
			continue
		}
		if strings.ToLower(strings.TrimSpace(sheet.Properties.Title)) == want {
			return sheet.Properties.Title, nil
		}
	}

	return "", fmt.Errorf("worksheet %q: %w", name, service.ErrNotFound)
}

// Column returns the formatted values of column, from row 1 to the last non-empty row.
func (c *Client) Column(ctx context.Context, worksheet, column string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	response, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, A1(worksheet, column+":"+column)).
		MajorDimension("COLUMNS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapError(err)
	}

	if len(response.Values) == 0 {
		return []string{}, nil
	}

	values := make([]string, len(response.Values[0]))
	for i, v := range response.Values[0] {
		if v != nil {
			values[i] = fmt.Sprint(v)
		}
	}

	return values, nil
}

// BatchUpdate writes cells in a single values:batchUpdate request.
func (c *Client) BatchUpdate(ctx context.Context, worksheet string, cells []service.Cell) error {
	if len(cells) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	data := make([]*sheets.ValueRange, 0, len(cells))
	for _, cell := range cells {
		data = append(data, &sheets.ValueRange{
			Range:  A1(worksheet, fmt.Sprintf("%s%d", cell.Column, cell.Row)),
			Values: [][]any{{cell.Value}},
		})
	}

	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: c.valueInput,
		Data:             data,
	}

	if _, err := c.svc.Spreadsheets.Values.BatchUpdate(c.spreadsheetID, &rq).Context(ctx).Do(); err != nil {
		return wrapError(err)
	}

	return nil
}

// A1 builds an A1 range on a worksheet, quoting the title.
func A1(worksheet, area string) string {
	return fmt.Sprintf("'%s'!%s", strings.ReplaceAll(worksheet, "'", "''"), area)
}

// wrapError maps Sheets API status codes onto service errors.
func wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: %v", service.ErrUnauthorized, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", service.ErrNotFound, err)
		}
	}

	return err
}
