package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Duration formats.
const (
	DurationMinutes = "minutes"
	DurationClock   = "clock"
)

// Value input options accepted by the Sheets API.
const (
	ValueInputRaw         = "RAW"
	ValueInputUserEntered = "USER_ENTERED"
)

var columnRE = regexp.MustCompile(`^[A-Z]{1,3}$`)

// Layout describes the worksheet rows are matched in and the cells written.
type Layout struct {
	Worksheet      string `yaml:"worksheet"`
	DateColumn     string `yaml:"date_column"`
	NameColumn     string `yaml:"name_column"`
	DurationColumn string `yaml:"duration_column"`

	// DateFormat is a Go time layout matching the date cells as displayed.
	DateFormat string `yaml:"date_format"`

	// DurationFormat is "minutes" or "clock".
	DurationFormat string `yaml:"duration_format"`

	// ValueInput is "RAW" or "USER_ENTERED".
	ValueInput string `yaml:"value_input"`
}

// DefaultLayout returns the layout of the stock tracker sheet.
func DefaultLayout() Layout {
	return Layout{
		Worksheet:      "Tracker",
		DateColumn:     "B",
		NameColumn:     "G",
		DurationColumn: "H",
		DateFormat:     "Jan 02",
		DurationFormat: DurationMinutes,
		ValueInput:     ValueInputRaw,
	}
}

// LoadLayout overlays the layout file, if present, on c.Layout.
// Fields missing from the file keep their current values.
func (c *Config) LoadLayout() error {
	data, err := os.ReadFile(c.LayoutPath())
	if errors.Is(err, fs.ErrNotExist) {
		return c.Layout.Validate()
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", LayoutFile, err)
	}

	layout := c.Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return fmt.Errorf("invalid %s: %w", LayoutFile, err)
	}
	layout.normalize()

	if err := layout.Validate(); err != nil {
		return fmt.Errorf("invalid %s: %w", LayoutFile, err)
	}

	c.Layout = layout
	return nil
}

func (l *Layout) normalize() {
	l.Worksheet = strings.TrimSpace(l.Worksheet)
	l.DateColumn = strings.ToUpper(strings.TrimSpace(l.DateColumn))
	l.NameColumn = strings.ToUpper(strings.TrimSpace(l.NameColumn))
	l.DurationColumn = strings.ToUpper(strings.TrimSpace(l.DurationColumn))
	l.DurationFormat = strings.ToLower(strings.TrimSpace(l.DurationFormat))
	l.ValueInput = strings.ToUpper(strings.TrimSpace(l.ValueInput))
}

// Validate reports the first problem with the layout.
func (l Layout) Validate() error {
	if l.Worksheet == "" {
		return fmt.Errorf("worksheet is required")
	}

	columns := []struct{ name, value string }{
		{"date_column", l.DateColumn},
		{"name_column", l.NameColumn},
		{"duration_column", l.DurationColumn},
	}
	for _, col := range columns {
		if !columnRE.MatchString(col.value) {
			return fmt.Errorf("%s must be a column letter: %q", col.name, col.value)
		}
	}

	if l.NameColumn == l.DurationColumn {
		return fmt.Errorf("name_column and duration_column must differ")
	}

	if strings.TrimSpace(l.DateFormat) == "" {
		return fmt.Errorf("date_format is required")
	}

	switch l.DurationFormat {
	case DurationMinutes, DurationClock:
	default:
		return fmt.Errorf("duration_format must be %q or %q: %q", DurationMinutes, DurationClock, l.DurationFormat)
	}

	switch l.ValueInput {
	case ValueInputRaw, ValueInputUserEntered:
	default:
		return fmt.Errorf("value_input must be %q or %q: %q", ValueInputRaw, ValueInputUserEntered, l.ValueInput)
	}

	return nil
}
