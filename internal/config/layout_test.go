package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stravasheet/internal/config"
)

func TestLoadLayout_NoFile(t *testing.T) {
	cfg, _ := config.New(t.TempDir())
	require.NoError(t, cfg.LoadLayout())
	assert.Equal(t, config.DefaultLayout(), cfg.Layout)
}

func TestLoadLayout_PartialOverride(t *testing.T) {
	cfg, _ := config.New(t.TempDir())
	yaml := "worksheet: ' Log 2024 '\nname_column: d\nduration_column: e\nduration_format: Clock\nvalue_input: user_entered\n"
	require.NoError(t, os.WriteFile(cfg.LayoutPath(), []byte(yaml), 0600))

	require.NoError(t, cfg.LoadLayout())

	assert.Equal(t, config.Layout{
		Worksheet:      "Log 2024",
		DateColumn:     "B",
		NameColumn:     "D",
		DurationColumn: "E",
		DateFormat:     "Jan 02",
		DurationFormat: config.DurationClock,
		ValueInput:     config.ValueInputUserEntered,
	}, cfg.Layout)
}

func TestLoadLayout_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "worksheet: [unterminated"},
		{"empty worksheet", "worksheet: ''"},
		{"bad column", "date_column: '2'"},
		{"same target column", "name_column: H"},
		{"bad duration format", "duration_format: hours"},
		{"bad value input", "value_input: FORMULA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _ := config.New(t.TempDir())
			require.NoError(t, os.WriteFile(cfg.LayoutPath(), []byte(tt.yaml), 0600))

			err := cfg.LoadLayout()
			require.Error(t, err)
			assert.Equal(t, config.DefaultLayout(), cfg.Layout, "layout unchanged on error")
		})
	}
}
