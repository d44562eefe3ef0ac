// Package config handles the configuration directory, environment and sheet layout.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "stravasheet"

	// CredentialsFile is the Google service account key, resolved against the working directory.
	CredentialsFile = "credentials.json"

	// TokenFile is the Strava token stored by the login command.
	TokenFile = "token.json"

	// LayoutFile is the optional sheet layout override.
	LayoutFile = "layout.yaml"

	// DefaultEnvFile is the dotenv file read from the working directory.
	DefaultEnvFile = ".env"

	// DefaultActivityCount is the number of activities fetched when nothing else is set.
	DefaultActivityCount = 5
)

// Environment variable names.
const (
	EnvClientID      = "STRAVA_CLIENT_ID"
	EnvClientSecret  = "STRAVA_CLIENT_SECRET"
	EnvRefreshToken  = "STRAVA_REFRESH_TOKEN"
	EnvSheetID       = "GOOGLE_SHEET_ID"
	EnvActivityCount = "STRAVA_ACTIVITY_COUNT"
)

// ErrMissingEnv is returned when a required environment variable is not set.
var ErrMissingEnv = errors.New("missing environment variable")

// Strava holds the Strava API application credentials.
type Strava struct {
	ClientID     string
	ClientSecret string

	// RefreshToken may be empty, in which case the token file is used.
	RefreshToken string
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	Strava        Strava
	SpreadsheetID string

	// ActivityCount is the default number of activities to fetch.
	ActivityCount int

	// Layout describes where activities are written in the worksheet.
	Layout Layout
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/stravasheet or $HOME/.config/stravasheet.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:           dir,
		ActivityCount: DefaultActivityCount,
		Layout:        DefaultLayout(),
	}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// LoadEnv reads envFile (if it exists) into the process environment and then
// copies the relevant variables into c. Variables already set in the
// environment take precedence over the file.
func (c *Config) LoadEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	c.Strava = Strava{
		ClientID:     strings.TrimSpace(os.Getenv(EnvClientID)),
		ClientSecret: strings.TrimSpace(os.Getenv(EnvClientSecret)),
		RefreshToken: strings.TrimSpace(os.Getenv(EnvRefreshToken)),
	}
	c.SpreadsheetID = strings.TrimSpace(os.Getenv(EnvSheetID))

	if v, ok := os.LookupEnv(EnvActivityCount); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 1 {
			return fmt.Errorf("invalid %s: %q", EnvActivityCount, v)
		}
		c.ActivityCount = n
	}

	return nil
}

// RequireStrava checks that the Strava client credentials are present.
func (c *Config) RequireStrava() error {
	if c.Strava.ClientID == "" {
		return fmt.Errorf("%w: %s", ErrMissingEnv, EnvClientID)
	}
	if c.Strava.ClientSecret == "" {
		return fmt.Errorf("%w: %s", ErrMissingEnv, EnvClientSecret)
	}
	return nil
}

// RequireSheet checks that the spreadsheet ID is present.
func (c *Config) RequireSheet() error {
	if c.SpreadsheetID == "" {
		return fmt.Errorf("%w: %s", ErrMissingEnv, EnvSheetID)
	}
	return nil
}

// CredentialsPath returns the path to the service account key file.
func (c *Config) CredentialsPath() string {
	return CredentialsFile
}

// TokenPath returns the path to the stored Strava token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// LayoutPath returns the path to the optional layout file.
func (c *Config) LayoutPath() string {
	return filepath.Join(c.Dir, LayoutFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasCredentials checks if the service account key file exists.
func (c *Config) HasCredentials() bool {
	_, err := os.Stat(c.CredentialsPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
