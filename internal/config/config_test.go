package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stravasheet/internal/config"
)

var envKeys = []string{
	config.EnvClientID,
	config.EnvClientSecret,
	config.EnvRefreshToken,
	config.EnvSheetID,
	config.EnvActivityCount,
}

// clearEnv unsets the variables the config reads and restores them afterwards,
// including any that were set from a dotenv file during the test.
func clearEnv(t *testing.T) {
	t.Helper()
	saved := map[string]string{}
	for _, k := range envKeys {
		if v, ok := os.LookupEnv(k); ok {
			saved[k] = v
		}
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for _, k := range envKeys {
			os.Unsetenv(k)
			if v, ok := saved[k]; ok {
				os.Setenv(k, v)
			}
		}
	})
}

func TestNew_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.New(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Dir)
	assert.Equal(t, config.DefaultActivityCount, cfg.ActivityCount)
	assert.Equal(t, config.DefaultLayout(), cfg.Layout)
	assert.Equal(t, filepath.Join(dir, "token.json"), cfg.TokenPath())
	assert.Equal(t, "credentials.json", cfg.CredentialsPath())
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "stravasheet"), config.DefaultConfigDir())
}

func TestLoadEnv_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvClientID, "123")
	t.Setenv(config.EnvClientSecret, "secret")
	t.Setenv(config.EnvRefreshToken, "refresh")
	t.Setenv(config.EnvSheetID, "sheet-id")
	t.Setenv(config.EnvActivityCount, "10")

	cfg, _ := config.New(t.TempDir())
	require.NoError(t, cfg.LoadEnv(filepath.Join(t.TempDir(), "missing.env")))

	assert.Equal(t, config.Strava{ClientID: "123", ClientSecret: "secret", RefreshToken: "refresh"}, cfg.Strava)
	assert.Equal(t, "sheet-id", cfg.SpreadsheetID)
	assert.Equal(t, 10, cfg.ActivityCount)
	assert.NoError(t, cfg.RequireStrava())
	assert.NoError(t, cfg.RequireSheet())
}

func TestLoadEnv_DotenvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvSheetID, "from-env")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "STRAVA_CLIENT_ID=42\nSTRAVA_CLIENT_SECRET=s3cret\nGOOGLE_SHEET_ID=from-file\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0600))

	cfg, _ := config.New(t.TempDir())
	require.NoError(t, cfg.LoadEnv(envFile))

	assert.Equal(t, "42", cfg.Strava.ClientID)
	assert.Equal(t, "s3cret", cfg.Strava.ClientSecret)
	assert.Equal(t, "", cfg.Strava.RefreshToken)
	assert.Equal(t, "from-env", cfg.SpreadsheetID, "environment wins over dotenv file")
}

func TestLoadEnv_InvalidCount(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvActivityCount, "zero")

	cfg, _ := config.New(t.TempDir())
	assert.Error(t, cfg.LoadEnv(""))
}

func TestRequire_Missing(t *testing.T) {
	cfg, _ := config.New(t.TempDir())

	err := cfg.RequireStrava()
	require.ErrorIs(t, err, config.ErrMissingEnv)
	assert.Contains(t, err.Error(), config.EnvClientID)

	cfg.Strava.ClientID = "1"
	err = cfg.RequireStrava()
	require.ErrorIs(t, err, config.ErrMissingEnv)
	assert.Contains(t, err.Error(), config.EnvClientSecret)

	err = cfg.RequireSheet()
	require.ErrorIs(t, err, config.ErrMissingEnv)
	assert.Contains(t, err.Error(), config.EnvSheetID)
}

func TestTokenFile(t *testing.T) {
	cfg, _ := config.New(filepath.Join(t.TempDir(), "nested"))
	assert.False(t, cfg.HasToken())

	require.NoError(t, cfg.EnsureDir())
	require.NoError(t, os.WriteFile(cfg.TokenPath(), []byte("{}"), 0600))
	assert.True(t, cfg.HasToken())

	require.NoError(t, cfg.RemoveToken())
	assert.False(t, cfg.HasToken())
}
