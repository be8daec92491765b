package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	chdir(t, t.TempDir())

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Gateway.Listen, cfg.Gateway.Listen)
	assert.Equal(t, 24*time.Hour, cfg.Gateway.CacheMaxAge)
	assert.Equal(t, 150, cfg.UI.OverviewLength)
	assert.True(t, cfg.UsesGateway())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, t.TempDir())
	yaml := `
catalog:
  gateway_url: ""
tmdb:
  api_key: from-file
gateway:
  listen: ":8080"
  cache_max_age: 1h
  rate_limit:
    enabled: false
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	t.Setenv("MARQUEE_GATEWAY_LISTEN", ":9090")
	t.Setenv("TMDB_API_KEY", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Gateway.Listen)
	assert.Equal(t, time.Hour, cfg.Gateway.CacheMaxAge)
	assert.False(t, cfg.Gateway.RateLimit.Enabled)
	assert.Equal(t, "from-env", cfg.TMDB.APIKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.UsesGateway())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	chdir(t, t.TempDir())
	t.Setenv("TMDB_API_KEY", "")

	cfg := DefaultConfig()
	cfg.Catalog.GatewayURL = "https://movies.example"
	cfg.Gateway.CacheMaxAge = 2 * time.Hour
	path, err := saveConfig(cfg, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), path)

	loaded, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://movies.example", loaded.Catalog.GatewayURL)
	assert.Equal(t, 2*time.Hour, loaded.Gateway.CacheMaxAge)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("warning").String())
	assert.Equal(t, "INFO", parseLogLevel("nonsense").String())
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "marquee.log")
	logger, err := SetupLogger(&LoggingConfig{File: path, Level: "info", MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Info("hello", "k", "v")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
