package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "jsonl", cfg.Ledger.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Ledger.GetTTL())
	assert.Equal(t, 30*time.Minute, cfg.Prices.GetTTL())
	assert.Equal(t, 10*time.Second, cfg.Quotes.GetTimeout())
	assert.Equal(t, "@every 30m", cfg.Prices.Refresh)
}

func TestLoad_Layers(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "twfolio.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[ledger]
backend = "sqlite"
path = "ledger.db"

[prices]
sheet_url = "https://example.com/sheet.csv"
ttl = "10m"

[logging]
level = "debug"
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TWFOLIO_SERVER_ADDR=:8080\n"), 0o644))
	t.Setenv("TWFOLIO_LOG_LEVEL", "warn")
	t.Setenv("TWFOLIO_QUOTES_DISABLE", "true")
	t.Cleanup(func() { os.Unsetenv("TWFOLIO_SERVER_ADDR") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Ledger.Backend)
	assert.Equal(t, "ledger.db", cfg.Ledger.Path)
	assert.Equal(t, 10*time.Minute, cfg.Prices.GetTTL())
	assert.Equal(t, "https://example.com/sheet.csv", cfg.Prices.SheetURL)
	assert.Equal(t, "warn", cfg.Logging.Level, "environment wins over the file")
	assert.True(t, cfg.Quotes.Disable)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ledger\n"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)

	t.Setenv("TWFOLIO_LEDGER_BACKEND", "csv")
	_, err = Load("")
	assert.Error(t, err)

	cfg, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Nil(t, cfg)
	assert.Error(t, err, "backend is still invalid")
}
