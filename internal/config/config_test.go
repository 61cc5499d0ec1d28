package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api", cfg.Server.BaseURL)
	assert.Equal(t, 0.16, cfg.Store.TaxRate)
	assert.Equal(t, 100*time.Millisecond, cfg.ScannerIdleTimeout())
	assert.Equal(t, 4, cfg.Scanner.MinLength)
	require.NoError(t, cfg.Validate())
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  base_url: https://pos.example.com/api
  timeout: 3s
store:
  name: Sucursal Centro
  tax_rate: 0.08
scanner:
  idle_timeout: 250ms
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://pos.example.com/api", cfg.Server.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.ServerTimeout())
	assert.Equal(t, "Sucursal Centro", cfg.Store.Name)
	assert.Equal(t, 0.08, cfg.Store.TaxRate)
	assert.Equal(t, 250*time.Millisecond, cfg.ScannerIdleTimeout())
	// Unset sections keep defaults.
	assert.Equal(t, 4, cfg.Scanner.MinLength)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TILL_SERVER_URL", "http://10.0.0.5:8000/api")
	t.Setenv("TILL_TAX_RATE", "0.10")
	t.Setenv("TILL_LOG_LEVEL", "debug")
	t.Setenv("TILL_LOG_FILE", "lane3.log")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:8000/api", cfg.Server.BaseURL)
	assert.Equal(t, 0.10, cfg.Store.TaxRate)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "lane3.log", cfg.Logging.File)
}

func TestBadDurationFallsBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Timeout = "soon"
	cfg.Scanner.IdleTimeout = "-5ms"

	assert.Equal(t, 10*time.Second, cfg.ServerTimeout())
	assert.Equal(t, 100*time.Millisecond, cfg.ScannerIdleTimeout())
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.BaseURL = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Store.TaxRate = 1.5
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Scanner.MinLength = 0
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Store.Name = "Kiosko Norte"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Kiosko Norte", loaded.Store.Name)
}
