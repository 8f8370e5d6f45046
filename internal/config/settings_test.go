package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings("")
	require.NoError(t, err)

	assert.Equal(t, "info", s.Log.Level)
	assert.Equal(t, "text", s.Log.Format)
	assert.Equal(t, "file", s.Store.Driver)
	assert.Equal(t, "default", s.Store.Session)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.True(t, s.Server.Metrics)
	assert.Equal(t, 12, s.Calc.PeriodMonths)
	assert.NotEmpty(t, s.Store.Path)
}

func TestLoadSettings_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	doc := `log:
  level: debug
  format: json
server:
  addr: ":9090"
  metrics: false
calc:
  period_months: 3
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	t.Setenv("COMPARATRIB_SERVER_ADDR", "127.0.0.1:7000")

	s, err := LoadSettings(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "json", s.Log.Format)
	assert.False(t, s.Server.Metrics)
	assert.Equal(t, 3, s.Calc.PeriodMonths)
	assert.Equal(t, "127.0.0.1:7000", s.Server.Addr, "environment wins over the file")
}

func TestLoadSettings_Invalid(t *testing.T) {
	t.Setenv("COMPARATRIB_LOG_LEVEL", "verbose")
	_, err := LoadSettings("")
	assert.ErrorContains(t, err, "log.level")
}

func TestLoadSettings_PostgresNeedsDSN(t *testing.T) {
	t.Setenv("COMPARATRIB_STORE_DRIVER", "postgres")
	_, err := LoadSettings("")
	assert.ErrorContains(t, err, "store.dsn")

	t.Setenv("COMPARATRIB_STORE_DSN", "postgres://localhost/comparatrib")
	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", s.Store.Driver)
}

func TestLoadSettings_MissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read settings")
}
