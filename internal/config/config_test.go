package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load honours so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "RENDER", "PORT",
		"QUIRE_DATABASE_URL", "QUIRE_RENDER", "QUIRE_SERVER_PORT", "QUIRE_SERVER_HOST",
		"QUIRE_SERVER_ALLOWED_ORIGINS", "QUIRE_LOG_LEVEL", "QUIRE_LOG_FORMAT",
		"QUIRE_STORE_VERSIONING", "QUIRE_STORE_READ_ONLY",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite:///notes.db", cfg.ResolvedDatabaseURL())
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:5000", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Store.AutoInit)
	assert.False(t, cfg.Store.Versioning)
	assert.Equal(t, ".quire", cfg.Store.SystemDir)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())
}

func TestLoad_OriginalEnvironmentKeys(t *testing.T) {
	clearEnv(t)
	t.Setenv("RENDER", "true")
	t.Setenv("PORT", "8080")

	cfg, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite:////tmp/notes.db", cfg.ResolvedDatabaseURL())
	assert.Equal(t, 8080, cfg.Server.Port)

	t.Setenv("DATABASE_URL", "redis://cache:6379/1")
	cfg, err = Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "redis://cache:6379/1", cfg.ResolvedDatabaseURL(), "explicit URL wins over RENDER")
}

func TestLoad_PrefixedEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUIRE_SERVER_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("QUIRE_LOG_LEVEL", "debug")
	t.Setenv("QUIRE_STORE_VERSIONING", "true")

	cfg, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
	assert.True(t, cfg.Store.Versioning)
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "quire.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database_url: file:///srv/notes
server:
  port: 9000
  read_timeout: 2s
log:
  format: json
`), 0644))

	cfg, err := Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "file:///srv/notes", cfg.ResolvedDatabaseURL())
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "json", cfg.Log.Format)

	t.Setenv("PORT", "9100")
	cfg, err = Load(path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port, "environment overrides the file")
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("QUIRE_LOG_FORMAT")
	t.Cleanup(func() { os.Unsetenv("QUIRE_LOG_FORMAT") })

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("QUIRE_LOG_FORMAT=json\n"), 0644))

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	missingEnv := filepath.Join(t.TempDir(), "missing.env")

	t.Run("explicit config file missing", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), missingEnv)
		assert.Error(t, err)
	})

	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("PORT", "70000")
		_, err := Load("", missingEnv)
		assert.ErrorContains(t, err, "server.port")
	})

	t.Run("bad log level", func(t *testing.T) {
		t.Setenv("QUIRE_LOG_LEVEL", "loud")
		_, err := Load("", missingEnv)
		assert.ErrorContains(t, err, "log.level")
	})

	t.Run("bad log format", func(t *testing.T) {
		t.Setenv("QUIRE_LOG_FORMAT", "xml")
		_, err := Load("", missingEnv)
		assert.ErrorContains(t, err, "log.format")
	})
}
