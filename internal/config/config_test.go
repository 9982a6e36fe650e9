package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "0.0.0.0:8082", cfg.HTTP.Addr())
	require.Equal(t, "postgres", cfg.DB.Driver)
	require.True(t, cfg.DB.AutoMigrate)
	require.Equal(t, 10, cfg.DB.MaxOpenConns)
	require.False(t, cfg.Redis.Enabled())
	require.Equal(t, 10*time.Minute, cfg.Redis.CacheTTL)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_FileWithEnvOverlay(t *testing.T) {
	path := writeConfig(t, `
env: prod
http:
  port: "9090"
db:
  driver: sqlite3
  url: file:users.db
redis:
  addr: localhost:6379
  cache_ttl: 1m
log:
  level: debug
`)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "9090", cfg.HTTP.Port)
	require.Equal(t, "sqlite3", cfg.DB.Driver)
	require.Equal(t, "file:users.db", cfg.DB.DatabaseURL)
	require.True(t, cfg.Redis.Enabled())
	require.Equal(t, time.Minute, cfg.Redis.CacheTTL)
	require.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_ConfigPathEnv(t *testing.T) {
	path := writeConfig(t, "env: staging\n")
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "staging", cfg.Env)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
