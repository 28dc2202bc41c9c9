package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/recipebook/internal/ingredient"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "recipes.csv", cfg.Data)
	assert.False(t, cfg.Watch)
	assert.Equal(t, logger.LevelNormal, cfg.LogLevel())
	assert.Equal(t, ingredient.Strict, cfg.UnitPolicy())
	assert.False(t, cfg.Catalog.Dedupe)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "text", cfg.Export.Format)
	assert.Empty(t, cfg.Sessions.Dir)
	assert.Equal(t, 30*24*time.Hour, cfg.Sessions.Keep)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recipebook.yaml"), []byte(`
data: data/**/*.csv
watch: true
log:
  level: verbose
units:
  strict: false
catalog:
  dedupe: true
server:
  addr: 127.0.0.1:9000
sessions:
  dir: .sessions
  keep: 48h
`), 0o644))

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, "data/**/*.csv", cfg.Data)
	assert.True(t, cfg.Watch)
	assert.Equal(t, logger.LevelVerbose, cfg.LogLevel())
	assert.Equal(t, ingredient.Lenient, cfg.UnitPolicy())
	assert.True(t, cfg.Catalog.Dedupe)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, ".sessions", cfg.Sessions.Dir)
	assert.Equal(t, 48*time.Hour, cfg.Sessions.Keep)
}

func TestExplicitConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data: mine.csv\n"), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "mine.csv", cfg.Data)

	_, err = Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recipebook.yaml"), []byte("data: file.csv\n"), 0o644))
	t.Setenv("RECIPEBOOK_DATA", "env.csv")
	t.Setenv("RECIPEBOOK_LOG_LEVEL", "off")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "env.csv", cfg.Data)
	assert.Equal(t, logger.LevelOff, cfg.LogLevel())
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	// Registered so the value godotenv sets is removed after the test.
	t.Setenv("RECIPEBOOK_SERVER_ADDR", "")
	os.Unsetenv("RECIPEBOOK_SERVER_ADDR")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RECIPEBOOK_SERVER_ADDR=:7070\n"), 0o644))

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())

	v := New()
	v.Set("log.level", "chatty")
	_, err := Load(v, "")
	assert.ErrorContains(t, err, "unknown log level")

	v = New()
	v.Set("data", " ")
	_, err = Load(v, "")
	assert.ErrorContains(t, err, "data path is required")
}
