package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/easybake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// chdir changes the working directory for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := write(t, "easybake.yaml", `
recipe:
  ingredients:
    eggs: 3
  cookware:
    bowl: 1
  temperature: 400
store:
  driver: sqlite
  data_dir: /tmp/bake
kitchen:
  delays:
    preheat: 1s
    bake: 2m
  wash_delay: 0s
  strict_bake: true
runner:
  workers: 2
  retry_delay: 250ms
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, domain.Ledger{"eggs": 3}, cfg.Recipe.Ingredients)
	assert.Equal(t, domain.Ledger{"bowl": 1}, cfg.Recipe.Cookware)
	assert.Equal(t, 400, cfg.Recipe.Temperature)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/bake/easybake.db", cfg.SQLitePath())
	assert.Equal(t, time.Second, cfg.Kitchen.Delays.Preheat)
	assert.Equal(t, 2*time.Minute, cfg.Kitchen.Delays.Bake)
	assert.Equal(t, 5*time.Second, cfg.Kitchen.Delays.Mix)
	assert.Equal(t, time.Duration(0), cfg.Kitchen.WashDelay)
	assert.True(t, cfg.Kitchen.StrictBake)
	assert.Equal(t, 2, cfg.Runner.Workers)
	assert.Equal(t, 1, cfg.Runner.Retries)
	assert.Equal(t, 250*time.Millisecond, cfg.Runner.RetryDelay)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoad_JSON(t *testing.T) {
	path := write(t, "easybake.json", `{"store": {"driver": "redis", "redis": {"addr": "cache:6379", "db": 2, "lock": true}}, "server": {"addr": ":9090"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 2, cfg.Store.Redis.DB)
	assert.True(t, cfg.Store.Redis.Lock)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, domain.DefaultRecipe(), cfg.Recipe)
}

func TestLoad_DefaultFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("server:\n  addr: \":7070\"\n"), 0o644))
	chdir(t, dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(EnvStore, "memory")
	t.Setenv(EnvDataDir, "/var/lib/easybake")
	t.Setenv(EnvRedisAddr, "redis:6380")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, "/var/lib/easybake", cfg.Store.DataDir)
	assert.Equal(t, "redis:6380", cfg.Store.Redis.Addr)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		target  error
	}{
		{"unknown key", "a.yaml", "nope: 1\n", nil},
		{"unknown driver", "b.yaml", "store:\n  driver: mongo\n", ErrInvalidConfig},
		{"bad recipe", "c.yaml", "recipe:\n  temperature: 50\n", domain.ErrInvalidRecipe},
		{"no workers", "d.yaml", "runner:\n  workers: 0\n", ErrInvalidConfig},
		{"negative delay", "e.yaml", "kitchen:\n  delays:\n    bake: -1s\n", ErrInvalidConfig},
		{"bad duration", "f.yaml", "runner:\n  retry_delay: soon\n", nil},
		{"bad json", "g.json", "{", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(write(t, tt.file, tt.content))
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
