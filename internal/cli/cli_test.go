package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/easybake/internal/config"
	"github.com/aretw0/easybake/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(t *testing.T, driver string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Store.Driver = driver
	cfg.Store.DataDir = filepath.Join(t.TempDir(), "data")
	cfg.Kitchen.Delays.Preheat = 0
	cfg.Kitchen.Delays.Mix = 0
	cfg.Kitchen.Delays.Bake = 0
	cfg.Kitchen.Delays.Cool = 0
	cfg.Kitchen.WashDelay = 0
	cfg.Runner.RetryDelay = 0
	return cfg
}

func TestOpenStore_Drivers(t *testing.T) {
	mr := miniredis.RunT(t)

	for _, driver := range []string{config.DriverMemory, config.DriverFile, config.DriverSQLite, config.DriverRedis} {
		t.Run(driver, func(t *testing.T) {
			cfg := fastConfig(t, driver)
			cfg.Store.Redis.Addr = mr.Addr()
			cfg.Store.Redis.Lock = true

			b, err := OpenStore(cfg)
			require.NoError(t, err)
			defer b.Close()

			ctx := context.Background()
			require.NoError(t, b.Store.Save(ctx, domain.Ingredients, domain.Ledger{"eggs": 1}))
			got, err := b.Store.Load(ctx, domain.Ingredients)
			require.NoError(t, err)
			assert.Equal(t, domain.Ledger{"eggs": 1}, got)

			if driver == config.DriverRedis {
				assert.NotNil(t, b.Locker)
			} else {
				assert.Nil(t, b.Locker)
			}
		})
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = "mongo"
	_, err := OpenStore(cfg)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestExecute_JSON(t *testing.T) {
	cfg := fastConfig(t, config.DriverFile)
	k, closeFn, err := NewKitchen(cfg, nil, domain.LifecycleHooks{})
	require.NoError(t, err)
	defer closeFn()

	var out bytes.Buffer
	rep, err := Execute(context.Background(), k, &out, RunOptions{JSON: true, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, "bake", rep.Decision)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, "success", decoded["status"])
	assert.Equal(t, "bake", decoded["decision"])

	stock, err := k.Stock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stock[domain.Ingredients].Total())
	assert.Equal(t, domain.Ledger{"pan": 1, "mixer": 1, "spoon": 1}, stock[domain.Cookware])
}

func TestExecute_Markdown(t *testing.T) {
	cfg := fastConfig(t, config.DriverMemory)
	k, closeFn, err := NewKitchen(cfg, nil, domain.LifecycleHooks{})
	require.NoError(t, err)
	defer closeFn()

	var out bytes.Buffer
	_, err = Execute(context.Background(), k, &out, RunOptions{Seed: 1})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "- **Decision:** bake")
	assert.Contains(t, out.String(), "## Pantry")
}

func TestExecute_FailedRunStillReports(t *testing.T) {
	cfg := fastConfig(t, config.DriverMemory)
	k, closeFn, err := NewKitchen(cfg, nil, domain.LifecycleHooks{})
	require.NoError(t, err)
	defer closeFn()

	var out bytes.Buffer
	rep, err := Execute(context.Background(), k, &out, RunOptions{Quiet: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.Contains(t, out.String(), rep.RunID+" failed")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, config.LogConfig{Level: "debug", Format: "json"})
	require.NoError(t, err)
	logger.Debug("hello", "error", "boom")
	assert.Contains(t, buf.String(), `"err":"boom"`)

	_, err = NewLogger(&buf, config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}
