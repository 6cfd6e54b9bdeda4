// Package config loads the easybake configuration from a YAML or JSON file and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/easybake/pkg/domain"
	"github.com/aretw0/easybake/pkg/kitchen"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is picked up from the working directory when no file is given.
const DefaultFile = "easybake.yaml"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// Environment overrides.
const (
	EnvStore     = "EASYBAKE_STORE"
	EnvDataDir   = "EASYBAKE_DATA_DIR"
	EnvRedisAddr = "EASYBAKE_REDIS_ADDR"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the complete easybake configuration.
type Config struct {
	Recipe  domain.Recipe `yaml:"recipe" mapstructure:"recipe"`
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	Kitchen KitchenConfig `yaml:"kitchen" mapstructure:"kitchen"`
	Runner  RunnerConfig  `yaml:"runner" mapstructure:"runner"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig selects and configures the ledger store.
type StoreConfig struct {
	Driver  string      `yaml:"driver" mapstructure:"driver"`
	DataDir string      `yaml:"data_dir" mapstructure:"data_dir"`
	SQLite  string      `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	Redis   RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig configures the redis store and its distributed lock.
type RedisConfig struct {
	Addr     string        `yaml:"addr" mapstructure:"addr"`
	Password string        `yaml:"password" mapstructure:"password"`
	DB       int           `yaml:"db" mapstructure:"db"`
	Prefix   string        `yaml:"prefix" mapstructure:"prefix"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Lock     bool          `yaml:"lock" mapstructure:"lock"`
}

// KitchenConfig holds the process step settings.
type KitchenConfig struct {
	Delays     kitchen.Delays `yaml:"delays" mapstructure:"delays"`
	WashDelay  time.Duration  `yaml:"wash_delay" mapstructure:"wash_delay"`
	StrictBake bool           `yaml:"strict_bake" mapstructure:"strict_bake"`
}

// RunnerConfig holds the executor policy.
type RunnerConfig struct {
	Workers    int           `yaml:"workers" mapstructure:"workers"`
	Retries    int           `yaml:"retries" mapstructure:"retries"`
	RetryDelay time.Duration `yaml:"retry_delay" mapstructure:"retry_delay"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Recipe: domain.DefaultRecipe(),
		Store: StoreConfig{
			Driver:  DriverFile,
			DataDir: ".easybake",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "easybake:ledger:",
			},
		},
		Kitchen: KitchenConfig{
			Delays:    kitchen.DefaultDelays(),
			WashDelay: 10 * time.Second,
		},
		Runner: RunnerConfig{
			Workers:    4,
			Retries:    1,
			RetryDelay: 5 * time.Second,
		},
		Server: ServerConfig{Addr: ":8080"},
		Log:    LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the file at path over the defaults and applies environment overrides.
// An empty path loads DefaultFile if it exists, and the defaults otherwise.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(path, data, &cfg); err != nil {
			return Config{}, err
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	var raw map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if raw == nil {
		return nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		// Maps such as recipe ingredients replace the defaults instead of merging into them.
		ZeroFields: true,
		Result:     cfg,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvStore); ok && v != "" {
		cfg.Store.Driver = v
	}
	if v, ok := os.LookupEnv(EnvDataDir); ok && v != "" {
		cfg.Store.DataDir = v
	}
	if v, ok := os.LookupEnv(EnvRedisAddr); ok && v != "" {
		cfg.Store.Redis.Addr = v
	}
}

// SQLitePath returns the database file, defaulting to easybake.db inside the data directory.
func (c Config) SQLitePath() string {
	if c.Store.SQLite != "" {
		return c.Store.SQLite
	}
	return filepath.Join(c.Store.DataDir, "easybake.db")
}

// Validate checks the whole configuration.
func (c Config) Validate() error {
	if err := c.Recipe.Validate(); err != nil {
		return err
	}
	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverRedis, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown store driver %q", ErrInvalidConfig, c.Store.Driver)
	}
	if c.Store.Driver == DriverFile && c.Store.DataDir == "" {
		return fmt.Errorf("%w: file store needs a data_dir", ErrInvalidConfig)
	}
	if c.Runner.Workers < 1 {
		return fmt.Errorf("%w: runner.workers must be at least 1", ErrInvalidConfig)
	}
	if c.Runner.Retries < 0 || c.Runner.RetryDelay < 0 {
		return fmt.Errorf("%w: runner retries and retry_delay must not be negative", ErrInvalidConfig)
	}
	d := c.Kitchen.Delays
	if d.Preheat < 0 || d.Mix < 0 || d.Bake < 0 || d.Cool < 0 || c.Kitchen.WashDelay < 0 {
		return fmt.Errorf("%w: kitchen delays must not be negative", ErrInvalidConfig)
	}
	return nil
}
