// Package config loads runtime configuration from an optional YAML file
// overlaid with STOCKCHECK_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Storage drivers understood by the value store factory.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverRedis    = "redis"
	DriverFile     = "file"
)

// EnvPrefix namespaces environment overrides.
const EnvPrefix = "STOCKCHECK_"

// Config is the full runtime configuration.
type Config struct {
	// Catalog is a YAML catalog file. Empty means the built-in checklist.
	Catalog   string `mapstructure:"catalog" yaml:"catalog"`
	SkipToken string `mapstructure:"skip_token" yaml:"skip_token"`

	Log      LogConfig     `mapstructure:"log" yaml:"log"`
	Storage  StorageConfig `mapstructure:"storage" yaml:"storage"`
	Redis    RedisConfig   `mapstructure:"redis" yaml:"redis"`
	Sessions SessionConfig `mapstructure:"sessions" yaml:"sessions"`
	HTTP     HTTPConfig    `mapstructure:"http" yaml:"http"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	// Path is the sqlite database or JSON file location.
	Path string `mapstructure:"path" yaml:"path"`
	// DSN is used by the postgres and mysql drivers.
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
}

type SessionConfig struct {
	// Backend is "memory", "redis" or "file".
	Backend  string        `mapstructure:"backend" yaml:"backend"`
	Path     string        `mapstructure:"path" yaml:"path"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl"`
	Capacity int           `mapstructure:"capacity" yaml:"capacity"`
	Sweep    time.Duration `mapstructure:"sweep" yaml:"sweep"`
	// Lock enables Redis-backed distributed locking of conversations.
	Lock bool `mapstructure:"lock" yaml:"lock"`
}

type HTTPConfig struct {
	Addr    string `mapstructure:"addr" yaml:"addr"`
	Metrics bool   `mapstructure:"metrics" yaml:"metrics"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		SkipToken: "/skip",
		Log:       LogConfig{Level: "info"},
		Storage:   StorageConfig{Driver: DriverSQLite, Path: "stock.db"},
		Redis:     RedisConfig{Addr: "localhost:6379", Prefix: "stockcheck:"},
		Sessions: SessionConfig{
			Backend:  DriverMemory,
			TTL:      30 * time.Minute,
			Capacity: 1024,
			Sweep:    time.Minute,
		},
		HTTP: HTTPConfig{Addr: ":8080", Metrics: true},
	}
}

// envKeys maps environment variables to dotted config keys.
var envKeys = map[string]string{
	"CATALOG":           "catalog",
	"SKIP_TOKEN":        "skip_token",
	"LOG_LEVEL":         "log.level",
	"LOG_JSON":          "log.json",
	"STORAGE_DRIVER":    "storage.driver",
	"STORAGE_PATH":      "storage.path",
	"STORAGE_DSN":       "storage.dsn",
	"REDIS_ADDR":        "redis.addr",
	"REDIS_PASSWORD":    "redis.password",
	"REDIS_DB":          "redis.db",
	"REDIS_PREFIX":      "redis.prefix",
	"SESSIONS_BACKEND":  "sessions.backend",
	"SESSIONS_PATH":     "sessions.path",
	"SESSIONS_TTL":      "sessions.ttl",
	"SESSIONS_CAPACITY": "sessions.capacity",
	"SESSIONS_SWEEP":    "sessions.sweep",
	"SESSIONS_LOCK":     "sessions.lock",
	"HTTP_ADDR":         "http.addr",
	"HTTP_METRICS":      "http.metrics",
}

// Load builds the configuration: defaults, then the YAML file at path (if any),
// then environment overrides.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		raw := map[string]any{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
		if err := decode(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}

	env := map[string]any{}
	for suffix, key := range envKeys {
		if v, ok := lookup(EnvPrefix + suffix); ok {
			setPath(env, key, v)
		}
	}
	if err := decode(env, &cfg); err != nil {
		return Config{}, fmt.Errorf("environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// decode merges raw onto cfg. Keys absent from raw keep their current value.
func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

func setPath(m map[string]any, dotted, value string) {
	parts := strings.Split(dotted, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[p] = next
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
}

// Validate rejects configurations the factories cannot honour.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverRedis, DriverFile:
	case DriverPostgres, DriverMySQL:
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage driver %s requires storage.dsn", c.Storage.Driver)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Sessions.Backend {
	case DriverMemory, DriverRedis, DriverFile:
	default:
		return fmt.Errorf("unknown session backend %q", c.Sessions.Backend)
	}

	if c.Sessions.TTL < 0 {
		return fmt.Errorf("sessions.ttl must not be negative")
	}
	if c.Sessions.Capacity < 0 {
		return fmt.Errorf("sessions.capacity must not be negative")
	}
	if strings.TrimSpace(c.SkipToken) == "" {
		return fmt.Errorf("skip_token must not be blank")
	}
	return nil
}
