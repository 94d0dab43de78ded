// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/lumina-learn/lumina/internal/llm"
)

// Prefix is prepended to every variable name.
const Prefix = "LUMINA_"

// Persistence backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config is the full runtime configuration.
type Config struct {
	// DB is the SQLite path. Empty means the default under the data dir.
	DB           string `env:"DB"`
	StoreBackend string `env:"STORE_BACKEND" envDefault:"sqlite"`

	Redis RedisConfig `envPrefix:"REDIS_"`
	Log   LogConfig   `envPrefix:"LOG_"`

	HTTPAddr     string        `env:"HTTP_ADDR" envDefault:":8080"`
	RefreshDelay time.Duration `env:"REFRESH_DELAY" envDefault:"100ms"`

	LLM llm.Config `envPrefix:"LLM_"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
	Prefix   string `env:"PREFIX" envDefault:"lumina:"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"console"`
	// File, when set, receives log output instead of stderr.
	File string `env:"FILE"`
}

// Load reads envFile when present, then parses the environment. Variables
// already set in the environment win over the file. An empty envFile means
// ".env".
func Load(envFile string) (Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envFile, err)
	}
	return Parse()
}

// Parse reads Config from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM, _ = llm.DiscoverConfig(cfg.LLM)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendSQLite, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("%sSTORE_BACKEND must be one of sqlite, redis, memory (got %q)", Prefix, c.StoreBackend)
	}
	if c.StoreBackend == BackendRedis && c.Redis.Addr == "" {
		return fmt.Errorf("%sREDIS_ADDR is required for the redis backend", Prefix)
	}
	if c.RefreshDelay < 0 {
		return fmt.Errorf("%sREFRESH_DELAY must not be negative", Prefix)
	}
	return c.LLM.Validate()
}
