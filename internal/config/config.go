package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// API holds the runtime configuration of the settlement API process.
type API struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	PostgresDSN string `env:"PG_DSN,required,notEmpty"`

	// Optional read-through cache for game limits. Disabled when empty.
	RedisAddr    string        `env:"REDIS_ADDR"`
	GameCacheTTL time.Duration `env:"GAME_CACHE_TTL" envDefault:"30s"`

	// Optional settled-bet event stream. Disabled when empty.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"bets.settled"`

	WinProbability float64       `env:"WIN_PROBABILITY" envDefault:"0.5"`
	CreditRetries  int           `env:"CREDIT_RETRIES" envDefault:"3"`
	CreditBackoff  time.Duration `env:"CREDIT_BACKOFF" envDefault:"100ms"`
}

// Migrator holds the configuration of the migrator process.
type Migrator struct {
	PostgresDSN string     `env:"PG_DSN,required,notEmpty"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv      string     `env:"APP_ENV" envDefault:""`
}

func LoadAPI() (API, error) {
	var cfg API

	err := env.Parse(&cfg)
	if err != nil {
		return API{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.WinProbability < 0 || cfg.WinProbability > 1 {
		return API{}, fmt.Errorf("WIN_PROBABILITY must be in [0,1], got %v", cfg.WinProbability)
	}

	return cfg, nil
}

func LoadMigrator() (Migrator, error) {
	var cfg Migrator

	err := env.Parse(&cfg)
	if err != nil {
		return Migrator{}, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
