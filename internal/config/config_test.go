package config

import (
	"log/slog"
	"testing"
	"time"
)

//nolint:paralleltest // mutates process env
func TestLoadAPI_Defaults(t *testing.T) {
	t.Setenv("PG_DSN", "postgres://u:p@localhost:5432/betledger?sslmode=disable")

	cfg, err := LoadAPI()
	if err != nil {
		t.Fatalf("LoadAPI: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr default: got %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel default: got %v", cfg.LogLevel)
	}
	if cfg.WinProbability != 0.5 {
		t.Fatalf("WinProbability default: got %v", cfg.WinProbability)
	}
	if cfg.CreditRetries != 3 {
		t.Fatalf("CreditRetries default: got %d", cfg.CreditRetries)
	}
	if cfg.GameCacheTTL != 30*time.Second {
		t.Fatalf("GameCacheTTL default: got %v", cfg.GameCacheTTL)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("KafkaBrokers default: got %v", cfg.KafkaBrokers)
	}
}

//nolint:paralleltest // mutates process env
func TestLoadAPI_MissingDSN(t *testing.T) {
	t.Setenv("PG_DSN", "")

	_, err := LoadAPI()
	if err == nil {
		t.Fatal("expected error for empty PG_DSN")
	}
}

//nolint:paralleltest // mutates process env
func TestLoadAPI_WinProbabilityBounds(t *testing.T) {
	t.Setenv("PG_DSN", "postgres://u:p@localhost:5432/betledger?sslmode=disable")
	t.Setenv("WIN_PROBABILITY", "1.5")

	_, err := LoadAPI()
	if err == nil {
		t.Fatal("expected error for WIN_PROBABILITY out of range")
	}
}

//nolint:paralleltest // mutates process env
func TestLoadAPI_KafkaBrokersList(t *testing.T) {
	t.Setenv("PG_DSN", "postgres://u:p@localhost:5432/betledger?sslmode=disable")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg, err := LoadAPI()
	if err != nil {
		t.Fatalf("LoadAPI: %v", err)
	}

	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "broker2:9092" {
		t.Fatalf("KafkaBrokers: got %v", cfg.KafkaBrokers)
	}
}
