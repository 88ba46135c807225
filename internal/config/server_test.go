package config

import (
	"testing"
	"time"
)

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/auction?sslmode=disable")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if !cfg.RunMigrations {
		t.Fatal("RunMigrations should default to true")
	}
	if cfg.BidRatePerSec != 5 || cfg.BidBurst != 3 {
		t.Fatalf("unexpected bid limits: %v/%d", cfg.BidRatePerSec, cfg.BidBurst)
	}
	if cfg.TradeSweepInterval != time.Minute {
		t.Fatalf("TradeSweepInterval = %v, want 1m", cfg.TradeSweepInterval)
	}
}

func TestLoadServerRequiresPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	_, err := LoadServer()
	if err == nil {
		t.Fatal("LoadServer() expected error, got nil")
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/auction?sslmode=disable")
	t.Setenv("BID_RATE_PER_SEC", "2.5")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("TRADE_SWEEP_INTERVAL", "15s")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.BidRatePerSec != 2.5 {
		t.Fatalf("BidRatePerSec = %v, want 2.5", cfg.BidRatePerSec)
	}
	if cfg.RunMigrations {
		t.Fatal("RunMigrations should be false")
	}
	if cfg.TradeSweepInterval != 15*time.Second {
		t.Fatalf("TradeSweepInterval = %v", cfg.TradeSweepInterval)
	}
}
