package config

import "testing"

func TestLoadBotRequiresTeam(t *testing.T) {
	t.Setenv("AUCTION_ID", "auc-1")
	if _, err := LoadBot(); err == nil {
		t.Fatal("LoadBot() expected error without TEAM_ID")
	}
}

func TestLoadBotOverrides(t *testing.T) {
	t.Setenv("WS_URL", "ws://127.0.0.1:9000/ws")
	t.Setenv("AUCTION_ID", "auc-1")
	t.Setenv("TEAM_ID", "team-a")
	t.Setenv("BOT_MAX_PRICE", "250000")

	cfg, err := LoadBot()
	if err != nil {
		t.Fatalf("LoadBot() error = %v", err)
	}
	if cfg.WSURL != "ws://127.0.0.1:9000/ws" || cfg.TeamID != "team-a" {
		t.Fatalf("unexpected bot config: %+v", cfg)
	}
	if cfg.MaxPrice != 250000 {
		t.Fatalf("MaxPrice = %d, want 250000", cfg.MaxPrice)
	}
}
