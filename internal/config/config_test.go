package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("BOT_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error without token")
	}
}

func TestLoadYAMLAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte("discord_token: from-file\nantispam:\n  threshold: 5\n  similarity: 0.8\nbanstats:\n  match_tolerance_seconds: 30\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("ANTISPAM_THRESHOLD", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DiscordToken != "from-file" {
		t.Fatalf("expected token from file, got %q", cfg.DiscordToken)
	}
	if cfg.Antispam.Threshold != 4 {
		t.Fatalf("expected env threshold 4, got %d", cfg.Antispam.Threshold)
	}
	if cfg.Antispam.Similarity != 0.8 {
		t.Fatalf("expected similarity 0.8, got %f", cfg.Antispam.Similarity)
	}
	if cfg.BanStats.MatchTolerance() != 30*time.Second {
		t.Fatalf("expected 30s tolerance, got %s", cfg.BanStats.MatchTolerance())
	}
	if cfg.Antispam.Window() != 5*time.Second {
		t.Fatalf("expected default 5s window, got %s", cfg.Antispam.Window())
	}
}

func TestNormalizeClampsInvalidValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Antispam.MuteDays = 90
	cfg.Antispam.Similarity = 1.5
	cfg.Tags.PageSize = 100
	normalize(&cfg)

	if cfg.Antispam.MuteDuration() != 28*24*time.Hour {
		t.Fatalf("expected 28 day mute, got %s", cfg.Antispam.MuteDuration())
	}
	if cfg.Antispam.Similarity != 0.9 {
		t.Fatalf("expected similarity reset to 0.9, got %f", cfg.Antispam.Similarity)
	}
	if cfg.Tags.PageSize != 25 {
		t.Fatalf("expected page size 25, got %d", cfg.Tags.PageSize)
	}
}
