// File: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults fill in everything but the credentials", func(t *testing.T) {
		path := writeConfig(t, "bot:\n  token: \"tok\"\n  chat_id: 42\n")

		cfg, err := LoadConfig(path, false)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Database.Name != "stock_zones" {
			t.Errorf("Database.Name = %q", cfg.Database.Name)
		}
		if cfg.Market.DefaultSuffix != ".NS" {
			t.Errorf("DefaultSuffix = %q", cfg.Market.DefaultSuffix)
		}
		if cfg.Market.ApproachZone != 0.03 || cfg.Market.ApproachTrade != 0.02 {
			t.Errorf("thresholds = %v/%v", cfg.Market.ApproachZone, cfg.Market.ApproachTrade)
		}
		if len(cfg.Scheduler.SweepCrons) != 2 {
			t.Errorf("SweepCrons = %v, want the two default schedules", cfg.Scheduler.SweepCrons)
		}
		if cfg.Scheduler.MarketTZ != "Asia/Kolkata" {
			t.Errorf("MarketTZ = %q", cfg.Scheduler.MarketTZ)
		}
		if cfg.Redis.QuoteTTL != 3*time.Minute {
			t.Errorf("QuoteTTL = %v", cfg.Redis.QuoteTTL)
		}
	})

	t.Run("Environment variables override the file", func(t *testing.T) {
		path := writeConfig(t, "bot:\n  token: \"file-token\"\n  chat_id: 1\ndatabase:\n  uri: \"mongodb://file\"\n")
		t.Setenv("TELEGRAM_TOKEN", "env-token")
		t.Setenv("TELEGRAM_CHAT_ID", "99")
		t.Setenv("MONGODB_URI", "mongodb://env")

		cfg, err := LoadConfig(path, false)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Bot.Token != "env-token" {
			t.Errorf("Token = %q", cfg.Bot.Token)
		}
		if cfg.Bot.ChatID != 99 {
			t.Errorf("ChatID = %d", cfg.Bot.ChatID)
		}
		if cfg.Database.URI != "mongodb://env" {
			t.Errorf("URI = %q", cfg.Database.URI)
		}
	})

	t.Run("Validate rejects a missing token", func(t *testing.T) {
		path := writeConfig(t, "bot:\n  chat_id: 42\n")

		cfg, err := LoadConfig(path, false)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected an error for a missing token")
		}
	})

	t.Run("Validate rejects an invalid cron expression", func(t *testing.T) {
		path := writeConfig(t, "bot:\n  token: \"tok\"\n  chat_id: 42\nscheduler:\n  sweep_crons: [\"not a cron\"]\n")

		cfg, err := LoadConfig(path, false)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if err := cfg.Validate(); err == nil {
			t.Fatal("expected an error for a bad cron expression")
		}
	})

	t.Run("Malformed TELEGRAM_CHAT_ID fails the load", func(t *testing.T) {
		path := writeConfig(t, "bot:\n  token: \"tok\"\n  chat_id: 42\n")
		t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")

		_, err := LoadConfig(path, false)
		if err == nil {
			t.Fatal("expected a parse error")
		}
		if !strings.Contains(err.Error(), "TELEGRAM_CHAT_ID") {
			t.Errorf("error should name the variable, got %v", err)
		}
	})

	t.Run("Load without credentials works for one-shot tools", func(t *testing.T) {
		path := writeConfig(t, "database:\n  uri: \"mongodb://db\"\n")

		cfg, err := LoadConfig(path, true)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Database.URI != "mongodb://db" {
			t.Errorf("URI = %q", cfg.Database.URI)
		}
	})

	t.Run("Missing file falls back to env and defaults", func(t *testing.T) {
		t.Setenv("TELEGRAM_TOKEN", "env-token")
		t.Setenv("TELEGRAM_CHAT_ID", "7")

		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), true)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if !cfg.Runtime.Dev {
			t.Error("Runtime.Dev should carry the flag")
		}
		if cfg.Bot.ChatID != 7 {
			t.Errorf("ChatID = %d", cfg.Bot.ChatID)
		}
	})
}
