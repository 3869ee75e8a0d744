package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIS_DB", "")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("MAILGUN_DOMAIN", "")
	t.Setenv("MAILGUN_API_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Auth.AccessTTL() != 5*time.Minute {
		t.Errorf("expected 5m access ttl, got %s", cfg.Auth.AccessTTL())
	}
	if cfg.Auth.RefreshTTL() != 24*time.Hour {
		t.Errorf("expected 24h refresh ttl, got %s", cfg.Auth.RefreshTTL())
	}
	if cfg.Notification.MailgunEnabled() {
		t.Error("mailgun must be disabled without domain and key")
	}
	if cfg.Redis.KeyPrefix != "helpdesk" {
		t.Errorf("unexpected redis prefix %q", cfg.Redis.KeyPrefix)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("AUTH_BCRYPT_COST", "10")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("MAILGUN_DOMAIN", "mg.example.com")
	t.Setenv("MAILGUN_API_KEY", "key-123")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.App.Port != "9090" || cfg.App.RequestTimeout() != 0 {
		t.Errorf("unexpected app config %+v", cfg.App)
	}
	if cfg.Auth.BcryptCost != 10 || cfg.Postgres.RunMigrations {
		t.Errorf("unexpected overrides auth=%+v postgres=%+v", cfg.Auth, cfg.Postgres)
	}
	if !cfg.Notification.MailgunEnabled() {
		t.Error("mailgun must be enabled with domain and key")
	}
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "primary")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric REDIS_DB")
	}
}
