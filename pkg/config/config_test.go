package config

import (
	"testing"
	"time"
)

func TestLoadReadsUpstreamBlocks(t *testing.T) {
	t.Setenv("PANELOPS_APP_ENV", "dev")
	t.Setenv("PANELOPS_APP_PORT", "8080")
	t.Setenv("PANELOPS_DB_DSN", "postgres://localhost/panelops")
	t.Setenv("PANELOPS_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PANELOPS_COMMERCE_BASE_URL", "http://commerce.internal")
	t.Setenv("PANELOPS_COMMERCE_TOKEN", "secret")
	t.Setenv("PANELOPS_EVENTS_BASE_URL", "http://events.internal")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.App.IsDev() {
		t.Fatal("expected dev env")
	}
	if cfg.Commerce.BaseURL != "http://commerce.internal" || cfg.Commerce.Token != "secret" {
		t.Fatalf("commerce upstream not parsed: %+v", cfg.Commerce)
	}
	if cfg.Commerce.Timeout != 15*time.Second {
		t.Fatalf("expected default upstream timeout, got %v", cfg.Commerce.Timeout)
	}
	if cfg.Cache.TTL != 5*time.Minute || !cfg.Cache.Enabled {
		t.Fatalf("unexpected cache defaults: %+v", cfg.Cache)
	}
}

func TestLoadFailsWithoutRequiredVars(t *testing.T) {
	t.Setenv("PANELOPS_APP_ENV", "")
	t.Setenv("PANELOPS_APP_PORT", "")
	t.Setenv("PANELOPS_DB_DSN", "")
	t.Setenv("PANELOPS_REDIS_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when required vars missing")
	}
}
