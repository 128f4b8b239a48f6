package config

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_NAME", "time_perception")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.TrendWindowDays != 30 {
		t.Errorf("expected default trend window 30, got %d", cfg.TrendWindowDays)
	}
	if cfg.InsightsCacheTTL != 30*time.Second {
		t.Errorf("expected default cache ttl 30s, got %s", cfg.InsightsCacheTTL)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"*"}) {
		t.Errorf("expected wildcard CORS origin, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.Database.SSLMode != "disable" {
		t.Errorf("expected sslmode disable, got %s", cfg.Database.SSLMode)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_NAME", "tpa")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("TREND_WINDOW_DAYS", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://app.example.com ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" || !cfg.LogJSON || cfg.TrendWindowDays != 7 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	expected := []string{"http://localhost:3000", "https://app.example.com"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, expected) {
		t.Errorf("expected %v, got %v", expected, cfg.CORSAllowedOrigins)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing database", func(t *testing.T) {
		t.Setenv("DB_NAME", "")
		if _, err := Load(); !errors.Is(err, ErrMissingDatabase) {
			t.Errorf("expected ErrMissingDatabase, got %v", err)
		}
	})

	t.Run("invalid window", func(t *testing.T) {
		t.Setenv("DB_NAME", "tpa")
		t.Setenv("TREND_WINDOW_DAYS", "abc")
		if _, err := Load(); err == nil {
			t.Error("expected error for non numeric window")
		}
	})

	t.Run("non positive window", func(t *testing.T) {
		t.Setenv("DB_NAME", "tpa")
		t.Setenv("TREND_WINDOW_DAYS", "0")
		if _, err := Load(); err == nil {
			t.Error("expected error for zero window")
		}
	})
}
