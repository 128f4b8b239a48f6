package database

import "testing"

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Host: "localhost", Port: "5432", User: "test", DBName: "test"}.withDefaults()

	if cfg.MaxOpenConns != 10 || cfg.MaxIdleConns != 5 {
		t.Errorf("unexpected pool defaults: open=%d idle=%d", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != 5 || cfg.ConnMaxIdleTime != 2 {
		t.Errorf("unexpected lifetime defaults: %d/%d", cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime)
	}
	if cfg.SSLMode != "disable" {
		t.Errorf("expected sslmode disable, got %s", cfg.SSLMode)
	}
}

func TestConfigIdleNeverExceedsOpen(t *testing.T) {
	cfg := Config{MaxOpenConns: 3, MaxIdleConns: 8}.withDefaults()
	if cfg.MaxIdleConns > cfg.MaxOpenConns {
		t.Errorf("MaxIdleConns (%d) should not exceed MaxOpenConns (%d)", cfg.MaxIdleConns, cfg.MaxOpenConns)
	}
}

func TestDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: "5433", User: "u", Password: "p", DBName: "tpa", SSLMode: "require"}
	expected := "host=db port=5433 user=u password=p dbname=tpa sslmode=require"
	if got := cfg.DSN(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}
