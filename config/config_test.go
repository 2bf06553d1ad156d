package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("METERS_CSV_PATH", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("SESSION_TTL_MINUTES", "")
	t.Setenv("MAP_ZOOM", "")

	cfg := Load()
	if cfg.CSVPath != "./data/Parking_Meters.csv" {
		t.Errorf("CSVPath: got %q", cfg.CSVPath)
	}
	if cfg.HTTPAddr != ":8501" {
		t.Errorf("HTTPAddr: got %q", cfg.HTTPAddr)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("SessionTTL: got %v, want 1h", cfg.SessionTTL)
	}
	if cfg.MapZoom != 11 {
		t.Errorf("MapZoom: got %v, want 11", cfg.MapZoom)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("METERS_CSV_PATH", "/tmp/meters.csv")
	t.Setenv("SESSION_TTL_MINUTES", "5")
	t.Setenv("MAP_ZOOM", "13.5")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("MAX_RETRIES", "not-a-number")

	cfg := Load()
	if cfg.CSVPath != "/tmp/meters.csv" {
		t.Errorf("CSVPath: got %q", cfg.CSVPath)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("SessionTTL: got %v", cfg.SessionTTL)
	}
	if cfg.MapZoom != 13.5 {
		t.Errorf("MapZoom: got %v", cfg.MapZoom)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("CORSOrigins: got %v", cfg.CORSOrigins)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries should fall back to 3, got %d", cfg.MaxRetries)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: "5432", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "d", PostgresSSLMode: "disable",
	}
	want := "host=db port=5432 user=u password=p dbname=d sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}
