package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		WhatsApp: WhatsAppConfig{
			AccessToken:   "token",
			PhoneNumberID: "12345",
			VerifyToken:   "verify",
		},
		Booking: BookingConfig{
			BaseURL:   "https://api.example.com/v1/",
			VenueID:   101539,
			AuthToken: "secret",
		},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Webhook.Port != 3000 {
		t.Fatalf("port = %d, want 3000", cfg.Webhook.Port)
	}
	if cfg.Webhook.Path != "/webhook" {
		t.Fatalf("path = %q", cfg.Webhook.Path)
	}
	if cfg.Booking.BaseURL != "https://api.example.com/v1" {
		t.Fatalf("base url not trimmed: %q", cfg.Booking.BaseURL)
	}
	if cfg.SessionTTL() != 30*time.Minute {
		t.Fatalf("ttl = %s", cfg.SessionTTL())
	}
	if cfg.Storage.Driver != StorageMemory {
		t.Fatalf("driver = %q", cfg.Storage.Driver)
	}
	if cfg.WhatsApp.APIVersion == "" || cfg.WhatsApp.BaseURL == "" {
		t.Fatal("expected graph api defaults")
	}
	if cfg.ListenAddr() != ":3000" {
		t.Fatalf("listen = %q", cfg.ListenAddr())
	}
}

func TestNormalizeRequiresCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.WhatsApp.VerifyToken = " "
	if err := Normalize(cfg); err == nil || !strings.Contains(err.Error(), "verify_token") {
		t.Fatalf("expected verify_token error, got %v", err)
	}

	cfg = validConfig()
	cfg.Booking.VenueID = 0
	if err := Normalize(cfg); err == nil || !strings.Contains(err.Error(), "venue_id") {
		t.Fatalf("expected venue_id error, got %v", err)
	}

	cfg = validConfig()
	cfg.Booking.BaseURL = "not a url"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected base_url error")
	}
}

func TestNormalizeStorageDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Storage.Driver = "PG"
	cfg.Storage.Postgres.Host = "localhost"
	cfg.Storage.Postgres.Name = "bot"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Storage.Driver != StoragePostgres {
		t.Fatalf("driver = %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Postgres.Port != "5432" || cfg.Storage.Postgres.MigrationsDir != "migrations" {
		t.Fatalf("postgres defaults not applied: %+v", cfg.Storage.Postgres)
	}

	cfg = validConfig()
	cfg.Storage.Driver = "redis"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected redis addr error")
	}

	cfg = validConfig()
	cfg.Storage.Driver = "mongo"
	if err := Normalize(cfg); err == nil || !strings.Contains(err.Error(), "storage.driver") {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func TestLoadOverlaysEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `
whatsapp:
  access_token: file-token
  phone_number_id: "111"
  verify_token: file-verify
booking:
  base_url: https://booking.example.com
  venue_id: 7
  auth_token: file-auth
session:
  expiration_minutes: 15
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("WHATSAPP_VERIFY_TOKEN", "env-verify")
	t.Setenv("SALON_ID", "101539")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WhatsApp.VerifyToken != "env-verify" {
		t.Fatalf("verify token = %q", cfg.WhatsApp.VerifyToken)
	}
	if cfg.WhatsApp.AccessToken != "file-token" {
		t.Fatalf("access token = %q", cfg.WhatsApp.AccessToken)
	}
	if cfg.Booking.VenueID != 101539 {
		t.Fatalf("venue id = %d", cfg.Booking.VenueID)
	}
	if cfg.SessionTTL() != 15*time.Minute {
		t.Fatalf("ttl = %s", cfg.SessionTTL())
	}
}
