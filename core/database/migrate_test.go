package database

import (
	"strings"
	"testing"

	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
)

func TestSelectApplied(t *testing.T) {
	files := []string{"0001_create_sessions.up.sql", "0002_add_index.up.sql", "0003_more.up.sql"}
	got := selectApplied(files, 1, 3)
	if len(got) != 2 || got[0] != "0002_add_index.up.sql" {
		t.Fatalf("applied = %v", got)
	}
	if got := selectApplied(files, 3, 3); len(got) != 0 {
		t.Fatalf("expected nothing applied, got %v", got)
	}
}

func TestMigrateURLEscapesCredentials(t *testing.T) {
	cfg := coreconfig.PostgresConfig{
		Host: "db", Port: "5432", User: "bot", Password: "p@ss/word", Name: "salon", SSLMode: "disable",
	}
	got := MigrateURL(cfg)
	if !strings.HasPrefix(got, "postgres://bot:p%40ss%2Fword@db:5432/salon") {
		t.Fatalf("url = %s", got)
	}
	if !strings.HasSuffix(got, "?sslmode=disable") {
		t.Fatalf("url = %s", got)
	}
	if !strings.Contains(DSN(cfg), "dbname=salon") {
		t.Fatalf("dsn = %s", DSN(cfg))
	}
}
