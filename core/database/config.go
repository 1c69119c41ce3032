package database

import (
	"fmt"
	"net/url"

	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
)

// DSN renders the lib/pq keyword/value connection string.
func DSN(cfg coreconfig.PostgresConfig) string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)
}

// MigrateURL renders the postgres:// URL expected by golang-migrate.
func MigrateURL(cfg coreconfig.PostgresConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + cfg.Port,
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {cfg.SSLMode}}.Encode(),
	}
	return u.String()
}
