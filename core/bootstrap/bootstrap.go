// Package bootstrap initializes shared infrastructure before the app wires
// its own services: the logger and, when sessions live in Postgres, the
// database connection and schema.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
	coredatabase "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/database"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
)

// Options control the generic bootstrap pipeline.
type Options struct {
	Config *coreconfig.Config

	LoggerInit func(*coreconfig.Config) error
	Connect    func(context.Context, coreconfig.PostgresConfig) (*sqlx.DB, error)
	Migrate    func(context.Context, coreconfig.PostgresConfig) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
// DB is nil unless the storage driver is postgres.
type Result struct {
	DB *sqlx.DB
}

// Close releases the database connection, if any.
func (r *Result) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

// Run initializes the logger, then connects to the database and applies
// migrations when the postgres driver is selected.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	if opts.Config.Storage.Driver != coreconfig.StoragePostgres {
		return &Result{}, nil
	}
	pg := opts.Config.Storage.Postgres

	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
	}
	db, err := connect(ctx, pg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}

	migrate := opts.Migrate
	if migrate == nil {
		migrate = coredatabase.RunMigrations
	}
	if err := migrate(ctx, pg); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}

	return &Result{DB: db}, nil
}
