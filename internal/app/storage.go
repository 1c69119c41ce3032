package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"

	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/internal/session"
)

// OpenStore builds the session store for the configured driver. The returned
// close function releases backend clients; the Postgres handle is owned by
// the caller.
func OpenStore(ctx context.Context, cfg *coreconfig.Config, db *sqlx.DB) (session.Store, func() error, error) {
	noop := func() error { return nil }
	st := cfg.Storage

	var (
		store   session.Store
		closeFn = noop
	)
	switch st.Driver {
	case coreconfig.StorageMemory, "":
		store = session.NewMemoryStore()
	case coreconfig.StoragePostgres:
		if db == nil {
			return nil, nil, fmt.Errorf("app: postgres driver selected without a database handle")
		}
		store = session.NewPostgresStore(db)
	case coreconfig.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     st.Redis.Addr,
			Password: st.Redis.Password,
			DB:       st.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("app: redis ping %s: %w", st.Redis.Addr, err)
		}
		store = session.NewRedisStore(client, st.Redis.KeyPrefix, cfg.SessionTTL())
		closeFn = client.Close
	case coreconfig.StorageFirestore:
		client, err := session.OpenFirestore(ctx, st.Firestore)
		if err != nil {
			return nil, nil, fmt.Errorf("app: %w", err)
		}
		store = session.NewFirestoreStore(client, st.Firestore.Collection)
		closeFn = client.Close
	default:
		return nil, nil, fmt.Errorf("app: unknown storage driver %q", st.Driver)
	}

	logger.Info(ctx, logger.CompSession, "store.ready",
		slog.String("status", "ok"),
		slog.String("driver", st.Driver),
	)
	return store, closeFn, nil
}
