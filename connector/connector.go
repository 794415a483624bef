package connector

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/Sentience-Framework/sentience-v3-sub001/database"
	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
)

// Connection is an adapter bound to one live database session.
type Connection interface {
	database.Adapter
	Ping(ctx context.Context) error
}

// Provider opens connections for one driver family.
type Provider interface {
	Connect(ctx context.Context, config Config, opts ...database.Option) (Connection, error)
	Dialect() dialect.Dialect
}

// AdapterOptions translates the config into adapter options. Providers
// append their own error translator.
func AdapterOptions(config Config, logger *slog.Logger) []database.Option {
	var opts []database.Option
	if config.Debug {
		opts = append(opts, database.WithDebug(database.SlogDebugHook(logger)))
	}
	if config.StatementCache > 0 {
		opts = append(opts, database.WithStatementCacheSize(config.StatementCache))
	}
	return opts
}

// ApplyPool copies the pool limits onto db.
func ApplyPool(db *sql.DB, pool PoolConfig) {
	if pool.MaxIdle > 0 {
		db.SetMaxIdleConns(pool.MaxIdle)
	}
	if pool.MaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.MaxLifetime)
	}
	if pool.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(pool.MaxIdleTime)
	}
}
