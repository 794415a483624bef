// Package postgres registers the PostgreSQL providers. "postgres" and "pgx"
// talk to the server through a native pgx connection, "postgres-sql"
// goes through database/sql via the pgx stdlib driver.
package postgres

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/Sentience-Framework/sentience-v3-sub001/connector"
	"github.com/Sentience-Framework/sentience-v3-sub001/database"
	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
)

type Provider struct {
	viaDatabaseSQL bool
}

func init() {
	connector.Register("postgres", &Provider{})
	connector.Register("pgx", &Provider{})
	connector.Register("postgres-sql", &Provider{viaDatabaseSQL: true})
}

func (p *Provider) Dialect() dialect.Dialect {
	return dialect.NewPostgres()
}

// DSN renders cfg as a postgres:// URL.
func DSN(cfg connector.Config) (string, error) {
	extra := map[string]string{"sslmode": cfg.SSLMode}
	if secs := int(cfg.ConnectTimeout.Seconds()); secs > 0 {
		extra["connect_timeout"] = strconv.Itoa(secs)
	}
	return cfg.URL("postgres", extra)
}

// ConnConfig parses cfg into a pgx connection config.
func ConnConfig(cfg connector.Config) (*pgx.ConnConfig, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	return pgx.ParseConfig(dsn)
}

func (p *Provider) Connect(ctx context.Context, cfg connector.Config, opts ...database.Option) (connector.Connection, error) {
	connCfg, err := ConnConfig(cfg)
	if err != nil {
		return nil, err
	}

	opts = append([]database.Option{database.WithErrorTranslator(database.TranslatePgError)}, opts...)

	if p.viaDatabaseSQL {
		db := stdlib.OpenDB(*connCfg)
		connector.ApplyPool(db, cfg.Pool)
		adapter, err := database.NewSQLAdapter(ctx, db, p.Dialect(), append(opts, database.WithRebind())...)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return adapter.OwnDB(), nil
	}

	conn, err := pgx.ConnectConfig(ctx, connCfg)
	if err != nil {
		return nil, err
	}
	return database.NewPgxAdapter(conn, p.Dialect(), opts...), nil
}
