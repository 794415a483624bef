// Package sentience is the entry point of the data layer: Open a Database
// from a connector.Config, build statements from it and run them.
package sentience

import (
	"context"
	"log/slog"

	"github.com/Sentience-Framework/sentience-v3-sub001/connector"
	"github.com/Sentience-Framework/sentience-v3-sub001/database"
)

type Config = connector.Config

// Open connects with the provider registered for cfg.Driver. Drivers
// register themselves; see drivers.go for the ones linked in by default.
func Open(ctx context.Context, cfg Config, opts ...database.Option) (*Database, error) {
	adapterOpts := append(connector.AdapterOptions(cfg, slog.Default()), opts...)
	conn, err := connector.Connect(ctx, cfg, adapterOpts...)
	if err != nil {
		return nil, err
	}

	db := New(conn)
	db.queryTimeout = cfg.QueryTimeout
	return db, nil
}

// OpenFile loads a YAML config from path and opens it.
func OpenFile(ctx context.Context, path string, opts ...database.Option) (*Database, error) {
	cfg, err := connector.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return Open(ctx, cfg, opts...)
}
