// Package database executes compiled queries against a live connection and
// exposes their results.
package database

import (
	"context"

	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
)

// Adapter owns one live connection. It is not safe for concurrent use.
//
// Transactions follow Idle -> Active -> Idle. Begin while Active is a no-op
// returning false; commit and rollback while Idle return false without
// touching the driver.
type Adapter interface {
	Exec(ctx context.Context, sql string) (int64, error)
	QueryWithParams(ctx context.Context, q *params.Query) (*Result, error)

	BeginTransaction(ctx context.Context) (bool, error)
	CommitTransaction(ctx context.Context) (bool, error)
	RollbackTransaction(ctx context.Context) (bool, error)
	InTransaction() bool

	// LastInsertID returns the last generated id, or nil when there is none.
	LastInsertID(ctx context.Context, sequence string) (any, error)

	Dialect() dialect.Dialect
	Close() error
}

// Rows is a forward-only driver cursor.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Columns() ([]string, error)
	Err() error
}

// lastInsertID runs the dialect's last-id statement through a.
func lastInsertID(ctx context.Context, a Adapter, sequence string) (any, error) {
	q, err := a.Dialect().LastInsertIDQuery(sequence)
	if err != nil {
		return nil, err
	}

	res, err := a.QueryWithParams(ctx, q)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	row, err := res.NextRow()
	if err != nil || row == nil || row.Len() == 0 {
		return nil, err
	}

	id := row.Values()[0]
	switch v := id.(type) {
	case int64:
		if v == 0 {
			return nil, nil
		}
	case uint64:
		if v == 0 {
			return nil, nil
		}
	case string:
		if v == "" || v == "0" {
			return nil, nil
		}
	}
	return id, nil
}
