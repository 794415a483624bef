package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
)

// pgxQuerier is the subset shared by *pgx.Conn and pgx.Tx.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgxAdapter implements Adapter over a native pgx connection. pgx prepares
// and caches statements itself.
type PgxAdapter struct {
	conn    *pgx.Conn
	tx      pgx.Tx
	dialect dialect.Dialect
	opts    options
}

// NewPgxAdapter wraps conn. Close closes it.
func NewPgxAdapter(conn *pgx.Conn, d dialect.Dialect, opts ...Option) *PgxAdapter {
	o := newOptions(opts)
	if o.translate == nil {
		o.translate = TranslatePgError
	}
	return &PgxAdapter{conn: conn, dialect: d, opts: o}
}

func (p *PgxAdapter) Dialect() dialect.Dialect { return p.dialect }

// Conn returns the underlying connection.
func (p *PgxAdapter) Conn() *pgx.Conn { return p.conn }

func (p *PgxAdapter) querier() pgxQuerier {
	if p.tx != nil {
		return p.tx
	}
	return p.conn
}

func (p *PgxAdapter) Exec(ctx context.Context, query string) (int64, error) {
	start := time.Now()
	tag, err := p.querier().Exec(ctx, query)
	if err != nil {
		err = p.opts.driverError(query, err)
	}
	p.opts.observe(params.New(query), p.dialect, start, err)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (p *PgxAdapter) QueryWithParams(ctx context.Context, q *params.Query) (*Result, error) {
	syntax := p.dialect.Features().Syntax
	pq, err := syntax.Positional(q)
	if err != nil {
		return nil, err
	}
	if err := syntax.Validate(pq); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := p.query(ctx, pq)
	p.opts.observe(pq, p.dialect, start, err)
	return res, err
}

func (p *PgxAdapter) query(ctx context.Context, q *params.Query) (*Result, error) {
	syntax := p.dialect.Features().Syntax
	text := syntax.Rebind(q.SQL, p.dialect.Placeholder)
	args := make([]any, len(q.Args))
	for i, v := range q.Args {
		args[i] = p.dialect.CastToDriver(v)
	}

	if syntax.ReturnsRows(q.SQL) {
		rows, err := p.querier().Query(ctx, text, args...)
		if err != nil {
			return nil, p.opts.driverError(q.SQL, err)
		}
		res, err := NewRowsResult(&PgxRows{rows: rows, sql: q.SQL, opts: p.opts})
		if err != nil {
			return nil, p.opts.driverError(q.SQL, err)
		}
		return res, nil
	}

	tag, err := p.querier().Exec(ctx, text, args...)
	if err != nil {
		return nil, p.opts.driverError(q.SQL, err)
	}
	return NewExecResult(tag.RowsAffected()), nil
}

func (p *PgxAdapter) BeginTransaction(ctx context.Context) (bool, error) {
	if p.tx != nil {
		return false, nil
	}
	tx, err := p.conn.Begin(ctx)
	if err != nil {
		return false, p.opts.driverError("BEGIN", err)
	}
	p.tx = tx
	return true, nil
}

func (p *PgxAdapter) CommitTransaction(ctx context.Context) (bool, error) {
	if p.tx == nil {
		return false, nil
	}
	tx := p.tx
	p.tx = nil
	if err := tx.Commit(ctx); err != nil {
		return false, p.opts.driverError("COMMIT", err)
	}
	return true, nil
}

func (p *PgxAdapter) RollbackTransaction(ctx context.Context) (bool, error) {
	if p.tx == nil {
		return false, nil
	}
	tx := p.tx
	p.tx = nil
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return false, p.opts.driverError("ROLLBACK", err)
	}
	return true, nil
}

func (p *PgxAdapter) InTransaction() bool { return p.tx != nil }

func (p *PgxAdapter) Ping(ctx context.Context) error {
	if err := p.conn.Ping(ctx); err != nil {
		return p.opts.driverError("", err)
	}
	return nil
}

func (p *PgxAdapter) LastInsertID(ctx context.Context, sequence string) (any, error) {
	return lastInsertID(ctx, p, sequence)
}

func (p *PgxAdapter) Close() error {
	ctx := context.Background()
	if p.tx != nil {
		_ = p.tx.Rollback(ctx)
		p.tx = nil
	}
	return p.conn.Close(ctx)
}

// PgxRows implements Rows for pgx.Rows.
type PgxRows struct {
	rows pgx.Rows
	sql  string
	opts options
}

func (r *PgxRows) Next() bool { return r.rows.Next() }

// Scan fills *any destinations with the decoded row values and defers to
// pgx for typed destinations.
func (r *PgxRows) Scan(dest ...any) error {
	for _, d := range dest {
		if _, ok := d.(*any); !ok {
			return r.rows.Scan(dest...)
		}
	}

	values, err := r.rows.Values()
	if err != nil {
		return err
	}
	for i, d := range dest {
		if i < len(values) {
			*(d.(*any)) = values[i]
		}
	}
	return nil
}

func (r *PgxRows) Close() error {
	r.rows.Close()
	return nil
}

func (r *PgxRows) Columns() ([]string, error) {
	fds := r.rows.FieldDescriptions()
	columns := make([]string, len(fds))
	for i, fd := range fds {
		columns[i] = fd.Name
	}
	return columns, nil
}

func (r *PgxRows) Err() error {
	if err := r.rows.Err(); err != nil {
		return r.opts.driverError(r.sql, err)
	}
	return nil
}

// TranslatePgError converts a PostgreSQL server error into a DriverError
// carrying its SQLSTATE code.
func TranslatePgError(err error) *sqlerr.DriverError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	msg := pgErr.Message
	if pgErr.Detail != "" {
		msg += ": " + pgErr.Detail
	}
	return &sqlerr.DriverError{Message: msg, Code: pgErr.Code, Err: err}
}

var (
	_ Adapter = (*PgxAdapter)(nil)
	_ Rows    = (*PgxRows)(nil)
)
