package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Sentience-Framework/sentience-v3-sub001/cache"
	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
)

// SQLAdapter implements Adapter over database/sql. It pins a single
// connection from the pool so that transactions, session state and
// last-insert-id reads all see the same session.
type SQLAdapter struct {
	db      *sql.DB
	conn    *sql.Conn
	tx      *sql.Tx
	dialect dialect.Dialect
	stmts   *cache.StatementCache
	opts    options
	ownsDB  bool
	open    map[*sqlRows]struct{}
}

// NewSQLAdapter pins a connection of db. Close releases the connection but
// leaves db open.
func NewSQLAdapter(ctx context.Context, db *sql.DB, d dialect.Dialect, opts ...Option) (*SQLAdapter, error) {
	o := newOptions(opts)

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, o.driverError("", err)
	}

	stmts, err := cache.NewStatementCache(o.cacheSize)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &SQLAdapter{
		db:      db,
		conn:    conn,
		dialect: d,
		stmts:   stmts,
		opts:    o,
		open:    make(map[*sqlRows]struct{}),
	}, nil
}

// OwnDB makes Close also close the underlying *sql.DB.
func (a *SQLAdapter) OwnDB() *SQLAdapter {
	a.ownsDB = true
	return a
}

func (a *SQLAdapter) Dialect() dialect.Dialect { return a.dialect }

// DB returns the underlying pool.
func (a *SQLAdapter) DB() *sql.DB { return a.db }

func (a *SQLAdapter) prepareSQL(s string) string {
	if a.opts.rebind {
		return a.dialect.Features().Syntax.Rebind(s, a.dialect.Placeholder)
	}
	return s
}

func (a *SQLAdapter) Exec(ctx context.Context, query string) (int64, error) {
	start := time.Now()
	affected, err := a.exec(ctx, query)
	a.opts.observe(params.New(query), a.dialect, start, err)
	return affected, err
}

func (a *SQLAdapter) exec(ctx context.Context, query string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if a.tx != nil {
		res, err = a.tx.ExecContext(ctx, query)
	} else {
		res, err = a.conn.ExecContext(ctx, query)
	}
	if err != nil {
		return 0, a.opts.driverError(query, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (a *SQLAdapter) QueryWithParams(ctx context.Context, q *params.Query) (*Result, error) {
	syntax := a.dialect.Features().Syntax
	pq, err := syntax.Positional(q)
	if err != nil {
		return nil, err
	}
	if err := syntax.Validate(pq); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := a.query(ctx, pq)
	a.opts.observe(pq, a.dialect, start, err)
	return res, err
}

func (a *SQLAdapter) query(ctx context.Context, q *params.Query) (*Result, error) {
	text := a.prepareSQL(q.SQL)

	args := make([]any, len(q.Args))
	for i, v := range q.Args {
		args[i] = a.dialect.CastToDriver(v)
	}

	stmt, err := a.stmts.GetOrPrepare(ctx, a.conn, text)
	if err != nil {
		return nil, a.opts.driverError(q.SQL, err)
	}
	if a.tx != nil {
		stmt = a.tx.StmtContext(ctx, stmt)
	}

	if a.dialect.Features().Syntax.ReturnsRows(q.SQL) {
		rows, err := stmt.QueryContext(ctx, args...)
		if err != nil {
			return nil, a.opts.driverError(q.SQL, err)
		}
		sr := &sqlRows{rows: rows, sql: q.SQL, opts: a.opts, owner: a}
		a.open[sr] = struct{}{}
		res, err := NewRowsResult(sr)
		if err != nil {
			return nil, a.opts.driverError(q.SQL, err)
		}
		return res, nil
	}

	res, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return nil, a.opts.driverError(q.SQL, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		n = 0
	}
	return NewExecResult(n), nil
}

func (a *SQLAdapter) BeginTransaction(ctx context.Context) (bool, error) {
	if a.tx != nil {
		return false, nil
	}
	tx, err := a.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, a.opts.driverError("BEGIN", err)
	}
	a.tx = tx
	return true, nil
}

func (a *SQLAdapter) CommitTransaction(ctx context.Context) (bool, error) {
	if a.tx == nil {
		return false, nil
	}
	tx := a.tx
	a.tx = nil
	if err := tx.Commit(); err != nil {
		return false, a.opts.driverError("COMMIT", err)
	}
	return true, nil
}

func (a *SQLAdapter) RollbackTransaction(ctx context.Context) (bool, error) {
	if a.tx == nil {
		return false, nil
	}
	tx := a.tx
	a.tx = nil
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return false, a.opts.driverError("ROLLBACK", err)
	}
	return true, nil
}

func (a *SQLAdapter) InTransaction() bool { return a.tx != nil }

// Ping checks the pinned connection is alive.
func (a *SQLAdapter) Ping(ctx context.Context) error {
	if err := a.conn.PingContext(ctx); err != nil {
		return a.opts.driverError("", err)
	}
	return nil
}

func (a *SQLAdapter) LastInsertID(ctx context.Context, sequence string) (any, error) {
	return lastInsertID(ctx, a, sequence)
}

// Close closes any cursor still open, rolls back an active transaction and
// releases the pinned connection. An open cursor holds the connection, so
// it has to go first.
func (a *SQLAdapter) Close() error {
	for r := range a.open {
		_ = r.Close()
	}
	if a.tx != nil {
		_ = a.tx.Rollback()
		a.tx = nil
	}
	_ = a.stmts.Close()
	err := a.conn.Close()
	if a.ownsDB {
		if derr := a.db.Close(); err == nil {
			err = derr
		}
	}
	if err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}
	return nil
}

// sqlRows adapts *sql.Rows and translates deferred driver errors.
type sqlRows struct {
	rows  *sql.Rows
	sql   string
	opts  options
	owner *SQLAdapter
}

func (r *sqlRows) Next() bool { return r.rows.Next() }

func (r *sqlRows) Scan(dest ...any) error { return r.rows.Scan(dest...) }

func (r *sqlRows) Close() error {
	delete(r.owner.open, r)
	return r.rows.Close()
}

func (r *sqlRows) Columns() ([]string, error) { return r.rows.Columns() }

func (r *sqlRows) Err() error {
	if err := r.rows.Err(); err != nil {
		return r.opts.driverError(r.sql, err)
	}
	return nil
}

var (
	_ Adapter = (*SQLAdapter)(nil)
	_ Rows    = (*sqlRows)(nil)
)
