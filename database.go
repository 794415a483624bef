package sentience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sentience-Framework/sentience-v3-sub001/database"
	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
	"github.com/Sentience-Framework/sentience-v3-sub001/query"
)

// Database composes an adapter with its dialect. Builders obtained from it
// execute through it. Like the adapter, it is not safe for concurrent use.
type Database struct {
	adapter      database.Adapter
	queryTimeout time.Duration
}

// New wraps an already connected adapter.
func New(adapter database.Adapter) *Database {
	return &Database{adapter: adapter}
}

func (d *Database) Dialect() dialect.Dialect { return d.adapter.Dialect() }

// Adapter returns the underlying adapter.
func (d *Database) Adapter() database.Adapter { return d.adapter }

func (d *Database) Select(table any) *query.SelectBuilder {
	return query.NewSelectBuilder(table, d.Dialect(), d)
}

func (d *Database) Insert(table string) *query.InsertBuilder {
	return query.NewInsertBuilder(table, d.Dialect(), d)
}

func (d *Database) Update(table string) *query.UpdateBuilder {
	return query.NewUpdateBuilder(table, d.Dialect(), d)
}

func (d *Database) Delete(table string) *query.DeleteBuilder {
	return query.NewDeleteBuilder(table, d.Dialect(), d)
}

func (d *Database) CreateTable(table string) *query.CreateTableBuilder {
	return query.NewCreateTableBuilder(table, d.Dialect(), d)
}

func (d *Database) AlterTable(table string) *query.AlterTableBuilder {
	return query.NewAlterTableBuilder(table, d.Dialect(), d)
}

func (d *Database) DropTable(table string) *query.DropTableBuilder {
	return query.NewDropTableBuilder(table, d.Dialect(), d)
}

// Query runs sql without parameters.
func (d *Database) Query(ctx context.Context, sql string) (*database.Result, error) {
	return d.Execute(ctx, params.New(sql))
}

// Prepared runs sql with positional ? parameters.
func (d *Database) Prepared(ctx context.Context, sql string, args ...any) (*database.Result, error) {
	return d.Execute(ctx, params.New(sql, args...))
}

// PreparedNamed runs sql with :name parameters.
func (d *Database) PreparedNamed(ctx context.Context, sql string, named map[string]any) (*database.Result, error) {
	return d.Execute(ctx, params.NewNamed(sql, named))
}

// Execute runs a compiled query. The configured query timeout only bounds
// statements that return no rows, since cancelling the context would close
// an open cursor.
func (d *Database) Execute(ctx context.Context, q *params.Query) (*database.Result, error) {
	if !d.Dialect().Features().Syntax.ReturnsRows(q.SQL) {
		var cancel context.CancelFunc
		ctx, cancel = d.withTimeout(ctx)
		defer cancel()
	}
	return d.adapter.QueryWithParams(ctx, q)
}

// Exec runs a statement that takes no parameters, such as DDL, and returns
// the number of affected rows.
func (d *Database) Exec(ctx context.Context, sql string) (int64, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()
	return d.adapter.Exec(ctx, sql)
}

func (d *Database) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d.queryTimeout)
}

func (d *Database) BeginTransaction(ctx context.Context) (bool, error) {
	return d.adapter.BeginTransaction(ctx)
}

func (d *Database) CommitTransaction(ctx context.Context) (bool, error) {
	return d.adapter.CommitTransaction(ctx)
}

func (d *Database) RollbackTransaction(ctx context.Context) (bool, error) {
	return d.adapter.RollbackTransaction(ctx)
}

func (d *Database) InTransaction() bool { return d.adapter.InTransaction() }

// Transaction runs fn inside a transaction, committing when it returns nil.
// When fn fails or panics the transaction is rolled back and the failure is
// returned or re-panicked. Called inside an active transaction, fn joins it
// and the outer caller decides the outcome.
func (d *Database) Transaction(ctx context.Context, fn func(db *Database) error) (err error) {
	began, err := d.BeginTransaction(ctx)
	if err != nil {
		return err
	}
	if !began {
		return fn(d)
	}

	defer func() {
		if r := recover(); r != nil {
			_, _ = d.RollbackTransaction(context.WithoutCancel(ctx))
			panic(r)
		}
	}()

	if err := fn(d); err != nil {
		if _, rbErr := d.RollbackTransaction(context.WithoutCancel(ctx)); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if _, err := d.CommitTransaction(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LastInsertID returns the id generated by the last insert on this
// connection, or nil. sequence is only consulted by Postgres.
func (d *Database) LastInsertID(ctx context.Context, sequence string) (any, error) {
	return d.adapter.LastInsertID(ctx, sequence)
}

// Ping checks the connection when the adapter supports it.
func (d *Database) Ping(ctx context.Context) error {
	if p, ok := d.adapter.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (d *Database) Close() error { return d.adapter.Close() }

var _ query.Executor = (*Database)(nil)
