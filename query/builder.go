package query

import (
	"context"
	"fmt"

	"github.com/Sentience-Framework/sentience-v3-sub001/database"
	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
)

// Executor runs compiled statements. The root Database satisfies it.
type Executor interface {
	Dialect() dialect.Dialect
	Execute(ctx context.Context, q *params.Query) (*database.Result, error)
}

// BaseBuilder contains common functionality for all query builders
type BaseBuilder struct {
	tableName string
	dialect   dialect.Dialect
	executor  Executor
	errors    []error
}

// NewBaseBuilder creates a new base builder. A nil dialect falls back to
// the executor's dialect.
func NewBaseBuilder(tableName string, d dialect.Dialect, executor Executor) *BaseBuilder {
	if d == nil && executor != nil {
		d = executor.Dialect()
	}
	return &BaseBuilder{
		tableName: tableName,
		dialect:   d,
		executor:  executor,
	}
}

// TableName returns the table name
func (bb *BaseBuilder) TableName() string {
	return bb.tableName
}

// Dialect returns the dialect statements compile against
func (bb *BaseBuilder) Dialect() dialect.Dialect {
	return bb.dialect
}

// Executor returns the database executor
func (bb *BaseBuilder) Executor() Executor {
	return bb.executor
}

// AddError adds an error to the builder
func (bb *BaseBuilder) AddError(err error) {
	if err != nil {
		bb.errors = append(bb.errors, err)
	}
}

// HasErrors returns true if there are any errors
func (bb *BaseBuilder) HasErrors() bool {
	return len(bb.errors) > 0
}

// GetErrors returns all accumulated errors
func (bb *BaseBuilder) GetErrors() []error {
	return bb.errors
}

// GetFirstError returns the first error or nil
func (bb *BaseBuilder) GetFirstError() error {
	if len(bb.errors) > 0 {
		return bb.errors[0]
	}
	return nil
}

// check returns the error that prevents compilation, if any.
func (bb *BaseBuilder) check() error {
	if err := bb.GetFirstError(); err != nil {
		return err
	}
	if bb.dialect == nil {
		return fmt.Errorf("%w: no dialect", sqlerr.ErrInvalidQuery)
	}
	return nil
}

func (bb *BaseBuilder) execute(ctx context.Context, q *params.Query, err error) (*database.Result, error) {
	if err != nil {
		return nil, err
	}
	if bb.executor == nil {
		return nil, sqlerr.ErrNoExecutor
	}
	return bb.executor.Execute(ctx, q)
}

func (bb *BaseBuilder) rawSQL(q *params.Query, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return bb.dialect.Features().Syntax.RawSQL(q, bb.dialect)
}
