package query

import (
	"context"
	"fmt"

	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
)

// AlterTableBuilder collects ALTER TABLE actions. Each action compiles to
// its own statement.
type AlterTableBuilder struct {
	*BaseBuilder

	actions []ast.AlterAction
}

func NewAlterTableBuilder(table string, d dialect.Dialect, executor Executor) *AlterTableBuilder {
	return &AlterTableBuilder{BaseBuilder: NewBaseBuilder(table, d, executor)}
}

func (ab *AlterTableBuilder) add(action ast.AlterAction) *AlterTableBuilder {
	ab.actions = append(ab.actions, action)
	return ab
}

func (ab *AlterTableBuilder) AddColumn(name string, scalar ast.ScalarType, opts ...ColumnOption) *AlterTableBuilder {
	return ab.add(ast.AddColumn{Column: columnDef(name, ast.ColumnType{Scalar: scalar}, opts)})
}

func (ab *AlterTableBuilder) AddRawColumn(name, typ string, opts ...ColumnOption) *AlterTableBuilder {
	return ab.add(ast.AddColumn{Column: columnDef(name, ast.ColumnType{Raw: typ}, opts)})
}

// AlterColumn redefines the type, nullability and default of a column.
func (ab *AlterTableBuilder) AlterColumn(name string, scalar ast.ScalarType, opts ...ColumnOption) *AlterTableBuilder {
	return ab.add(ast.AlterColumn{Column: columnDef(name, ast.ColumnType{Scalar: scalar}, opts)})
}

func (ab *AlterTableBuilder) AlterRawColumn(name, typ string, opts ...ColumnOption) *AlterTableBuilder {
	return ab.add(ast.AlterColumn{Column: columnDef(name, ast.ColumnType{Raw: typ}, opts)})
}

func (ab *AlterTableBuilder) RenameColumn(from, to string) *AlterTableBuilder {
	return ab.add(ast.RenameColumn{From: from, To: to})
}

func (ab *AlterTableBuilder) DropColumn(name string) *AlterTableBuilder {
	return ab.add(ast.DropColumn{Name: name})
}

// AddUnique adds a unique constraint. An empty name defaults to
// uq_<table>_<columns>, the name Unique gives it at create time.
func (ab *AlterTableBuilder) AddUnique(name string, columns ...string) *AlterTableBuilder {
	return ab.add(ast.AddUnique{Constraint: uniqueConstraint(ab.tableName, name, columns)})
}

func (ab *AlterTableBuilder) AddForeignKey(column string, opts ...ForeignKeyOption) *AlterTableBuilder {
	return ab.add(ast.AddForeignKey{Constraint: foreignKey(ab.tableName, column, opts)})
}

func (ab *AlterTableBuilder) DropConstraint(name string) *AlterTableBuilder {
	return ab.add(ast.DropConstraint{Name: name})
}

func (ab *AlterTableBuilder) RenameTable(to string) *AlterTableBuilder {
	return ab.add(ast.RenameTable{To: to})
}

// Raw appends an action rendered verbatim after "ALTER TABLE <table> ".
func (ab *AlterTableBuilder) Raw(sql string) *AlterTableBuilder {
	return ab.add(ast.RawAction{SQL: sql})
}

// Build compiles one statement per action, in order.
func (ab *AlterTableBuilder) Build() ([]*params.Query, error) {
	if err := ab.check(); err != nil {
		return nil, err
	}
	return ab.dialect.AlterTable(&ast.AlterTableStmt{
		Table:   ab.tableName,
		Actions: append([]ast.AlterAction(nil), ab.actions...),
	})
}

func (ab *AlterTableBuilder) ToRawSQL() ([]string, error) {
	queries, err := ab.Build()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(queries))
	for i, q := range queries {
		if out[i], err = ab.dialect.Features().Syntax.RawSQL(q, ab.dialect); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Execute runs the statements in order and stops at the first failure.
func (ab *AlterTableBuilder) Execute(ctx context.Context) error {
	queries, err := ab.Build()
	if err != nil {
		return err
	}
	if ab.executor == nil {
		return sqlerr.ErrNoExecutor
	}
	for i, q := range queries {
		res, err := ab.executor.Execute(ctx, q)
		if err != nil {
			return fmt.Errorf("alter table %s action %d: %w", ab.tableName, i+1, err)
		}
		_ = res.Close()
	}
	return nil
}
