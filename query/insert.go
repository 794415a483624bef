package query

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/database"
	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
	"github.com/Sentience-Framework/sentience-v3-sub001/schema"
	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
)

type InsertBuilder struct {
	*BaseBuilder

	rows       []map[string]any
	onConflict *ast.OnConflict
	returning  []string
}

func NewInsertBuilder(table string, d dialect.Dialect, executor Executor) *InsertBuilder {
	return &InsertBuilder{BaseBuilder: NewBaseBuilder(table, d, executor)}
}

func (ib *InsertBuilder) current() map[string]any {
	if len(ib.rows) == 0 {
		ib.rows = append(ib.rows, map[string]any{})
	}
	return ib.rows[len(ib.rows)-1]
}

// Value sets one column of the current row.
func (ib *InsertBuilder) Value(column string, value any) *InsertBuilder {
	ib.current()[column] = value
	return ib
}

// Values merges values into the current row. Columns are emitted in sorted
// order.
func (ib *InsertBuilder) Values(values map[string]any) *InsertBuilder {
	maps.Copy(ib.current(), values)
	return ib
}

// AddRow starts a new row for a multi-row insert. Every row must set the
// same columns.
func (ib *InsertBuilder) AddRow(values map[string]any) *InsertBuilder {
	ib.rows = append(ib.rows, maps.Clone(values))
	return ib
}

// GenerateID sets column of the current row to a value of a registered
// schema generator such as "uuid" or "ulid".
func (ib *InsertBuilder) GenerateID(column, generator string) *InsertBuilder {
	id, err := schema.GenerateID(generator)
	if err != nil {
		ib.AddError(err)
		return ib
	}
	return ib.Value(column, id)
}

// OnConflictIgnore skips rows violating a uniqueness constraint on columns.
func (ib *InsertBuilder) OnConflictIgnore(columns ...string) *InsertBuilder {
	ib.onConflict = &ast.OnConflict{Columns: columns}
	return ib
}

// OnConflictUpdate updates the conflicting row. With no updates every
// inserted column except the conflict columns takes the incoming value.
// primaryKey names the key MySQL reports through LAST_INSERT_ID.
func (ib *InsertBuilder) OnConflictUpdate(columns []string, updates map[string]any, primaryKey string) *InsertBuilder {
	oc := &ast.OnConflict{Columns: columns, Update: true, PrimaryKey: primaryKey}
	for _, col := range slices.Sorted(maps.Keys(updates)) {
		oc.Updates = append(oc.Updates, ast.Assignment{Column: col, Value: updates[col]})
	}
	ib.onConflict = oc
	return ib
}

func (ib *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	ib.returning = append(ib.returning, columns...)
	return ib
}

func (ib *InsertBuilder) stmt() (*ast.InsertStmt, error) {
	stmt := &ast.InsertStmt{
		Table:     ib.tableName,
		Returning: append([]string(nil), ib.returning...),
	}
	if ib.onConflict != nil {
		oc := *ib.onConflict
		oc.Columns = append([]string(nil), oc.Columns...)
		oc.Updates = append([]ast.Assignment(nil), oc.Updates...)
		stmt.OnConflict = &oc
	}
	if len(ib.rows) == 0 {
		return stmt, nil
	}

	stmt.Columns = slices.Sorted(maps.Keys(ib.rows[0]))
	for i, row := range ib.rows {
		if len(row) != len(stmt.Columns) {
			return nil, fmt.Errorf("%w: row %d sets %d columns, expected %d", sqlerr.ErrInvalidQuery, i, len(row), len(stmt.Columns))
		}
		values := make([]any, len(stmt.Columns))
		for j, col := range stmt.Columns {
			v, ok := row[col]
			if !ok {
				return nil, fmt.Errorf("%w: row %d misses column %q", sqlerr.ErrInvalidQuery, i, col)
			}
			values[j] = v
		}
		stmt.Values = append(stmt.Values, values)
	}
	if len(stmt.Columns) == 0 {
		stmt.Values = nil
	}
	return stmt, nil
}

// Build compiles the statement. It never mutates the builder.
func (ib *InsertBuilder) Build() (*params.Query, error) {
	if err := ib.check(); err != nil {
		return nil, err
	}
	stmt, err := ib.stmt()
	if err != nil {
		return nil, err
	}
	return ib.dialect.Insert(stmt)
}

func (ib *InsertBuilder) ToRawSQL() (string, error) {
	return ib.rawSQL(ib.Build())
}

func (ib *InsertBuilder) Execute(ctx context.Context) (*database.Result, error) {
	q, err := ib.Build()
	return ib.execute(ctx, q, err)
}
