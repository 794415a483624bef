package query

import (
	"context"
	"maps"
	"slices"

	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/database"
	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
)

type UpdateBuilder struct {
	*BaseBuilder
	Conditions[*UpdateBuilder]

	set       []ast.Assignment
	returning []string
}

func NewUpdateBuilder(table string, d dialect.Dialect, executor Executor) *UpdateBuilder {
	ub := &UpdateBuilder{BaseBuilder: NewBaseBuilder(table, d, executor)}
	ub.Conditions = newConditions(ub, ub.BaseBuilder)
	return ub
}

// Set assigns column. Setting the same column twice keeps the last value.
// ast.Raw values are inlined, e.g. ast.RawSQL("count + ?", 1).
func (ub *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	for i := range ub.set {
		if ub.set[i].Column == column {
			ub.set[i].Value = value
			return ub
		}
	}
	ub.set = append(ub.set, ast.Assignment{Column: column, Value: value})
	return ub
}

// Values assigns every entry of values in sorted column order.
func (ub *UpdateBuilder) Values(values map[string]any) *UpdateBuilder {
	for _, col := range slices.Sorted(maps.Keys(values)) {
		ub.Set(col, values[col])
	}
	return ub
}

func (ub *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	ub.returning = append(ub.returning, columns...)
	return ub
}

// Build compiles the statement. It never mutates the builder.
func (ub *UpdateBuilder) Build() (*params.Query, error) {
	if err := ub.check(); err != nil {
		return nil, err
	}
	return ub.dialect.Update(&ast.UpdateStmt{
		Table:     ub.tableName,
		Set:       append([]ast.Assignment(nil), ub.set...),
		Where:     ub.group.Clone(),
		Returning: append([]string(nil), ub.returning...),
	})
}

func (ub *UpdateBuilder) ToRawSQL() (string, error) {
	return ub.rawSQL(ub.Build())
}

func (ub *UpdateBuilder) Execute(ctx context.Context) (*database.Result, error) {
	q, err := ub.Build()
	return ub.execute(ctx, q, err)
}
