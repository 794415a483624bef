package query

import (
	"context"
	"fmt"

	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/database"
	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
)

type SelectBuilder struct {
	*BaseBuilder
	Conditions[*SelectBuilder]

	from     ast.Fragment
	distinct bool
	columns  []ast.Fragment
	joins    []ast.JoinClause
	groupBy  []ast.Fragment
	having   *GroupBuilder
	orderBy  []ast.OrderBy
	limit    *int
	offset   *int
}

// NewSelectBuilder creates a SelectBuilder reading from table, which may be
// a name, "name AS alias" or a fragment.
func NewSelectBuilder(table any, d dialect.Dialect, executor Executor) *SelectBuilder {
	sb := &SelectBuilder{}
	from, err := ast.ParseFragment(table)
	name := ""
	if err == nil {
		name = ast.ReferenceName(from)
	}
	sb.BaseBuilder = NewBaseBuilder(name, d, executor)
	sb.Conditions = newConditions(sb, sb.BaseBuilder)
	sb.having = newGroupBuilder(sb.BaseBuilder)
	if err != nil {
		sb.AddError(fmt.Errorf("%w: %v", sqlerr.ErrInvalidQuery, err))
	}
	sb.from = from
	return sb
}

func (sb *SelectBuilder) fragments(values []any) []ast.Fragment {
	out := make([]ast.Fragment, 0, len(values))
	for _, v := range values {
		f, err := ast.ParseFragment(v)
		if err != nil {
			sb.AddError(fmt.Errorf("%w: %v", sqlerr.ErrInvalidQuery, err))
			continue
		}
		out = append(out, f)
	}
	return out
}

func (sb *SelectBuilder) Distinct() *SelectBuilder {
	sb.distinct = true
	return sb
}

// Columns appends select list entries: names, "t.col AS alias" strings,
// ast.Raw or ast.Aliased values. No columns selects *.
func (sb *SelectBuilder) Columns(columns ...any) *SelectBuilder {
	sb.columns = append(sb.columns, sb.fragments(columns)...)
	return sb
}

func (sb *SelectBuilder) join(kind ast.JoinKind, table any, column, sourceTable, sourceColumn string) *SelectBuilder {
	t, err := ast.ParseFragment(table)
	if err != nil {
		sb.AddError(fmt.Errorf("%w: %v", sqlerr.ErrInvalidQuery, err))
		return sb
	}
	if column == "" || sourceColumn == "" {
		sb.AddError(fmt.Errorf("%w: join on %v needs both columns", sqlerr.ErrInvalidQuery, table))
		return sb
	}
	sb.joins = append(sb.joins, ast.JoinClause{
		Kind:         kind,
		Table:        t,
		TargetColumn: column,
		SourceTable:  sourceTable,
		SourceColumn: sourceColumn,
	})
	return sb
}

// LeftJoin renders "LEFT JOIN table ON table.column = sourceTable.sourceColumn".
// An empty sourceTable refers to the FROM table.
func (sb *SelectBuilder) LeftJoin(table any, column, sourceTable, sourceColumn string) *SelectBuilder {
	return sb.join(ast.LeftJoin, table, column, sourceTable, sourceColumn)
}

func (sb *SelectBuilder) RightJoin(table any, column, sourceTable, sourceColumn string) *SelectBuilder {
	return sb.join(ast.RightJoin, table, column, sourceTable, sourceColumn)
}

func (sb *SelectBuilder) InnerJoin(table any, column, sourceTable, sourceColumn string) *SelectBuilder {
	return sb.join(ast.InnerJoin, table, column, sourceTable, sourceColumn)
}

// Join inlines a complete join clause.
func (sb *SelectBuilder) Join(sql string, args ...any) *SelectBuilder {
	raw := ast.RawSQL(sql, args...)
	sb.joins = append(sb.joins, ast.JoinClause{Raw: &raw})
	return sb
}

func (sb *SelectBuilder) GroupBy(columns ...any) *SelectBuilder {
	sb.groupBy = append(sb.groupBy, sb.fragments(columns)...)
	return sb
}

// Having adds the conditions of fn to the HAVING clause.
func (sb *SelectBuilder) Having(fn func(*GroupBuilder)) *SelectBuilder {
	fn(sb.having)
	return sb
}

func (sb *SelectBuilder) addOrder(dir ast.Direction, columns []any) *SelectBuilder {
	for _, f := range sb.fragments(columns) {
		sb.orderBy = append(sb.orderBy, ast.OrderBy{Expr: f, Direction: dir})
	}
	return sb
}

func (sb *SelectBuilder) OrderByAsc(columns ...any) *SelectBuilder {
	return sb.addOrder(ast.Asc, columns)
}

func (sb *SelectBuilder) OrderByDesc(columns ...any) *SelectBuilder {
	return sb.addOrder(ast.Desc, columns)
}

func (sb *SelectBuilder) Limit(limit int) *SelectBuilder {
	sb.limit = &limit
	return sb
}

func (sb *SelectBuilder) Offset(offset int) *SelectBuilder {
	sb.offset = &offset
	return sb
}

func (sb *SelectBuilder) LimitOffset(limit, offset int) *SelectBuilder {
	return sb.Limit(limit).Offset(offset)
}

// SelectStmt returns a snapshot of the configuration. The builder can keep
// changing without affecting it, which is what makes a SelectBuilder usable
// as a sub-select.
func (sb *SelectBuilder) SelectStmt() *ast.SelectStmt {
	stmt := &ast.SelectStmt{
		Distinct: sb.distinct,
		Columns:  append([]ast.Fragment(nil), sb.columns...),
		From:     sb.from,
		Joins:    append([]ast.JoinClause(nil), sb.joins...),
		Where:    sb.group.Clone(),
		GroupBy:  append([]ast.Fragment(nil), sb.groupBy...),
		Having:   sb.having.group.Clone(),
		OrderBy:  append([]ast.OrderBy(nil), sb.orderBy...),
	}
	if sb.limit != nil {
		n := *sb.limit
		stmt.Limit = &n
	}
	if sb.offset != nil {
		n := *sb.offset
		stmt.Offset = &n
	}
	return stmt
}

// Build compiles the statement. It never mutates the builder.
func (sb *SelectBuilder) Build() (*params.Query, error) {
	if err := sb.check(); err != nil {
		return nil, err
	}
	return sb.dialect.Select(sb.SelectStmt())
}

// ToRawSQL renders the statement with values inlined, for diagnostics.
func (sb *SelectBuilder) ToRawSQL() (string, error) {
	return sb.rawSQL(sb.Build())
}

func (sb *SelectBuilder) Execute(ctx context.Context) (*database.Result, error) {
	q, err := sb.Build()
	return sb.execute(ctx, q, err)
}

var _ ast.Subquery = (*SelectBuilder)(nil)
