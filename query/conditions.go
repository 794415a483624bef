package query

import (
	"fmt"
	"strings"

	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
)

// Conditions is the WHERE API shared by every builder with a condition
// list. Where* methods chain with AND, OrWhere* methods with OR. B is the
// embedding builder so calls keep chaining on it.
type Conditions[B any] struct {
	group *ast.ConditionGroup
	self  B
	base  *BaseBuilder
}

func newConditions[B any](self B, base *BaseBuilder) Conditions[B] {
	return Conditions[B]{group: ast.NewConditionGroup(), self: self, base: base}
}

// GroupBuilder collects the conditions of a parenthesised group.
type GroupBuilder struct {
	Conditions[*GroupBuilder]
}

func newGroupBuilder(base *BaseBuilder) *GroupBuilder {
	g := &GroupBuilder{}
	g.Conditions = newConditions(g, base)
	return g
}

// List converts a typed slice for WhereIn and WhereNotIn.
func List[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// whereWithOperator is the private helper that handles all WHERE logic
func (c *Conditions[B]) whereWithOperator(column any, op ast.Operator, values []any, chain ast.Chain) B {
	target, err := ast.ParseFragment(column)
	if err != nil {
		c.base.AddError(fmt.Errorf("%w: %v", sqlerr.ErrInvalidQuery, err))
		return c.self
	}
	for i, v := range values {
		values[i] = c.snapshot(v)
	}
	c.group.Add(&ast.Condition{Operator: op, Target: target, Values: values, Chain: chain})
	return c.self
}

// snapshot freezes sub-selects so later changes to their builder do not
// leak into this statement.
func (c *Conditions[B]) snapshot(v any) any {
	sub, ok := v.(ast.Subquery)
	if !ok {
		return v
	}
	if eb, ok := v.(interface{ GetFirstError() error }); ok {
		c.base.AddError(eb.GetFirstError())
	}
	return sub.SelectStmt()
}

func (c *Conditions[B]) whereSubquery(column any, op ast.Operator, sub ast.Subquery, chain ast.Chain) B {
	if sub == nil {
		c.base.AddError(fmt.Errorf("%w: %s without a sub-select", sqlerr.ErrInvalidQuery, op))
		return c.self
	}
	cond := &ast.Condition{Operator: op, Chain: chain, Subquery: c.snapshot(sub).(ast.Subquery)}
	if column != nil {
		target, err := ast.ParseFragment(column)
		if err != nil {
			c.base.AddError(fmt.Errorf("%w: %v", sqlerr.ErrInvalidQuery, err))
			return c.self
		}
		cond.Target = target
	}
	c.group.Add(cond)
	return c.self
}

func (c *Conditions[B]) whereRaw(sql string, args []any, chain ast.Chain) B {
	raw := ast.RawSQL(sql, args...)
	c.group.Add(&ast.Condition{Operator: ast.OpRaw, Raw: &raw, Chain: chain})
	return c.self
}

func (c *Conditions[B]) whereGroup(fn func(*GroupBuilder), chain ast.Chain) B {
	g := newGroupBuilder(c.base)
	fn(g)
	if g.group.Empty() {
		return c.self
	}
	c.group.Add(&ast.Condition{Operator: ast.OpGroup, Group: g.group, Chain: chain})
	return c.self
}

func (c *Conditions[B]) where(column any, op string, value any, chain ast.Chain) B {
	switch strings.ToUpper(strings.TrimSpace(op)) {
	case "=", "==":
		return c.whereWithOperator(column, ast.OpEquals, []any{value}, chain)
	case "!=", "<>":
		return c.whereWithOperator(column, ast.OpNotEquals, []any{value}, chain)
	case "<":
		return c.whereWithOperator(column, ast.OpLessThan, []any{value}, chain)
	case "<=":
		return c.whereWithOperator(column, ast.OpLessThanOrEquals, []any{value}, chain)
	case ">":
		return c.whereWithOperator(column, ast.OpGreaterThan, []any{value}, chain)
	case ">=":
		return c.whereWithOperator(column, ast.OpGreaterThanOrEquals, []any{value}, chain)
	case "LIKE":
		return c.whereWithOperator(column, ast.OpLike, []any{value}, chain)
	case "NOT LIKE":
		return c.whereWithOperator(column, ast.OpNotLike, []any{value}, chain)
	case "REGEXP", "~":
		return c.whereWithOperator(column, ast.OpRegex, []any{value}, chain)
	case "NOT REGEXP", "!~":
		return c.whereWithOperator(column, ast.OpNotRegex, []any{value}, chain)
	case "IS":
		return c.whereWithOperator(column, ast.OpEquals, []any{value}, chain)
	case "IS NOT":
		return c.whereWithOperator(column, ast.OpNotEquals, []any{value}, chain)
	case "IN", "NOT IN":
		list, ok := value.([]any)
		if !ok {
			c.base.AddError(fmt.Errorf("%w: %s expects []any, got %T", sqlerr.ErrInvalidQuery, op, value))
			return c.self
		}
		if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(op)), "NOT") {
			return c.whereWithOperator(column, ast.OpNotIn, list, chain)
		}
		return c.whereWithOperator(column, ast.OpIn, list, chain)
	default:
		c.base.AddError(fmt.Errorf("%w: unknown operator %q", sqlerr.ErrInvalidQuery, op))
		return c.self
	}
}

// Where appends "column op value" for a textual operator such as "=", "<>",
// ">=", "LIKE" or "IN".
func (c *Conditions[B]) Where(column any, op string, value any) B {
	return c.where(column, op, value, ast.And)
}

func (c *Conditions[B]) OrWhere(column any, op string, value any) B {
	return c.where(column, op, value, ast.Or)
}

// WhereEquals compares with =, or IS NULL when value is nil.
func (c *Conditions[B]) WhereEquals(column any, value any) B {
	return c.whereWithOperator(column, ast.OpEquals, []any{value}, ast.And)
}

func (c *Conditions[B]) OrWhereEquals(column any, value any) B {
	return c.whereWithOperator(column, ast.OpEquals, []any{value}, ast.Or)
}

// WhereNotEquals compares with <>, or IS NOT NULL when value is nil.
func (c *Conditions[B]) WhereNotEquals(column any, value any) B {
	return c.whereWithOperator(column, ast.OpNotEquals, []any{value}, ast.And)
}

func (c *Conditions[B]) OrWhereNotEquals(column any, value any) B {
	return c.whereWithOperator(column, ast.OpNotEquals, []any{value}, ast.Or)
}

func (c *Conditions[B]) WhereLessThan(column any, value any) B {
	return c.whereWithOperator(column, ast.OpLessThan, []any{value}, ast.And)
}

func (c *Conditions[B]) OrWhereLessThan(column any, value any) B {
	return c.whereWithOperator(column, ast.OpLessThan, []any{value}, ast.Or)
}

func (c *Conditions[B]) WhereLessThanOrEquals(column any, value any) B {
	return c.whereWithOperator(column, ast.OpLessThanOrEquals, []any{value}, ast.And)
}

func (c *Conditions[B]) OrWhereLessThanOrEquals(column any, value any) B {
	return c.whereWithOperator(column, ast.OpLessThanOrEquals, []any{value}, ast.Or)
}

func (c *Conditions[B]) WhereGreaterThan(column any, value any) B {
	return c.whereWithOperator(column, ast.OpGreaterThan, []any{value}, ast.And)
}

func (c *Conditions[B]) OrWhereGreaterThan(column any, value any) B {
	return c.whereWithOperator(column, ast.OpGreaterThan, []any{value}, ast.Or)
}

func (c *Conditions[B]) WhereGreaterThanOrEquals(column any, value any) B {
	return c.whereWithOperator(column, ast.OpGreaterThanOrEquals, []any{value}, ast.And)
}

func (c *Conditions[B]) OrWhereGreaterThanOrEquals(column any, value any) B {
	return c.whereWithOperator(column, ast.OpGreaterThanOrEquals, []any{value}, ast.Or)
}

func (c *Conditions[B]) WhereBetween(column any, start, end any) B {
	return c.whereWithOperator(column, ast.OpBetween, []any{start, end}, ast.And)
}

func (c *Conditions[B]) OrWhereBetween(column any, start, end any) B {
	return c.whereWithOperator(column, ast.OpBetween, []any{start, end}, ast.Or)
}

func (c *Conditions[B]) WhereNotBetween(column any, start, end any) B {
	return c.whereWithOperator(column, ast.OpNotBetween, []any{start, end}, ast.And)
}

func (c *Conditions[B]) OrWhereNotBetween(column any, start, end any) B {
	return c.whereWithOperator(column, ast.OpNotBetween, []any{start, end}, ast.Or)
}

// WhereIn renders "column IN (...)"; an empty list renders 1 = 0.
func (c *Conditions[B]) WhereIn(column any, values []any) B {
	return c.whereWithOperator(column, ast.OpIn, append([]any(nil), values...), ast.And)
}

func (c *Conditions[B]) OrWhereIn(column any, values []any) B {
	return c.whereWithOperator(column, ast.OpIn, append([]any(nil), values...), ast.Or)
}

// WhereNotIn renders "column NOT IN (...)"; an empty list renders 1 = 1.
func (c *Conditions[B]) WhereNotIn(column any, values []any) B {
	return c.whereWithOperator(column, ast.OpNotIn, append([]any(nil), values...), ast.And)
}

func (c *Conditions[B]) OrWhereNotIn(column any, values []any) B {
	return c.whereWithOperator(column, ast.OpNotIn, append([]any(nil), values...), ast.Or)
}

func (c *Conditions[B]) WhereInSubquery(column any, sub ast.Subquery) B {
	return c.whereSubquery(column, ast.OpInSubquery, sub, ast.And)
}

func (c *Conditions[B]) OrWhereInSubquery(column any, sub ast.Subquery) B {
	return c.whereSubquery(column, ast.OpInSubquery, sub, ast.Or)
}

func (c *Conditions[B]) WhereNotInSubquery(column any, sub ast.Subquery) B {
	return c.whereSubquery(column, ast.OpNotInSubquery, sub, ast.And)
}

func (c *Conditions[B]) OrWhereNotInSubquery(column any, sub ast.Subquery) B {
	return c.whereSubquery(column, ast.OpNotInSubquery, sub, ast.Or)
}

func (c *Conditions[B]) WhereExists(sub ast.Subquery) B {
	return c.whereSubquery(nil, ast.OpExists, sub, ast.And)
}

func (c *Conditions[B]) OrWhereExists(sub ast.Subquery) B {
	return c.whereSubquery(nil, ast.OpExists, sub, ast.Or)
}

func (c *Conditions[B]) WhereNotExists(sub ast.Subquery) B {
	return c.whereSubquery(nil, ast.OpNotExists, sub, ast.And)
}

func (c *Conditions[B]) OrWhereNotExists(sub ast.Subquery) B {
	return c.whereSubquery(nil, ast.OpNotExists, sub, ast.Or)
}

// WhereLike binds pattern as is; % and _ keep their LIKE meaning.
func (c *Conditions[B]) WhereLike(column any, pattern string) B {
	return c.whereWithOperator(column, ast.OpLike, []any{pattern}, ast.And)
}

func (c *Conditions[B]) OrWhereLike(column any, pattern string) B {
	return c.whereWithOperator(column, ast.OpLike, []any{pattern}, ast.Or)
}

func (c *Conditions[B]) WhereNotLike(column any, pattern string) B {
	return c.whereWithOperator(column, ast.OpNotLike, []any{pattern}, ast.And)
}

func (c *Conditions[B]) OrWhereNotLike(column any, pattern string) B {
	return c.whereWithOperator(column, ast.OpNotLike, []any{pattern}, ast.Or)
}

// WhereStartsWith matches a literal prefix; LIKE metacharacters in value
// are escaped.
func (c *Conditions[B]) WhereStartsWith(column any, value string) B {
	return c.whereWithOperator(column, ast.OpStartsWith, []any{value}, ast.And)
}

func (c *Conditions[B]) OrWhereStartsWith(column any, value string) B {
	return c.whereWithOperator(column, ast.OpStartsWith, []any{value}, ast.Or)
}

func (c *Conditions[B]) WhereEndsWith(column any, value string) B {
	return c.whereWithOperator(column, ast.OpEndsWith, []any{value}, ast.And)
}

func (c *Conditions[B]) OrWhereEndsWith(column any, value string) B {
	return c.whereWithOperator(column, ast.OpEndsWith, []any{value}, ast.Or)
}

func (c *Conditions[B]) WhereContains(column any, value string) B {
	return c.whereWithOperator(column, ast.OpContains, []any{value}, ast.And)
}

func (c *Conditions[B]) OrWhereContains(column any, value string) B {
	return c.whereWithOperator(column, ast.OpContains, []any{value}, ast.Or)
}

func (c *Conditions[B]) WhereNotContains(column any, value string) B {
	return c.whereWithOperator(column, ast.OpNotContains, []any{value}, ast.And)
}

func (c *Conditions[B]) OrWhereNotContains(column any, value string) B {
	return c.whereWithOperator(column, ast.OpNotContains, []any{value}, ast.Or)
}

// WhereRegex fails at build time on dialects without regular expressions.
func (c *Conditions[B]) WhereRegex(column any, pattern string) B {
	return c.whereWithOperator(column, ast.OpRegex, []any{pattern}, ast.And)
}

func (c *Conditions[B]) OrWhereRegex(column any, pattern string) B {
	return c.whereWithOperator(column, ast.OpRegex, []any{pattern}, ast.Or)
}

func (c *Conditions[B]) WhereNotRegex(column any, pattern string) B {
	return c.whereWithOperator(column, ast.OpNotRegex, []any{pattern}, ast.And)
}

func (c *Conditions[B]) OrWhereNotRegex(column any, pattern string) B {
	return c.whereWithOperator(column, ast.OpNotRegex, []any{pattern}, ast.Or)
}

func (c *Conditions[B]) WhereNull(column any) B {
	return c.whereWithOperator(column, ast.OpIsNull, nil, ast.And)
}

func (c *Conditions[B]) OrWhereNull(column any) B {
	return c.whereWithOperator(column, ast.OpIsNull, nil, ast.Or)
}

func (c *Conditions[B]) WhereNotNull(column any) B {
	return c.whereWithOperator(column, ast.OpIsNotNull, nil, ast.And)
}

func (c *Conditions[B]) OrWhereNotNull(column any) B {
	return c.whereWithOperator(column, ast.OpIsNotNull, nil, ast.Or)
}

// WhereEmpty matches NULL or the empty string.
func (c *Conditions[B]) WhereEmpty(column any) B {
	return c.whereWithOperator(column, ast.OpEmpty, nil, ast.And)
}

func (c *Conditions[B]) OrWhereEmpty(column any) B {
	return c.whereWithOperator(column, ast.OpEmpty, nil, ast.Or)
}

func (c *Conditions[B]) WhereNotEmpty(column any) B {
	return c.whereWithOperator(column, ast.OpNotEmpty, nil, ast.And)
}

func (c *Conditions[B]) OrWhereNotEmpty(column any) B {
	return c.whereWithOperator(column, ast.OpNotEmpty, nil, ast.Or)
}

// WhereRaw inlines sql in parentheses. Its ? placeholders bind args, and a
// count mismatch fails the build.
func (c *Conditions[B]) WhereRaw(sql string, args ...any) B {
	return c.whereRaw(sql, args, ast.And)
}

func (c *Conditions[B]) OrWhereRaw(sql string, args ...any) B {
	return c.whereRaw(sql, args, ast.Or)
}

// WhereGroup collects the conditions added by fn into one parenthesised
// group. A group left empty is dropped.
func (c *Conditions[B]) WhereGroup(fn func(*GroupBuilder)) B {
	return c.whereGroup(fn, ast.And)
}

func (c *Conditions[B]) OrWhereGroup(fn func(*GroupBuilder)) B {
	return c.whereGroup(fn, ast.Or)
}
