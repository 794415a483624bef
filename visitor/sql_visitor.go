package visitor

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
)

var visitorPool = sync.Pool{
	New: func() any {
		return &SQLVisitor{
			args: make([]any, 0, 8),
		}
	},
}

// SQLVisitor renders statement configurations into SQL with ? placeholders,
// collecting bound values in the order their placeholders are written.
type SQLVisitor struct {
	sb      strings.Builder
	args    []any
	batch   []*params.Query
	grammar Grammar
}

func NewSQLVisitor(g Grammar) *SQLVisitor {
	v := visitorPool.Get().(*SQLVisitor)
	v.grammar = g
	v.Reset()
	return v
}

func (v *SQLVisitor) Release() {
	v.grammar = nil
	v.Reset()
	visitorPool.Put(v)
}

func (v *SQLVisitor) Reset() {
	v.sb.Reset()
	v.args = v.args[:0]
	v.batch = nil
}

// Build renders a node that produces exactly one statement.
func (v *SQLVisitor) Build(root ast.Node) (*params.Query, error) {
	queries, err := v.BuildBatch(root)
	if err != nil {
		return nil, err
	}
	if len(queries) != 1 {
		return nil, fmt.Errorf("%w: %s renders %d statements", sqlerr.ErrInvalidQuery, root.Type(), len(queries))
	}
	return queries[0], nil
}

// BuildBatch renders a node into one or more statements.
func (v *SQLVisitor) BuildBatch(root ast.Node) ([]*params.Query, error) {
	v.Reset()
	if err := root.Accept(v); err != nil {
		return nil, err
	}
	if v.sb.Len() > 0 {
		v.flush()
	}
	out := v.batch
	v.batch = nil
	return out, nil
}

func (v *SQLVisitor) flush() {
	var args []any
	if len(v.args) > 0 {
		args = make([]any, len(v.args))
		copy(args, v.args)
	}
	v.batch = append(v.batch, params.New(v.sb.String(), args...))
	v.sb.Reset()
	v.args = v.args[:0]
}

func (v *SQLVisitor) Arg(a any) {
	v.args = append(v.args, a)
}

func (v *SQLVisitor) unsupported(feature string) error {
	return sqlerr.Unsupported(v.grammar.Name(), feature)
}

func (v *SQLVisitor) ident(name string) {
	if name == "*" {
		v.sb.WriteByte('*')
		return
	}
	v.sb.WriteString(v.grammar.EscapeIdentifier(name))
}

func (v *SQLVisitor) identList(names []string) {
	for i, n := range names {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.ident(n)
	}
}

func (v *SQLVisitor) raw(r ast.Raw) error {
	if n := v.grammar.Features().Syntax.CountPlaceholders(r.SQL); n != len(r.Args) {
		return &sqlerr.ParameterCountMismatchError{SQL: r.SQL, Placeholders: n, Params: len(r.Args)}
	}
	v.sb.WriteString(r.SQL)
	v.args = append(v.args, r.Args...)
	return nil
}

func (v *SQLVisitor) fragment(f ast.Fragment) error {
	switch t := f.(type) {
	case ast.Identifier:
		for i, p := range t.Parts {
			if i > 0 {
				v.sb.WriteByte('.')
			}
			v.ident(p)
		}
		return nil
	case ast.Raw:
		return v.raw(t)
	case ast.Aliased:
		if err := v.fragment(t.Inner); err != nil {
			return err
		}
		v.sb.WriteString(" AS ")
		v.ident(t.Alias)
		return nil
	default:
		return fmt.Errorf("%w: unknown fragment %T", sqlerr.ErrInvalidQuery, f)
	}
}

// emptyCheck writes (target <nullCheck> target <compare>).
func (v *SQLVisitor) emptyCheck(target ast.Fragment, nullCheck, compare string) error {
	v.sb.WriteByte('(')
	if err := v.fragment(target); err != nil {
		return err
	}
	v.sb.WriteString(nullCheck)
	if err := v.fragment(target); err != nil {
		return err
	}
	v.sb.WriteString(compare)
	return nil
}

func (v *SQLVisitor) fragments(list []ast.Fragment) error {
	for i, f := range list {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		if err := v.fragment(f); err != nil {
			return err
		}
	}
	return nil
}

// value writes a placeholder for a bound value, or inlines raw fragments,
// column references and sub-selects.
func (v *SQLVisitor) value(val any) error {
	switch t := val.(type) {
	case ast.Raw:
		return v.raw(t)
	case *ast.Raw:
		return v.raw(*t)
	case ast.Identifier:
		return v.fragment(t)
	case ast.Subquery:
		v.sb.WriteByte('(')
		if err := v.VisitSelect(t.SelectStmt()); err != nil {
			return err
		}
		v.sb.WriteByte(')')
		return nil
	default:
		v.sb.WriteByte('?')
		v.Arg(val)
		return nil
	}
}

func (v *SQLVisitor) VisitSelect(s *ast.SelectStmt) error {
	if s.From == nil {
		return fmt.Errorf("%w: select without a table", sqlerr.ErrInvalidQuery)
	}

	v.sb.WriteString("SELECT ")
	if s.Distinct {
		v.sb.WriteString("DISTINCT ")
	}

	if len(s.Columns) == 0 {
		v.sb.WriteByte('*')
	} else if err := v.fragments(s.Columns); err != nil {
		return err
	}

	v.sb.WriteString(" FROM ")
	if err := v.fragment(s.From); err != nil {
		return err
	}

	for _, j := range s.Joins {
		if err := v.join(s.From, j); err != nil {
			return err
		}
	}

	if err := v.where(" WHERE ", s.Where); err != nil {
		return err
	}

	if len(s.GroupBy) > 0 {
		v.sb.WriteString(" GROUP BY ")
		if err := v.fragments(s.GroupBy); err != nil {
			return err
		}
	}

	if err := v.where(" HAVING ", s.Having); err != nil {
		return err
	}

	if len(s.OrderBy) > 0 {
		v.sb.WriteString(" ORDER BY ")
		for i, o := range s.OrderBy {
			if i > 0 {
				v.sb.WriteString(", ")
			}
			if err := v.fragment(o.Expr); err != nil {
				return err
			}
			v.sb.WriteByte(' ')
			v.sb.WriteString(o.Direction.String())
		}
	}

	return v.limit(s.Limit, s.Offset)
}

func (v *SQLVisitor) limit(limit, offset *int) error {
	if (limit != nil && *limit < 0) || (offset != nil && *offset < 0) {
		return fmt.Errorf("%w: negative limit or offset", sqlerr.ErrInvalidQuery)
	}

	f := v.grammar.Features()
	if f.FetchFirst {
		if offset != nil {
			v.sb.WriteString(" OFFSET ")
			v.sb.WriteString(strconv.Itoa(*offset))
			v.sb.WriteString(" ROWS")
		}
		if limit != nil {
			v.sb.WriteString(" FETCH FIRST ")
			v.sb.WriteString(strconv.Itoa(*limit))
			v.sb.WriteString(" ROWS ONLY")
		}
		return nil
	}

	if limit != nil {
		v.sb.WriteString(" LIMIT ")
		v.sb.WriteString(strconv.Itoa(*limit))
	} else if offset != nil && f.UnboundedLimit != "" {
		v.sb.WriteString(" LIMIT ")
		v.sb.WriteString(f.UnboundedLimit)
	}
	if offset != nil {
		v.sb.WriteString(" OFFSET ")
		v.sb.WriteString(strconv.Itoa(*offset))
	}
	return nil
}

func (v *SQLVisitor) join(from ast.Fragment, j ast.JoinClause) error {
	v.sb.WriteByte(' ')
	if j.Raw != nil {
		return v.raw(*j.Raw)
	}

	v.sb.WriteString(j.Kind.String())
	v.sb.WriteByte(' ')
	if err := v.fragment(j.Table); err != nil {
		return err
	}

	source := j.SourceTable
	if source == "" {
		source = ast.ReferenceName(from)
	}

	v.sb.WriteString(" ON ")
	v.ident(ast.ReferenceName(j.Table))
	v.sb.WriteByte('.')
	v.ident(j.TargetColumn)
	v.sb.WriteString(" = ")
	v.ident(source)
	v.sb.WriteByte('.')
	v.ident(j.SourceColumn)
	return nil
}

func (v *SQLVisitor) where(keyword string, g *ast.ConditionGroup) error {
	if g.Empty() {
		return nil
	}
	v.sb.WriteString(keyword)
	return v.conditions(g)
}

func (v *SQLVisitor) conditions(g *ast.ConditionGroup) error {
	for i, c := range g.Conditions {
		if i > 0 {
			v.sb.WriteByte(' ')
			v.sb.WriteString(c.Chain.String())
			v.sb.WriteByte(' ')
		}
		if err := v.condition(c); err != nil {
			return err
		}
	}
	return nil
}

func (v *SQLVisitor) operand(c *ast.Condition, n int) (any, error) {
	if len(c.Values) < n+1 {
		return nil, fmt.Errorf("%w: %s expects %d values, got %d", sqlerr.ErrInvalidQuery, c.Operator, n+1, len(c.Values))
	}
	return c.Values[n], nil
}

func (v *SQLVisitor) condition(c *ast.Condition) error {
	switch c.Operator {
	case ast.OpGroup:
		if c.Group.Empty() {
			return fmt.Errorf("%w: empty condition group", sqlerr.ErrInvalidQuery)
		}
		v.sb.WriteByte('(')
		if err := v.conditions(c.Group); err != nil {
			return err
		}
		v.sb.WriteByte(')')
		return nil

	case ast.OpRaw:
		if c.Raw == nil {
			return fmt.Errorf("%w: raw condition without SQL", sqlerr.ErrInvalidQuery)
		}
		v.sb.WriteByte('(')
		if err := v.raw(*c.Raw); err != nil {
			return err
		}
		v.sb.WriteByte(')')
		return nil

	case ast.OpExists, ast.OpNotExists:
		if c.Subquery == nil {
			return fmt.Errorf("%w: %s without a sub-select", sqlerr.ErrInvalidQuery, c.Operator)
		}
		if c.Operator == ast.OpNotExists {
			v.sb.WriteString("NOT ")
		}
		v.sb.WriteString("EXISTS ")
		return v.value(c.Subquery)
	}

	if c.Target == nil {
		return fmt.Errorf("%w: %s without a column", sqlerr.ErrInvalidQuery, c.Operator)
	}

	// Empty IN lists never reference the column.
	if (c.Operator == ast.OpIn || c.Operator == ast.OpNotIn) && len(c.Values) == 0 {
		if c.Operator == ast.OpIn {
			v.sb.WriteString("1 = 0")
		} else {
			v.sb.WriteString("1 = 1")
		}
		return nil
	}

	switch c.Operator {
	case ast.OpEmpty:
		return v.emptyCheck(c.Target, " IS NULL OR ", " = '')")
	case ast.OpNotEmpty:
		return v.emptyCheck(c.Target, " IS NOT NULL AND ", " <> '')")
	}

	if err := v.fragment(c.Target); err != nil {
		return err
	}

	if cmp, ok := c.Operator.Comparison(); ok {
		val, err := v.operand(c, 0)
		if err != nil {
			return err
		}
		if val == nil {
			switch c.Operator {
			case ast.OpEquals:
				v.sb.WriteString(" IS NULL")
				return nil
			case ast.OpNotEquals:
				v.sb.WriteString(" IS NOT NULL")
				return nil
			}
		}
		v.sb.WriteByte(' ')
		v.sb.WriteString(cmp)
		v.sb.WriteByte(' ')
		return v.value(val)
	}

	switch c.Operator {
	case ast.OpIsNull:
		v.sb.WriteString(" IS NULL")
		return nil

	case ast.OpIsNotNull:
		v.sb.WriteString(" IS NOT NULL")
		return nil

	case ast.OpBetween, ast.OpNotBetween:
		lo, err := v.operand(c, 0)
		if err != nil {
			return err
		}
		hi, err := v.operand(c, 1)
		if err != nil {
			return err
		}
		if c.Operator == ast.OpNotBetween {
			v.sb.WriteString(" NOT")
		}
		v.sb.WriteString(" BETWEEN ")
		if err := v.value(lo); err != nil {
			return err
		}
		v.sb.WriteString(" AND ")
		return v.value(hi)

	case ast.OpIn, ast.OpNotIn:
		if c.Operator == ast.OpNotIn {
			v.sb.WriteString(" NOT")
		}
		v.sb.WriteString(" IN (")
		for i, val := range c.Values {
			if i > 0 {
				v.sb.WriteString(", ")
			}
			if err := v.value(val); err != nil {
				return err
			}
		}
		v.sb.WriteByte(')')
		return nil

	case ast.OpInSubquery, ast.OpNotInSubquery:
		if c.Subquery == nil {
			return fmt.Errorf("%w: %s without a sub-select", sqlerr.ErrInvalidQuery, c.Operator)
		}
		if c.Operator == ast.OpNotInSubquery {
			v.sb.WriteString(" NOT")
		}
		v.sb.WriteString(" IN ")
		return v.value(c.Subquery)

	case ast.OpLike, ast.OpNotLike:
		val, err := v.operand(c, 0)
		if err != nil {
			return err
		}
		if c.Operator == ast.OpNotLike {
			v.sb.WriteString(" NOT")
		}
		v.sb.WriteString(" LIKE ")
		return v.value(val)

	case ast.OpStartsWith, ast.OpEndsWith, ast.OpContains, ast.OpNotContains:
		val, err := v.operand(c, 0)
		if err != nil {
			return err
		}
		pattern := EscapeLike(fmt.Sprint(val))
		switch c.Operator {
		case ast.OpStartsWith:
			pattern = pattern + "%"
		case ast.OpEndsWith:
			pattern = "%" + pattern
		default:
			pattern = "%" + pattern + "%"
		}
		if c.Operator == ast.OpNotContains {
			v.sb.WriteString(" NOT")
		}
		v.sb.WriteString(" LIKE ? ESCAPE '!'")
		v.Arg(pattern)
		return nil

	case ast.OpRegex, ast.OpNotRegex:
		val, err := v.operand(c, 0)
		if err != nil {
			return err
		}
		negate := c.Operator == ast.OpNotRegex
		switch v.grammar.Features().Regex {
		case RegexOperator:
			if negate {
				v.sb.WriteString(" !~ ")
			} else {
				v.sb.WriteString(" ~ ")
			}
		case RegexKeyword:
			if negate {
				v.sb.WriteString(" NOT REGEXP ")
			} else {
				v.sb.WriteString(" REGEXP ")
			}
		default:
			return v.unsupported("regular expression conditions")
		}
		return v.value(val)
	}

	return fmt.Errorf("%w: unknown operator %s", sqlerr.ErrInvalidQuery, c.Operator)
}

// EscapeLike escapes LIKE metacharacters using ! as the escape character.
func EscapeLike(s string) string {
	if !strings.ContainsAny(s, "!%_") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '!', '%', '_':
			sb.WriteByte('!')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func (v *SQLVisitor) returning(cols []string, supported bool, stmt string) error {
	if len(cols) == 0 {
		return nil
	}
	if !supported {
		return v.unsupported(stmt + " ... RETURNING")
	}
	v.sb.WriteString(" RETURNING ")
	v.identList(cols)
	return nil
}

func (v *SQLVisitor) VisitInsert(s *ast.InsertStmt) error {
	if s.Table == "" {
		return fmt.Errorf("%w: insert without a table", sqlerr.ErrInvalidQuery)
	}
	f := v.grammar.Features()
	oc := s.OnConflict

	if oc != nil && f.Upsert == UpsertNone {
		return v.unsupported("ON CONFLICT")
	}

	if oc != nil && !oc.Update && f.Upsert == UpsertDuplicateKey {
		v.sb.WriteString("INSERT IGNORE INTO ")
	} else {
		v.sb.WriteString("INSERT INTO ")
	}
	v.ident(s.Table)

	rows := s.Values
	if len(rows) == 0 {
		rows = [][]any{nil}
	}

	if len(s.Columns) == 0 {
		if len(rows) > 1 {
			return fmt.Errorf("%w: multi-row insert without columns", sqlerr.ErrInvalidQuery)
		}
		if f.DefaultValues {
			v.sb.WriteString(" DEFAULT VALUES")
		} else {
			v.sb.WriteString(" () VALUES ()")
		}
	} else {
		v.sb.WriteString(" (")
		v.identList(s.Columns)
		v.sb.WriteString(") VALUES ")
		for r, row := range rows {
			if len(row) != len(s.Columns) {
				return fmt.Errorf("%w: row %d has %d values for %d columns", sqlerr.ErrInvalidQuery, r, len(row), len(s.Columns))
			}
			if r > 0 {
				v.sb.WriteString(", ")
			}
			v.sb.WriteByte('(')
			for i, val := range row {
				if i > 0 {
					v.sb.WriteString(", ")
				}
				if err := v.value(val); err != nil {
					return err
				}
			}
			v.sb.WriteByte(')')
		}
	}

	if oc != nil {
		var err error
		if f.Upsert == UpsertDuplicateKey {
			err = v.duplicateKey(s, oc)
		} else {
			err = v.onConflict(s, oc)
		}
		if err != nil {
			return err
		}
	}

	return v.returning(s.Returning, f.ReturningInsert, "INSERT")
}

// upsertColumns returns the inserted columns that are not conflict targets.
func upsertColumns(s *ast.InsertStmt, oc *ast.OnConflict) []string {
	skip := make(map[string]bool, len(oc.Columns))
	for _, c := range oc.Columns {
		skip[c] = true
	}
	var out []string
	for _, c := range s.Columns {
		if !skip[c] {
			out = append(out, c)
		}
	}
	return out
}

func (v *SQLVisitor) onConflict(s *ast.InsertStmt, oc *ast.OnConflict) error {
	v.sb.WriteString(" ON CONFLICT")
	if len(oc.Columns) > 0 {
		v.sb.WriteString(" (")
		v.identList(oc.Columns)
		v.sb.WriteByte(')')
	}

	if !oc.Update {
		v.sb.WriteString(" DO NOTHING")
		return nil
	}
	if len(oc.Columns) == 0 {
		return fmt.Errorf("%w: ON CONFLICT DO UPDATE requires conflict columns", sqlerr.ErrInvalidQuery)
	}

	if len(oc.Updates) > 0 {
		v.sb.WriteString(" DO UPDATE SET ")
		return v.assignments(oc.Updates)
	}

	cols := upsertColumns(s, oc)
	if len(cols) == 0 {
		v.sb.WriteString(" DO NOTHING")
		return nil
	}
	v.sb.WriteString(" DO UPDATE SET ")
	for i, c := range cols {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.ident(c)
		v.sb.WriteString(" = EXCLUDED.")
		v.ident(c)
	}
	return nil
}

func (v *SQLVisitor) duplicateKey(s *ast.InsertStmt, oc *ast.OnConflict) error {
	if !oc.Update {
		return nil
	}

	v.sb.WriteString(" ON DUPLICATE KEY UPDATE ")
	wrote := false
	if oc.PrimaryKey != "" {
		v.ident(oc.PrimaryKey)
		v.sb.WriteString(" = LAST_INSERT_ID(")
		v.ident(oc.PrimaryKey)
		v.sb.WriteByte(')')
		wrote = true
	}

	if len(oc.Updates) > 0 {
		if wrote {
			v.sb.WriteString(", ")
		}
		return v.assignments(oc.Updates)
	}

	cols := upsertColumns(s, oc)
	for _, c := range cols {
		if wrote {
			v.sb.WriteString(", ")
		}
		v.ident(c)
		v.sb.WriteString(" = VALUES(")
		v.ident(c)
		v.sb.WriteByte(')')
		wrote = true
	}

	if !wrote {
		// An assignment is mandatory; a self assignment leaves the row unchanged.
		if len(s.Columns) == 0 {
			return fmt.Errorf("%w: ON DUPLICATE KEY UPDATE without columns", sqlerr.ErrInvalidQuery)
		}
		v.ident(s.Columns[0])
		v.sb.WriteString(" = ")
		v.ident(s.Columns[0])
	}
	return nil
}

func (v *SQLVisitor) assignments(set []ast.Assignment) error {
	for i, a := range set {
		if i > 0 {
			v.sb.WriteString(", ")
		}
		v.ident(a.Column)
		v.sb.WriteString(" = ")
		if err := v.value(a.Value); err != nil {
			return err
		}
	}
	return nil
}

func (v *SQLVisitor) VisitUpdate(s *ast.UpdateStmt) error {
	if s.Table == "" {
		return fmt.Errorf("%w: update without a table", sqlerr.ErrInvalidQuery)
	}
	if len(s.Set) == 0 {
		return fmt.Errorf("%w: update without values", sqlerr.ErrInvalidQuery)
	}

	v.sb.WriteString("UPDATE ")
	v.ident(s.Table)
	v.sb.WriteString(" SET ")
	if err := v.assignments(s.Set); err != nil {
		return err
	}
	if err := v.where(" WHERE ", s.Where); err != nil {
		return err
	}
	return v.returning(s.Returning, v.grammar.Features().ReturningUpdate, "UPDATE")
}

func (v *SQLVisitor) VisitDelete(s *ast.DeleteStmt) error {
	if s.Table == "" {
		return fmt.Errorf("%w: delete without a table", sqlerr.ErrInvalidQuery)
	}

	v.sb.WriteString("DELETE FROM ")
	v.ident(s.Table)
	if err := v.where(" WHERE ", s.Where); err != nil {
		return err
	}
	return v.returning(s.Returning, v.grammar.Features().ReturningDelete, "DELETE")
}
