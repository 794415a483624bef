package ast

// OrderBy is one ORDER BY term.
type OrderBy struct {
	Expr      Fragment
	Direction Direction
}

// SelectStmt is the configuration of a SELECT statement. An empty Columns
// list selects *.
type SelectStmt struct {
	Distinct bool
	Columns  []Fragment
	From     Fragment
	Joins    []JoinClause
	Where    *ConditionGroup
	GroupBy  []Fragment
	Having   *ConditionGroup
	OrderBy  []OrderBy
	Limit    *int
	Offset   *int
}

func (s *SelectStmt) Type() NodeType { return NodeSelect }

func (s *SelectStmt) Accept(v Visitor) error { return v.VisitSelect(s) }

// SelectStmt lets a statement be used where a Subquery is expected.
func (s *SelectStmt) SelectStmt() *SelectStmt { return s }
