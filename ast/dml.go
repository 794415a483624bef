package ast

// OnConflict configures upsert behaviour. With Update unset the insert is
// ignored on conflict. With Update set, Updates are applied when present,
// otherwise every inserted column except the conflict columns is overwritten
// with the incoming value. PrimaryKey names the key column MySQL reports
// through LAST_INSERT_ID.
type OnConflict struct {
	Columns    []string
	Update     bool
	Updates    []Assignment
	PrimaryKey string
}

// InsertStmt is the configuration of an INSERT statement. Each row of Values
// is aligned with Columns.
type InsertStmt struct {
	Table      string
	Columns    []string
	Values     [][]any
	OnConflict *OnConflict
	Returning  []string
}

func (s *InsertStmt) Type() NodeType { return NodeInsert }

func (s *InsertStmt) Accept(v Visitor) error { return v.VisitInsert(s) }

// UpdateStmt is the configuration of an UPDATE statement.
type UpdateStmt struct {
	Table     string
	Set       []Assignment
	Where     *ConditionGroup
	Returning []string
}

func (s *UpdateStmt) Type() NodeType { return NodeUpdate }

func (s *UpdateStmt) Accept(v Visitor) error { return v.VisitUpdate(s) }

// DeleteStmt is the configuration of a DELETE statement.
type DeleteStmt struct {
	Table     string
	Where     *ConditionGroup
	Returning []string
}

func (s *DeleteStmt) Type() NodeType { return NodeDelete }

func (s *DeleteStmt) Accept(v Visitor) error { return v.VisitDelete(s) }
