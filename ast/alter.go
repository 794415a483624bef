package ast

// AlterAction is one change applied by ALTER TABLE. The set of
// implementations is closed.
type AlterAction interface {
	alterAction()
}

type AddColumn struct {
	Column ColumnDef
}

type DropColumn struct {
	Name string
}

type RenameColumn struct {
	From string
	To   string
}

// AlterColumn changes the type and nullability of an existing column.
type AlterColumn struct {
	Column ColumnDef
}

type AddUnique struct {
	Constraint UniqueConstraint
}

type AddForeignKey struct {
	Constraint ForeignKeyConstraint
}

type DropConstraint struct {
	Name string
}

type RenameTable struct {
	To string
}

// RawAction is inlined after ALTER TABLE <table>.
type RawAction struct {
	SQL string
}

func (AddColumn) alterAction()      {}
func (DropColumn) alterAction()     {}
func (RenameColumn) alterAction()   {}
func (AlterColumn) alterAction()    {}
func (AddUnique) alterAction()      {}
func (AddForeignKey) alterAction()  {}
func (DropConstraint) alterAction() {}
func (RenameTable) alterAction()    {}
func (RawAction) alterAction()      {}

// AlterTableStmt is the configuration of an ALTER TABLE statement. Dialects
// render one statement per action.
type AlterTableStmt struct {
	Table   string
	Actions []AlterAction
}

func (s *AlterTableStmt) Type() NodeType { return NodeAlterTable }

func (s *AlterTableStmt) Accept(v Visitor) error { return v.VisitAlterTable(s) }
