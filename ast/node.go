// Package ast models the configuration of a single SQL statement: tables,
// columns, condition trees, joins and DDL definitions. Nodes are plain data;
// rendering them into SQL is the job of a dialect.
package ast

type NodeType int

const (
	NodeSelect NodeType = iota
	NodeInsert
	NodeUpdate
	NodeDelete
	NodeCreateTable
	NodeAlterTable
	NodeDropTable
)

func (t NodeType) String() string {
	switch t {
	case NodeSelect:
		return "SELECT"
	case NodeInsert:
		return "INSERT"
	case NodeUpdate:
		return "UPDATE"
	case NodeDelete:
		return "DELETE"
	case NodeCreateTable:
		return "CREATE TABLE"
	case NodeAlterTable:
		return "ALTER TABLE"
	case NodeDropTable:
		return "DROP TABLE"
	default:
		return "UNKNOWN"
	}
}

// Node is a statement configuration.
type Node interface {
	Type() NodeType
	Accept(v Visitor) error
}

// Visitor renders statement configurations.
type Visitor interface {
	VisitSelect(stmt *SelectStmt) error
	VisitInsert(stmt *InsertStmt) error
	VisitUpdate(stmt *UpdateStmt) error
	VisitDelete(stmt *DeleteStmt) error
	VisitCreateTable(stmt *CreateTableStmt) error
	VisitAlterTable(stmt *AlterTableStmt) error
	VisitDropTable(stmt *DropTableStmt) error
}

// Subquery is implemented by anything that can be embedded as a sub-select,
// most notably the select builder.
type Subquery interface {
	SelectStmt() *SelectStmt
}

// Assignment is a column = value pair used by UPDATE and upserts.
type Assignment struct {
	Column string
	Value  any
}
