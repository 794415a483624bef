package ast

// ScalarType is a dialect independent column type. Dialects map it to a
// concrete keyword.
type ScalarType int

const (
	TypeUnknown ScalarType = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeTime
	TypeBytes
	TypeJSON
	TypeUUID
)

func (t ScalarType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeTime:
		return "time"
	case TypeBytes:
		return "bytes"
	case TypeJSON:
		return "json"
	case TypeUUID:
		return "uuid"
	default:
		return "unknown"
	}
}

// ColumnType is either a generic scalar or a raw, dialect specific type.
// Raw wins when set.
type ColumnType struct {
	Scalar ScalarType
	Raw    string
}

// ColumnDef describes a column in CREATE TABLE or ALTER TABLE.
type ColumnDef struct {
	Name          string
	Type          ColumnType
	NotNull       bool
	Default       any
	HasDefault    bool
	AutoIncrement bool
}

// UniqueConstraint is a UNIQUE (cols...) table constraint.
type UniqueConstraint struct {
	Columns []string
	Name    string
}

type ReferentialAction int

const (
	NoAction ReferentialAction = iota
	Cascade
	SetNull
	Restrict
	SetDefault
)

func (a ReferentialAction) String() string {
	switch a {
	case Cascade:
		return "CASCADE"
	case SetNull:
		return "SET NULL"
	case Restrict:
		return "RESTRICT"
	case SetDefault:
		return "SET DEFAULT"
	default:
		return "NO ACTION"
	}
}

// ForeignKeyConstraint references ReferenceTable(ReferenceColumn). OnDelete
// is only rendered when HasOnDelete is set.
type ForeignKeyConstraint struct {
	Column          string
	ReferenceTable  string
	ReferenceColumn string
	Name            string
	OnDelete        ReferentialAction
	HasOnDelete     bool
}

// CreateTableStmt is the configuration of a CREATE TABLE statement.
type CreateTableStmt struct {
	Table       string
	IfNotExists bool
	Columns     []ColumnDef
	PrimaryKey  []string
	Uniques     []UniqueConstraint
	ForeignKeys []ForeignKeyConstraint
}

func (s *CreateTableStmt) Type() NodeType { return NodeCreateTable }

func (s *CreateTableStmt) Accept(v Visitor) error { return v.VisitCreateTable(s) }

// IsPrimaryKey reports whether column is part of the primary key.
func (s *CreateTableStmt) IsPrimaryKey(column string) bool {
	for _, c := range s.PrimaryKey {
		if c == column {
			return true
		}
	}
	return false
}

// IsUnique reports whether column appears in any unique constraint.
func (s *CreateTableStmt) IsUnique(column string) bool {
	for _, u := range s.Uniques {
		for _, c := range u.Columns {
			if c == column {
				return true
			}
		}
	}
	return false
}

// DropTableStmt is the configuration of a DROP TABLE statement.
type DropTableStmt struct {
	Table    string
	IfExists bool
	Cascade  bool
}

func (s *DropTableStmt) Type() NodeType { return NodeDropTable }

func (s *DropTableStmt) Accept(v Visitor) error { return v.VisitDropTable(s) }
