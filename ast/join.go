package ast

type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
)

func (k JoinKind) String() string {
	switch k {
	case LeftJoin:
		return "LEFT JOIN"
	case RightJoin:
		return "RIGHT JOIN"
	default:
		return "INNER JOIN"
	}
}

// JoinClause joins Table ON Table.TargetColumn = SourceTable.SourceColumn,
// or is a raw fragment when Raw is set.
type JoinClause struct {
	Kind         JoinKind
	Table        Fragment
	TargetColumn string
	SourceTable  string
	SourceColumn string
	Raw          *Raw
}
