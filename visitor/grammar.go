package visitor

import (
	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
)

// Grammar supplies the dialect specific pieces the visitor cannot decide on
// its own.
type Grammar interface {
	Name() string
	EscapeIdentifier(name string) string
	CastToQuery(value any) string
	ColumnType(scalar ast.ScalarType, autoIncrement, primaryKey, unique bool) string
	Features() Features
}

type UpsertStyle int

const (
	UpsertNone UpsertStyle = iota
	UpsertOnConflict
	UpsertDuplicateKey
)

type RegexStyle int

const (
	RegexNone RegexStyle = iota
	// RegexOperator renders ~ and !~.
	RegexOperator
	// RegexKeyword renders REGEXP and NOT REGEXP.
	RegexKeyword
)

type AutoIncrementStyle int

const (
	// AutoIncrementKeyword appends AUTO_INCREMENT to the column.
	AutoIncrementKeyword AutoIncrementStyle = iota
	// AutoIncrementSerial relies on the column type alone (BIGSERIAL).
	AutoIncrementSerial
	// AutoIncrementInline declares the key inline as PRIMARY KEY AUTOINCREMENT.
	AutoIncrementInline
	// AutoIncrementIdentity appends GENERATED BY DEFAULT AS IDENTITY.
	AutoIncrementIdentity
)

type AlterColumnStyle int

const (
	AlterColumnNone AlterColumnStyle = iota
	// AlterColumnModify renders MODIFY COLUMN <definition>.
	AlterColumnModify
	// AlterColumnSetType renders ALTER COLUMN .. SET DATA TYPE plus nullability
	// as comma separated subclauses of one statement.
	AlterColumnSetType
	// AlterColumnSplit renders the same subclauses as separate statements.
	AlterColumnSplit
)

// Features lists the statement shapes a dialect can express.
type Features struct {
	ReturningInsert bool
	ReturningUpdate bool
	ReturningDelete bool

	Upsert UpsertStyle
	Regex  RegexStyle

	// UnboundedLimit is written as LIMIT when only an offset is set. Empty
	// means OFFSET may stand alone.
	UnboundedLimit string
	// FetchFirst renders OFFSET n ROWS FETCH FIRST m ROWS ONLY.
	FetchFirst bool

	// DefaultValues renders a column-less insert as DEFAULT VALUES instead
	// of () VALUES ().
	DefaultValues bool

	AutoIncrement    AutoIncrementStyle
	AlterColumn      AlterColumnStyle
	AlterConstraints bool
	DropCascade      bool

	// Syntax tokenizes raw fragments and finished statements.
	Syntax params.Syntax
}
