package dialect

import (
	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
	"github.com/Sentience-Framework/sentience-v3-sub001/visitor"
)

// ANSI is the generic SQL:2008 fallback for engines without a dedicated
// dialect. Upserts, regular expressions and RETURNING are rejected.
type ANSI struct {
	compiler
}

func NewANSI() *ANSI {
	a := &ANSI{}
	a.compiler = compiler{g: a}
	return a
}

var ansiLiterals = literalStyle{
	escape:     doubleQuotes,
	trueLit:    "TRUE",
	falseLit:   "FALSE",
	timeLayout: "2006-01-02 15:04:05.000000",
	bytes:      hexBlob,
	nativeBool: true,
	nativeTime: true,
}

func (a *ANSI) Name() string { return "ansi" }

func (a *ANSI) Placeholder(n int) string { return questionMark(n) }

func (a *ANSI) EscapeIdentifier(name string) string {
	return quoteIdentifier(name, `"`)
}

func (a *ANSI) EscapeString(s string) string { return doubleQuotes(s) }

func (a *ANSI) CastToDriver(v any) any { return ansiLiterals.toDriver(v) }

func (a *ANSI) CastToQuery(v any) string { return ansiLiterals.toQuery(v) }

func (a *ANSI) ColumnType(scalar ast.ScalarType, autoIncrement, primaryKey, unique bool) string {
	switch scalar {
	case ast.TypeBool:
		return "BOOLEAN"
	case ast.TypeInt:
		return "BIGINT"
	case ast.TypeFloat:
		return "DOUBLE PRECISION"
	case ast.TypeTime:
		return "TIMESTAMP"
	case ast.TypeBytes:
		return "BLOB"
	case ast.TypeUUID:
		return "CHAR(36)"
	default:
		if primaryKey || unique {
			return "VARCHAR(255)"
		}
		return "CLOB"
	}
}

func (a *ANSI) Features() visitor.Features {
	return visitor.Features{
		FetchFirst:       true,
		DefaultValues:    true,
		AutoIncrement:    visitor.AutoIncrementIdentity,
		AlterColumn:      visitor.AlterColumnSplit,
		AlterConstraints: true,
		DropCascade:      true,
	}
}

func (a *ANSI) LastInsertIDQuery(string) (*params.Query, error) {
	return nil, sqlerr.Unsupported(a.Name(), "last insert id")
}
