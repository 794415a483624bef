package dialect

import (
	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
	"github.com/Sentience-Framework/sentience-v3-sub001/visitor"
)

// SQLite renders REGEXP conditions; the connection must provide a regexp()
// function, which the sqlite provider registers.
type SQLite struct {
	compiler
}

func NewSQLite() *SQLite {
	s := &SQLite{}
	s.compiler = compiler{g: s}
	return s
}

var sqliteLiterals = literalStyle{
	escape:     doubleQuotes,
	trueLit:    "1",
	falseLit:   "0",
	timeLayout: "2006-01-02 15:04:05.000000",
	bytes:      hexBlob,
}

func (s *SQLite) Name() string { return "sqlite" }

func (s *SQLite) Placeholder(n int) string { return questionMark(n) }

func (s *SQLite) EscapeIdentifier(name string) string {
	return quoteIdentifier(name, `"`)
}

func (s *SQLite) EscapeString(str string) string { return doubleQuotes(str) }

func (s *SQLite) CastToDriver(v any) any { return sqliteLiterals.toDriver(v) }

func (s *SQLite) CastToQuery(v any) string { return sqliteLiterals.toQuery(v) }

func (s *SQLite) ColumnType(scalar ast.ScalarType, autoIncrement, primaryKey, unique bool) string {
	switch scalar {
	case ast.TypeBool:
		return "BOOLEAN"
	case ast.TypeInt:
		return "INTEGER"
	case ast.TypeFloat:
		return "REAL"
	case ast.TypeTime:
		return "DATETIME"
	case ast.TypeBytes:
		return "BLOB"
	default:
		return "TEXT"
	}
}

func (s *SQLite) Features() visitor.Features {
	return visitor.Features{
		ReturningInsert: true,
		ReturningUpdate: true,
		ReturningDelete: true,
		Upsert:          visitor.UpsertOnConflict,
		Regex:           visitor.RegexKeyword,
		UnboundedLimit:  "-1",
		DefaultValues:   true,
		AutoIncrement:   visitor.AutoIncrementInline,
		AlterColumn:     visitor.AlterColumnNone,
	}
}

func (s *SQLite) LastInsertIDQuery(string) (*params.Query, error) {
	return params.New("SELECT last_insert_rowid()"), nil
}
