package dialect

import (
	"strings"

	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
	"github.com/Sentience-Framework/sentience-v3-sub001/visitor"
)

const mysqlTimeLayout = "2006-01-02 15:04:05.000000"

// unboundedMySQLLimit is the largest LIMIT MySQL accepts; it stands in for
// "no limit" when only an offset is requested.
const unboundedMySQLLimit = "18446744073709551615"

type MySQL struct {
	compiler
}

func NewMySQL() *MySQL {
	m := &MySQL{}
	m.compiler = compiler{g: m}
	return m
}

var mysqlLiterals = literalStyle{
	escape:     escapeMySQLString,
	trueLit:    "1",
	falseLit:   "0",
	timeLayout: mysqlTimeLayout,
	bytes:      hexBlob,
}

func (m *MySQL) Name() string { return "mysql" }

func (m *MySQL) Placeholder(n int) string { return questionMark(n) }

func (m *MySQL) EscapeIdentifier(name string) string {
	return quoteIdentifier(name, "`")
}

func (m *MySQL) EscapeString(s string) string { return escapeMySQLString(s) }

// escapeMySQLString quotes s for MySQL, where backslash is an escape
// character inside string literals.
func escapeMySQLString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (m *MySQL) CastToDriver(v any) any { return mysqlLiterals.toDriver(v) }

func (m *MySQL) CastToQuery(v any) string { return mysqlLiterals.toQuery(v) }

func (m *MySQL) ColumnType(scalar ast.ScalarType, autoIncrement, primaryKey, unique bool) string {
	switch scalar {
	case ast.TypeBool:
		return "BOOLEAN"
	case ast.TypeInt:
		if primaryKey {
			return "INT"
		}
		return "BIGINT"
	case ast.TypeFloat:
		return "DOUBLE"
	case ast.TypeTime:
		return "DATETIME(6)"
	case ast.TypeBytes:
		return "LONGBLOB"
	case ast.TypeJSON:
		return "JSON"
	case ast.TypeUUID:
		return "CHAR(36)"
	default:
		// TEXT columns cannot be indexed without a prefix length.
		if primaryKey || unique {
			return "VARCHAR(255)"
		}
		return "TEXT"
	}
}

func (m *MySQL) Features() visitor.Features {
	return visitor.Features{
		Upsert:           visitor.UpsertDuplicateKey,
		Regex:            visitor.RegexKeyword,
		UnboundedLimit:   unboundedMySQLLimit,
		AutoIncrement:    visitor.AutoIncrementKeyword,
		AlterColumn:      visitor.AlterColumnModify,
		AlterConstraints: true,
		DropCascade:      true,
	}
}

func (m *MySQL) LastInsertIDQuery(string) (*params.Query, error) {
	return params.New("SELECT LAST_INSERT_ID()"), nil
}
