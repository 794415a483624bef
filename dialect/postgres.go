package dialect

import (
	"encoding/hex"
	"strconv"

	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
	"github.com/Sentience-Framework/sentience-v3-sub001/visitor"
)

type Postgres struct {
	compiler
}

func NewPostgres() *Postgres {
	p := &Postgres{}
	p.compiler = compiler{g: p}
	return p
}

var postgresLiterals = literalStyle{
	escape:     doubleQuotes,
	trueLit:    "TRUE",
	falseLit:   "FALSE",
	timeLayout: "2006-01-02 15:04:05.000000-07:00",
	bytes: func(b []byte) string {
		return `'\x` + hex.EncodeToString(b) + `'::bytea`
	},
	nativeBool: true,
	nativeTime: true,
}

func (p *Postgres) Name() string { return "postgres" }

// Placeholder returns the native $n marker. Templates are compiled with ?
// and rebound by the adapter.
func (p *Postgres) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (p *Postgres) EscapeIdentifier(name string) string {
	return quoteIdentifier(name, `"`)
}

func (p *Postgres) EscapeString(s string) string { return doubleQuotes(s) }

func (p *Postgres) CastToDriver(v any) any { return postgresLiterals.toDriver(v) }

func (p *Postgres) CastToQuery(v any) string { return postgresLiterals.toQuery(v) }

func (p *Postgres) ColumnType(scalar ast.ScalarType, autoIncrement, primaryKey, unique bool) string {
	switch scalar {
	case ast.TypeBool:
		return "BOOLEAN"
	case ast.TypeInt:
		if autoIncrement {
			return "BIGSERIAL"
		}
		return "BIGINT"
	case ast.TypeFloat:
		return "DOUBLE PRECISION"
	case ast.TypeTime:
		return "TIMESTAMP"
	case ast.TypeBytes:
		return "BYTEA"
	case ast.TypeJSON:
		return "JSONB"
	case ast.TypeUUID:
		return "UUID"
	default:
		return "TEXT"
	}
}

func (p *Postgres) Features() visitor.Features {
	return visitor.Features{
		ReturningInsert:  true,
		ReturningUpdate:  true,
		ReturningDelete:  true,
		Upsert:           visitor.UpsertOnConflict,
		Regex:            visitor.RegexOperator,
		DefaultValues:    true,
		AutoIncrement:    visitor.AutoIncrementSerial,
		AlterColumn:      visitor.AlterColumnSetType,
		AlterConstraints: true,
		DropCascade:      true,
		Syntax:           params.Syntax{HashOperators: true, ArraySubscripts: true},
	}
}

func (p *Postgres) LastInsertIDQuery(sequence string) (*params.Query, error) {
	if sequence != "" {
		return params.New("SELECT currval(?)", sequence), nil
	}
	return params.New("SELECT lastval()"), nil
}
