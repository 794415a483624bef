// Package dialect translates statement configurations into engine specific
// SQL and converts values between Go, driver and literal representations.
package dialect

import (
	"fmt"
	"strings"

	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
	"github.com/Sentience-Framework/sentience-v3-sub001/visitor"
)

// Dialect is stateless and safe to share between adapters.
type Dialect interface {
	Name() string
	Placeholder(n int) string

	Select(stmt *ast.SelectStmt) (*params.Query, error)
	Insert(stmt *ast.InsertStmt) (*params.Query, error)
	Update(stmt *ast.UpdateStmt) (*params.Query, error)
	Delete(stmt *ast.DeleteStmt) (*params.Query, error)
	CreateTable(stmt *ast.CreateTableStmt) (*params.Query, error)
	AlterTable(stmt *ast.AlterTableStmt) ([]*params.Query, error)
	DropTable(stmt *ast.DropTableStmt) (*params.Query, error)

	EscapeIdentifier(name string) string
	EscapeString(s string) string
	CastToDriver(value any) any
	CastToQuery(value any) string
	ColumnType(scalar ast.ScalarType, autoIncrement, primaryKey, unique bool) string
	Features() visitor.Features

	// LastInsertIDQuery returns the statement reading the id generated by
	// the last insert on the current connection.
	LastInsertIDQuery(sequence string) (*params.Query, error)
}

// compiler implements the statement methods of a Dialect by running the
// shared visitor with the embedding dialect as grammar.
type compiler struct {
	g visitor.Grammar
}

func (c compiler) build(node ast.Node) (*params.Query, error) {
	v := visitor.NewSQLVisitor(c.g)
	defer v.Release()
	return v.Build(node)
}

func (c compiler) Select(stmt *ast.SelectStmt) (*params.Query, error) { return c.build(stmt) }

func (c compiler) Insert(stmt *ast.InsertStmt) (*params.Query, error) { return c.build(stmt) }

func (c compiler) Update(stmt *ast.UpdateStmt) (*params.Query, error) { return c.build(stmt) }

func (c compiler) Delete(stmt *ast.DeleteStmt) (*params.Query, error) { return c.build(stmt) }

func (c compiler) CreateTable(stmt *ast.CreateTableStmt) (*params.Query, error) {
	return c.build(stmt)
}

func (c compiler) DropTable(stmt *ast.DropTableStmt) (*params.Query, error) { return c.build(stmt) }

func (c compiler) AlterTable(stmt *ast.AlterTableStmt) ([]*params.Query, error) {
	v := visitor.NewSQLVisitor(c.g)
	defer v.Release()
	return v.BuildBatch(stmt)
}

func quoteIdentifier(name string, quote string) string {
	return quote + strings.ReplaceAll(name, quote, quote+quote) + quote
}

func questionMark(int) string { return "?" }

var registry = map[string]func() Dialect{
	"mysql":    func() Dialect { return NewMySQL() },
	"mariadb":  func() Dialect { return NewMariaDB() },
	"postgres": func() Dialect { return NewPostgres() },
	"pgx":      func() Dialect { return NewPostgres() },
	"sqlite":   func() Dialect { return NewSQLite() },
	"sqlite3":  func() Dialect { return NewSQLite() },
	"ansi":     func() Dialect { return NewANSI() },
}

// ForDriver returns the dialect for a driver or provider name.
func ForDriver(name string) (Dialect, error) {
	if name == "" {
		return NewANSI(), nil
	}
	ctor, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("no dialect for driver %q", name)
	}
	return ctor(), nil
}
