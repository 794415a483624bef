package query

import (
	"context"
	"fmt"

	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/database"
	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
	"github.com/Sentience-Framework/sentience-v3-sub001/schema"
	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
)

// ColumnOption configures a column definition.
type ColumnOption func(*ast.ColumnDef)

func NotNull() ColumnOption {
	return func(c *ast.ColumnDef) { c.NotNull = true }
}

// Default sets a literal default rendered by the dialect. ast.Raw values
// such as ast.RawSQL("CURRENT_TIMESTAMP") are inlined.
func Default(value any) ColumnOption {
	return func(c *ast.ColumnDef) {
		c.Default = value
		c.HasDefault = true
	}
}

func AutoIncrement() ColumnOption {
	return func(c *ast.ColumnDef) { c.AutoIncrement = true }
}

// ForeignKeyOption configures a foreign key constraint.
type ForeignKeyOption func(*ast.ForeignKeyConstraint)

// References sets the referenced table and column. Without it the table is
// inferred from the column name (user_id -> users) and the column is id.
// Unnamed constraints are called fk_<table>_<column>.
func References(table, column string) ForeignKeyOption {
	return func(fk *ast.ForeignKeyConstraint) {
		fk.ReferenceTable = table
		fk.ReferenceColumn = column
	}
}

func OnDelete(action ast.ReferentialAction) ForeignKeyOption {
	return func(fk *ast.ForeignKeyConstraint) {
		fk.OnDelete = action
		fk.HasOnDelete = true
	}
}

func ConstraintName(name string) ForeignKeyOption {
	return func(fk *ast.ForeignKeyConstraint) { fk.Name = name }
}

func columnDef(name string, typ ast.ColumnType, opts []ColumnOption) ast.ColumnDef {
	col := ast.ColumnDef{Name: name, Type: typ}
	for _, opt := range opts {
		opt(&col)
	}
	return col
}

func foreignKey(table, column string, opts []ForeignKeyOption) ast.ForeignKeyConstraint {
	fk := ast.ForeignKeyConstraint{Column: column}
	for _, opt := range opts {
		opt(&fk)
	}
	if fk.Name == "" {
		fk.Name = schema.ForeignKeyName(table, column)
	}
	if fk.ReferenceTable == "" {
		fk.ReferenceTable = schema.ReferenceTable(column)
	}
	if fk.ReferenceColumn == "" {
		fk.ReferenceColumn = "id"
	}
	return fk
}

func uniqueConstraint(table, name string, columns []string) ast.UniqueConstraint {
	if name == "" {
		name = schema.UniqueName(table, columns...)
	}
	return ast.UniqueConstraint{Columns: append([]string(nil), columns...), Name: name}
}

type CreateTableBuilder struct {
	*BaseBuilder

	ifNotExists bool
	columns     []ast.ColumnDef
	primaryKey  []string
	uniques     []ast.UniqueConstraint
	foreignKeys []ast.ForeignKeyConstraint
}

func NewCreateTableBuilder(table string, d dialect.Dialect, executor Executor) *CreateTableBuilder {
	return &CreateTableBuilder{BaseBuilder: NewBaseBuilder(table, d, executor)}
}

func (cb *CreateTableBuilder) IfNotExists() *CreateTableBuilder {
	cb.ifNotExists = true
	return cb
}

// Column adds a column whose concrete type comes from the dialect's type
// table.
func (cb *CreateTableBuilder) Column(name string, scalar ast.ScalarType, opts ...ColumnOption) *CreateTableBuilder {
	cb.columns = append(cb.columns, columnDef(name, ast.ColumnType{Scalar: scalar}, opts))
	return cb
}

// RawColumn adds a column with a verbatim type such as "NUMERIC(10, 2)".
func (cb *CreateTableBuilder) RawColumn(name, typ string, opts ...ColumnOption) *CreateTableBuilder {
	cb.columns = append(cb.columns, columnDef(name, ast.ColumnType{Raw: typ}, opts))
	return cb
}

func (cb *CreateTableBuilder) PrimaryKeys(columns ...string) *CreateTableBuilder {
	cb.primaryKey = append(cb.primaryKey, columns...)
	return cb
}

// Unique adds a unique constraint named uq_<table>_<columns>.
func (cb *CreateTableBuilder) Unique(columns ...string) *CreateTableBuilder {
	cb.uniques = append(cb.uniques, uniqueConstraint(cb.tableName, "", columns))
	return cb
}

func (cb *CreateTableBuilder) UniqueNamed(name string, columns ...string) *CreateTableBuilder {
	cb.uniques = append(cb.uniques, uniqueConstraint(cb.tableName, name, columns))
	return cb
}

func (cb *CreateTableBuilder) ForeignKey(column string, opts ...ForeignKeyOption) *CreateTableBuilder {
	cb.foreignKeys = append(cb.foreignKeys, foreignKey(cb.tableName, column, opts))
	return cb
}

// Build compiles the statement. It never mutates the builder.
func (cb *CreateTableBuilder) Build() (*params.Query, error) {
	if err := cb.check(); err != nil {
		return nil, err
	}
	if len(cb.columns) == 0 {
		return nil, fmt.Errorf("%w: table %q has no columns", sqlerr.ErrInvalidQuery, cb.tableName)
	}
	return cb.dialect.CreateTable(&ast.CreateTableStmt{
		Table:       cb.tableName,
		IfNotExists: cb.ifNotExists,
		Columns:     append([]ast.ColumnDef(nil), cb.columns...),
		PrimaryKey:  append([]string(nil), cb.primaryKey...),
		Uniques:     append([]ast.UniqueConstraint(nil), cb.uniques...),
		ForeignKeys: append([]ast.ForeignKeyConstraint(nil), cb.foreignKeys...),
	})
}

func (cb *CreateTableBuilder) ToRawSQL() (string, error) {
	return cb.rawSQL(cb.Build())
}

func (cb *CreateTableBuilder) Execute(ctx context.Context) (*database.Result, error) {
	q, err := cb.Build()
	return cb.execute(ctx, q, err)
}

type DropTableBuilder struct {
	*BaseBuilder

	ifExists bool
	cascade  bool
}

func NewDropTableBuilder(table string, d dialect.Dialect, executor Executor) *DropTableBuilder {
	return &DropTableBuilder{BaseBuilder: NewBaseBuilder(table, d, executor)}
}

func (db *DropTableBuilder) IfExists() *DropTableBuilder {
	db.ifExists = true
	return db
}

func (db *DropTableBuilder) Cascade() *DropTableBuilder {
	db.cascade = true
	return db
}

func (db *DropTableBuilder) Build() (*params.Query, error) {
	if err := db.check(); err != nil {
		return nil, err
	}
	return db.dialect.DropTable(&ast.DropTableStmt{
		Table:    db.tableName,
		IfExists: db.ifExists,
		Cascade:  db.cascade,
	})
}

func (db *DropTableBuilder) ToRawSQL() (string, error) {
	return db.rawSQL(db.Build())
}

func (db *DropTableBuilder) Execute(ctx context.Context) (*database.Result, error) {
	q, err := db.Build()
	return db.execute(ctx, q, err)
}
