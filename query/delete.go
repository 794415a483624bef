package query

import (
	"context"

	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/database"
	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
)

type DeleteBuilder struct {
	*BaseBuilder
	Conditions[*DeleteBuilder]

	returning []string
}

func NewDeleteBuilder(table string, d dialect.Dialect, executor Executor) *DeleteBuilder {
	db := &DeleteBuilder{BaseBuilder: NewBaseBuilder(table, d, executor)}
	db.Conditions = newConditions(db, db.BaseBuilder)
	return db
}

func (db *DeleteBuilder) Returning(columns ...string) *DeleteBuilder {
	db.returning = append(db.returning, columns...)
	return db
}

// Build compiles the statement. It never mutates the builder.
func (db *DeleteBuilder) Build() (*params.Query, error) {
	if err := db.check(); err != nil {
		return nil, err
	}
	return db.dialect.Delete(&ast.DeleteStmt{
		Table:     db.tableName,
		Where:     db.group.Clone(),
		Returning: append([]string(nil), db.returning...),
	})
}

func (db *DeleteBuilder) ToRawSQL() (string, error) {
	return db.rawSQL(db.Build())
}

func (db *DeleteBuilder) Execute(ctx context.Context) (*database.Result, error) {
	q, err := db.Build()
	return db.execute(ctx, q, err)
}
