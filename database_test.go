package sentience

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/database"
	"github.com/Sentience-Framework/sentience-v3-sub001/query"
)

var errBoom = errors.New("boom")

func openSQLite(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, Config{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.CreateTable("users").
		Column("id", ast.TypeInt, query.AutoIncrement()).
		Column("name", ast.TypeString, query.NotNull()).
		Column("active", ast.TypeBool, query.Default(true)).
		PrimaryKeys("id").
		Unique("name").
		Execute(ctx)
	require.NoError(t, err)
	return db
}

func countUsers(t *testing.T, db *Database) int64 {
	t.Helper()
	res, err := db.Query(context.Background(), `SELECT COUNT(*) FROM "users"`)
	require.NoError(t, err)
	defer res.Close()
	row, err := res.NextRow()
	require.NoError(t, err)
	require.NotNil(t, row)
	return row.Values()[0].(int64)
}

func TestDatabaseBuildersExecuteThroughAdapter(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	assert.Equal(t, "sqlite", db.Dialect().Name())
	assert.NoError(t, db.Ping(ctx))

	_, err := db.Insert("users").Values(map[string]any{"name": "ann"}).Execute(ctx)
	require.NoError(t, err)
	id, err := db.LastInsertID(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = db.Insert("users").Values(map[string]any{"name": "bob", "active": false}).Execute(ctx)
	require.NoError(t, err)

	res, err := db.Update("users").Set("active", true).WhereEquals("name", "bob").Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected())

	res, err = db.Select("users").Columns("name").WhereEquals("active", true).OrderByAsc("name").Execute(ctx)
	require.NoError(t, err)
	names, err := database.Collect(res, func(r *database.Row) (string, error) {
		v, _ := r.Get("name")
		return v.(string), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ann", "bob"}, names)

	res, err = db.Delete("users").WhereEquals("name", "ann").Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected())
	assert.Equal(t, int64(1), countUsers(t, db))
}

func TestPreparedQueries(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	_, err := db.Prepared(ctx, `INSERT INTO "users" ("name") VALUES (?)`, "it's")
	require.NoError(t, err)

	res, err := db.PreparedNamed(ctx, `SELECT "name" FROM "users" WHERE "name" = :name AND "id" > :min`,
		map[string]any{"name": "it's", "min": 0})
	require.NoError(t, err)
	rows, err := res.AllRows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]any{"name": "it's"}, rows[0].Map())

	n, err := db.Exec(ctx, `DELETE FROM "users" WHERE "id" > 0`)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTransactionCommits(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	err := db.Transaction(ctx, func(tx *Database) error {
		assert.True(t, tx.InTransaction())
		_, err := tx.Insert("users").Value("name", "ann").Execute(ctx)
		return err
	})
	require.NoError(t, err)
	assert.False(t, db.InTransaction())
	assert.Equal(t, int64(1), countUsers(t, db))
}

func TestTransactionRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	err := db.Transaction(ctx, func(tx *Database) error {
		if _, err := tx.Insert("users").Value("name", "ann").Execute(ctx); err != nil {
			return err
		}
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, db.InTransaction())
	assert.Equal(t, int64(0), countUsers(t, db))
}

func TestTransactionRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	assert.PanicsWithValue(t, "kaboom", func() {
		_ = db.Transaction(ctx, func(tx *Database) error {
			_, _ = tx.Insert("users").Value("name", "ann").Execute(ctx)
			panic("kaboom")
		})
	})
	assert.False(t, db.InTransaction())
	assert.Equal(t, int64(0), countUsers(t, db))
}

func TestNestedTransactionJoinsOuter(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	err := db.Transaction(ctx, func(outer *Database) error {
		_, err := outer.Insert("users").Value("name", "ann").Execute(ctx)
		require.NoError(t, err)
		return outer.Transaction(ctx, func(inner *Database) error {
			assert.True(t, inner.InTransaction())
			return errBoom
		})
	})
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, db.InTransaction())
	assert.Equal(t, int64(0), countUsers(t, db))
}

func TestCommitAndRollbackWithoutTransaction(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	ok, err := db.CommitTransaction(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = db.RollbackTransaction(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = db.BeginTransaction(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = db.BeginTransaction(ctx)
	assert.NoError(t, err)
	assert.False(t, ok, "nested begin is a no-op")
	ok, err = db.RollbackTransaction(ctx)
	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle", Host: "h"})
	assert.ErrorContains(t, err, "provider oracle not registered")

	_, err = Open(context.Background(), Config{Driver: "sqlite"})
	assert.ErrorContains(t, err, "path is required")
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "database.yaml")
	require.NoError(t, os.WriteFile(path, []byte("driver: sqlite\npath: "+filepath.Join(dir, "app.db")+"\nquery_timeout: 5s\n"), 0o600))

	db, err := OpenFile(context.Background(), path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(context.Background(), `CREATE TABLE "t" ("id" INTEGER)`)
	assert.NoError(t, err)
}
