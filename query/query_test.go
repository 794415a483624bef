package query

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/Sentience-Framework/sentience-v3-sub001/ast"
	"github.com/Sentience-Framework/sentience-v3-sub001/database"
	"github.com/Sentience-Framework/sentience-v3-sub001/dialect"
	"github.com/Sentience-Framework/sentience-v3-sub001/params"
	"github.com/Sentience-Framework/sentience-v3-sub001/schema"
	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
)

var (
	sqlite   = dialect.NewSQLite()
	postgres = dialect.NewPostgres()
	mysql    = dialect.NewMySQL()
	ansi     = dialect.NewANSI()
)

type recordingExecutor struct {
	d       dialect.Dialect
	queries []*params.Query
	fail    error
}

func (r *recordingExecutor) Dialect() dialect.Dialect { return r.d }

func (r *recordingExecutor) Execute(_ context.Context, q *params.Query) (*database.Result, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	r.queries = append(r.queries, q)
	return database.NewExecResult(1), nil
}

func build(t *testing.T, b interface {
	Build() (*params.Query, error)
}) *params.Query {
	t.Helper()
	q, err := b.Build()
	require.NoError(t, err)
	return q
}

func TestSelectWhereEquals(t *testing.T) {
	q := build(t, NewSelectBuilder("users", sqlite, nil).WhereEquals("id", 5))
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" = ?`, q.SQL)
	assert.Equal(t, []any{5}, q.Args)
}

func TestInsertOnConflictUpdate(t *testing.T) {
	insert := func(d dialect.Dialect) *InsertBuilder {
		return NewInsertBuilder("users", d, nil).
			Values(map[string]any{"name": "a", "active": true}).
			OnConflictUpdate([]string{"id"}, nil, "id")
	}

	q := build(t, insert(mysql))
	assert.Equal(t, "INSERT INTO `users` (`active`, `name`) VALUES (?, ?) ON DUPLICATE KEY UPDATE "+
		"`id` = LAST_INSERT_ID(`id`), `active` = VALUES(`active`), `name` = VALUES(`name`)", q.SQL)
	assert.Equal(t, []any{true, "a"}, q.Args)

	for _, d := range []dialect.Dialect{postgres, sqlite} {
		q := build(t, insert(d))
		assert.Equal(t, `INSERT INTO "users" ("active", "name") VALUES (?, ?) ON CONFLICT ("id") DO UPDATE SET `+
			`"active" = EXCLUDED."active", "name" = EXCLUDED."name"`, q.SQL, d.Name())
	}
}

func TestConditionChainsAndGroups(t *testing.T) {
	q := build(t, NewSelectBuilder("t", postgres, nil).
		WhereEquals("a", 1).
		OrWhereGroup(func(g *GroupBuilder) {
			g.WhereEquals("b", 2).OrWhereGroup(func(g *GroupBuilder) {
				g.WhereNull("c").WhereNotEquals("d", nil)
			})
		}).
		WhereGroup(func(g *GroupBuilder) {}))

	assert.Equal(t, `SELECT * FROM "t" WHERE "a" = ? OR ("b" = ? OR ("c" IS NULL AND "d" IS NOT NULL))`, q.SQL)
	assert.Equal(t, []any{1, 2}, q.Args)
}

func TestEmptyGroupIsDropped(t *testing.T) {
	q := build(t, NewSelectBuilder("t", postgres, nil).WhereGroup(func(*GroupBuilder) {}))
	assert.Equal(t, `SELECT * FROM "t"`, q.SQL)
}

func TestEmptyInLists(t *testing.T) {
	tests := []struct {
		name string
		d    dialect.Dialect
		want string
	}{
		{"sqlite", sqlite, `SELECT * FROM "t" WHERE 1 = 0 OR 1 = 1`},
		{"postgres", postgres, `SELECT * FROM "t" WHERE 1 = 0 OR 1 = 1`},
		{"mysql", mysql, "SELECT * FROM `t` WHERE 1 = 0 OR 1 = 1"},
		{"ansi", ansi, `SELECT * FROM "t" WHERE 1 = 0 OR 1 = 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := build(t, NewSelectBuilder("t", tt.d, nil).WhereIn("id", nil).OrWhereNotIn("id", []any{}))
			assert.Equal(t, tt.want, q.SQL)
			assert.Empty(t, q.Args)
		})
	}

	q := build(t, NewSelectBuilder("t", sqlite, nil).WhereIn("id", List([]int{1, 2, 3})))
	assert.Equal(t, `SELECT * FROM "t" WHERE "id" IN (?, ?, ?)`, q.SQL)
	assert.Equal(t, []any{1, 2, 3}, q.Args)
}

type adapterExecutor struct {
	database.Adapter
}

func (e adapterExecutor) Execute(ctx context.Context, q *params.Query) (*database.Result, error) {
	return e.QueryWithParams(ctx, q)
}

func TestEmptyInMatchesNothing(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	a, err := database.NewSQLAdapter(ctx, db, sqlite)
	require.NoError(t, err)
	a.OwnDB()
	t.Cleanup(func() { _ = a.Close() })

	_, err = a.Exec(ctx, `CREATE TABLE "t" ("id" INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = a.Exec(ctx, `INSERT INTO "t" ("id") VALUES (1), (2)`)
	require.NoError(t, err)

	count := func(sb *SelectBuilder) int {
		res, err := sb.Execute(ctx)
		require.NoError(t, err)
		rows, err := res.AllRows()
		require.NoError(t, err)
		return len(rows)
	}
	exec := adapterExecutor{a}
	assert.Equal(t, 0, count(NewSelectBuilder("t", nil, exec).WhereIn("id", nil)))
	assert.Equal(t, 2, count(NewSelectBuilder("t", nil, exec).WhereNotIn("id", nil)))
	assert.Equal(t, 1, count(NewSelectBuilder("t", nil, exec).WhereIn("id", []any{2, 3})))
}

func TestLikeFamilyEscaping(t *testing.T) {
	q := build(t, NewSelectBuilder("t", postgres, nil).
		WhereContains("name", "50%_off!").
		WhereStartsWith("code", "a_").
		OrWhereEndsWith("code", "%").
		WhereNotContains("name", "x").
		WhereLike("raw", "a%"))

	assert.Equal(t, `SELECT * FROM "t" WHERE "name" LIKE ? ESCAPE '!' AND "code" LIKE ? ESCAPE '!' `+
		`OR "code" LIKE ? ESCAPE '!' AND "name" NOT LIKE ? ESCAPE '!' AND "raw" LIKE ?`, q.SQL)
	assert.Equal(t, []any{"%50!%!_off!!%", "a!_%", "%!%", "%x%", "a%"}, q.Args)
}

func TestBetweenAndEmpty(t *testing.T) {
	q := build(t, NewSelectBuilder("t", mysql, nil).
		WhereBetween("age", 18, 30).
		OrWhereNotBetween("age", 40, 50).
		WhereEmpty("bio").
		WhereNotEmpty("name"))

	assert.Equal(t, "SELECT * FROM `t` WHERE `age` BETWEEN ? AND ? OR `age` NOT BETWEEN ? AND ? "+
		"AND (`bio` IS NULL OR `bio` = '') AND (`name` IS NOT NULL AND `name` <> '')", q.SQL)
	assert.Equal(t, []any{18, 30, 40, 50}, q.Args)
}

func TestEmptyOnRawExpression(t *testing.T) {
	q := build(t, NewSelectBuilder("t", postgres, nil).WhereEmpty(ast.RawSQL("TRIM(?)", "x")))
	assert.Equal(t, `SELECT * FROM "t" WHERE (TRIM(?) IS NULL OR TRIM(?) = '')`, q.SQL)
	assert.Equal(t, []any{"x", "x"}, q.Args)

	_, err := NewSelectBuilder("t", postgres, nil).WhereNotEmpty(ast.RawSQL("COALESCE(?, ?)", 1)).Build()
	var mismatch *sqlerr.ParameterCountMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestTextualWhere(t *testing.T) {
	q := build(t, NewSelectBuilder("t", sqlite, nil).
		Where("age", ">=", 18).
		OrWhere("id", "in", []any{1, 2}).
		Where("deleted_at", "IS", nil))
	assert.Equal(t, `SELECT * FROM "t" WHERE "age" >= ? OR "id" IN (?, ?) AND "deleted_at" IS NULL`, q.SQL)
	assert.Equal(t, []any{18, 1, 2}, q.Args)

	_, err := NewSelectBuilder("t", sqlite, nil).Where("a", "<=>", 1).Build()
	assert.ErrorIs(t, err, sqlerr.ErrInvalidQuery)

	_, err = NewSelectBuilder("t", sqlite, nil).Where("a", "IN", 1).Build()
	assert.ErrorIs(t, err, sqlerr.ErrInvalidQuery)
}

func TestRawConditionValidatesPlaceholders(t *testing.T) {
	q := build(t, NewSelectBuilder("t", postgres, nil).
		WhereRaw(`"data" #> '{a}' = ?`, "x").
		WhereRaw(`"tags" && ARRAY[?, ?]`, "a", "b"))
	assert.Equal(t, `SELECT * FROM "t" WHERE ("data" #> '{a}' = ?) AND ("tags" && ARRAY[?, ?])`, q.SQL)
	assert.Equal(t, []any{"x", "a", "b"}, q.Args)

	raw, err := NewSelectBuilder("t", postgres, nil).WhereRaw(`"tags" && ARRAY[?]`, "a").ToRawSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "t" WHERE ("tags" && ARRAY['a'])`, raw)


	q = build(t, NewSelectBuilder("t", sqlite, nil).WhereRaw("a = ? OR b = '?'", 1))
	assert.Equal(t, `SELECT * FROM "t" WHERE (a = ? OR b = '?')`, q.SQL)
	assert.Equal(t, []any{1}, q.Args)

	_, err = NewSelectBuilder("t", sqlite, nil).WhereRaw("a = ? AND b = ?", 1).Build()
	var mismatch *sqlerr.ParameterCountMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 2, mismatch.Placeholders)
	assert.Equal(t, 1, mismatch.Params)
}

func TestSubqueries(t *testing.T) {
	orders := NewSelectBuilder("orders", sqlite, nil).Columns("user_id").WhereGreaterThan("total", 100)

	q := build(t, NewSelectBuilder("users", sqlite, nil).
		WhereInSubquery("id", orders).
		OrWhereNotExists(NewSelectBuilder("bans", sqlite, nil).WhereRaw(`"bans"."user_id" = "users"."id"`)))

	assert.Equal(t, `SELECT * FROM "users" WHERE "id" IN (SELECT "user_id" FROM "orders" WHERE "total" > ?) `+
		`OR NOT EXISTS (SELECT * FROM "bans" WHERE ("bans"."user_id" = "users"."id"))`, q.SQL)
	assert.Equal(t, []any{100}, q.Args)
}

func TestSubqueryIsSnapshotted(t *testing.T) {
	sub := NewSelectBuilder("orders", sqlite, nil).Columns("user_id")
	outer := NewSelectBuilder("users", sqlite, nil).WhereInSubquery("id", sub)
	sub.WhereEquals("late", true)

	q := build(t, outer)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" IN (SELECT "user_id" FROM "orders")`, q.SQL)
}

func TestSubqueryErrorsPropagate(t *testing.T) {
	sub := NewSelectBuilder("orders", sqlite, nil).Columns(42)
	_, err := NewSelectBuilder("users", sqlite, nil).WhereExists(sub).Build()
	assert.ErrorIs(t, err, sqlerr.ErrInvalidQuery)
}

func TestSelectClauses(t *testing.T) {
	q := build(t, NewSelectBuilder("users AS u", postgres, nil).
		Distinct().
		Columns("u.id", "p.title AS post", ast.RawSQL("COUNT(*) AS n")).
		LeftJoin("posts AS p", "user_id", "", "id").
		InnerJoin("teams", "id", "u", "team_id").
		GroupBy("u.id", "p.title").
		Having(func(g *GroupBuilder) { g.WhereRaw("COUNT(*) > ?", 2) }).
		OrderByDesc("u.id").
		OrderByAsc("p.title").
		LimitOffset(10, 20))

	assert.Equal(t, `SELECT DISTINCT "u"."id", "p"."title" AS "post", COUNT(*) AS n FROM "users" AS "u" `+
		`LEFT JOIN "posts" AS "p" ON "p"."user_id" = "u"."id" `+
		`INNER JOIN "teams" ON "teams"."id" = "u"."team_id" `+
		`GROUP BY "u"."id", "p"."title" HAVING (COUNT(*) > ?) `+
		`ORDER BY "u"."id" DESC, "p"."title" ASC LIMIT 10 OFFSET 20`, q.SQL)
	assert.Equal(t, []any{2}, q.Args)
}

func TestRawJoin(t *testing.T) {
	q := build(t, NewSelectBuilder("users", mysql, nil).Join("CROSS JOIN `flags` AS f"))
	assert.Equal(t, "SELECT * FROM `users` CROSS JOIN `flags` AS f", q.SQL)
}

func TestBuildIsIdempotent(t *testing.T) {
	sb := NewSelectBuilder("users", postgres, nil).WhereEquals("id", 1).Limit(1)
	first := build(t, sb)
	second := build(t, sb)
	assert.Equal(t, first, second)

	sb.WhereEquals("active", true)
	third := build(t, sb)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" = ? LIMIT 1`, first.SQL)
	assert.Equal(t, `SELECT * FROM "users" WHERE "id" = ? AND "active" = ? LIMIT 1`, third.SQL)
	assert.Equal(t, []any{1}, first.Args)
}

func TestRegexPolicy(t *testing.T) {
	q := build(t, NewSelectBuilder("t", postgres, nil).WhereRegex("name", "^a"))
	assert.Equal(t, `SELECT * FROM "t" WHERE "name" ~ ?`, q.SQL)

	q = build(t, NewSelectBuilder("t", sqlite, nil).OrWhereNotRegex("name", "^a"))
	assert.Equal(t, `SELECT * FROM "t" WHERE "name" NOT REGEXP ?`, q.SQL)

	_, err := NewSelectBuilder("t", ansi, nil).WhereRegex("name", "^a").Build()
	var unsupported *sqlerr.UnsupportedDialectFeatureError
	assert.True(t, errors.As(err, &unsupported))
}

func TestToRawSQL(t *testing.T) {
	raw, err := NewSelectBuilder("users", sqlite, nil).
		WhereEquals("name", "it's").
		WhereEquals("note", "a ? and :id").
		ToRawSQL()
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "users" WHERE "name" = 'it''s' AND "note" = 'a ? and :id'`, raw)
}

func TestInsertBuilder(t *testing.T) {
	q := build(t, NewInsertBuilder("tags", postgres, nil).
		AddRow(map[string]any{"name": "a"}).
		AddRow(map[string]any{"name": "b"}).
		Returning("id"))
	assert.Equal(t, `INSERT INTO "tags" ("name") VALUES (?), (?) RETURNING "id"`, q.SQL)
	assert.Equal(t, []any{"a", "b"}, q.Args)

	q = build(t, NewInsertBuilder("tags", sqlite, nil))
	assert.Equal(t, `INSERT INTO "tags" DEFAULT VALUES`, q.SQL)

	q = build(t, NewInsertBuilder("tags", mysql, nil).Value("name", "x").OnConflictIgnore("name"))
	assert.Equal(t, "INSERT IGNORE INTO `tags` (`name`) VALUES (?)", q.SQL)

	_, err := NewInsertBuilder("tags", sqlite, nil).
		AddRow(map[string]any{"name": "a"}).
		AddRow(map[string]any{"slug": "b"}).
		Build()
	assert.ErrorIs(t, err, sqlerr.ErrInvalidQuery)

	_, err = NewInsertBuilder("tags", mysql, nil).Value("name", "x").Returning("id").Build()
	var unsupported *sqlerr.UnsupportedDialectFeatureError
	assert.True(t, errors.As(err, &unsupported))
}

func TestInsertExplicitUpdates(t *testing.T) {
	q := build(t, NewInsertBuilder("counters", postgres, nil).
		Values(map[string]any{"name": "hits", "hits": 1}).
		OnConflictUpdate([]string{"name"}, map[string]any{"hits": ast.RawSQL(`"counters"."hits" + 1`)}, ""))
	assert.Equal(t, `INSERT INTO "counters" ("hits", "name") VALUES (?, ?) ON CONFLICT ("name") `+
		`DO UPDATE SET "hits" = "counters"."hits" + 1`, q.SQL)
	assert.Equal(t, []any{1, "hits"}, q.Args)
}

func TestInsertGenerateID(t *testing.T) {
	ib := NewInsertBuilder("users", postgres, nil).GenerateID("id", "uuid").Value("name", "a")
	q := build(t, ib)
	require.Len(t, q.Args, 2)
	assert.IsType(t, uuid.UUID{}, q.Args[0])

	_, err := NewInsertBuilder("users", postgres, nil).GenerateID("id", "nope").Build()
	assert.Error(t, err)
}

func TestUpdateBuilder(t *testing.T) {
	q := build(t, NewUpdateBuilder("users", postgres, nil).
		Values(map[string]any{"name": "b", "active": false}).
		Set("visits", ast.RawSQL(`"visits" + ?`, 1)).
		Set("name", "c").
		WhereEquals("id", 7).
		Returning("id"))

	assert.Equal(t, `UPDATE "users" SET "active" = ?, "name" = ?, "visits" = "visits" + ? WHERE "id" = ? RETURNING "id"`, q.SQL)
	assert.Equal(t, []any{false, "c", 1, 7}, q.Args)

	_, err := NewUpdateBuilder("users", postgres, nil).WhereEquals("id", 1).Build()
	assert.ErrorIs(t, err, sqlerr.ErrInvalidQuery)
}

func TestDeleteBuilder(t *testing.T) {
	q := build(t, NewDeleteBuilder("users", sqlite, nil).WhereLessThan("age", 18).OrWhereNull("email").Returning("id"))
	assert.Equal(t, `DELETE FROM "users" WHERE "age" < ? OR "email" IS NULL RETURNING "id"`, q.SQL)
	assert.Equal(t, []any{18}, q.Args)
}

func TestCreateTableBuilder(t *testing.T) {
	ct := NewCreateTableBuilder("posts", postgres, nil).
		IfNotExists().
		Column("id", ast.TypeInt, NotNull(), AutoIncrement()).
		Column("title", ast.TypeString, NotNull(), Default("untitled")).
		RawColumn("score", "NUMERIC(10, 2)").
		Column("user_id", ast.TypeInt).
		PrimaryKeys("id").
		UniqueNamed("posts_title_unique", "title").
		ForeignKey("user_id", OnDelete(ast.Cascade))

	q := build(t, ct)
	assert.Equal(t, `CREATE TABLE IF NOT EXISTS "posts" ("id" BIGSERIAL NOT NULL, "title" TEXT NOT NULL DEFAULT 'untitled', `+
		`"score" NUMERIC(10, 2), "user_id" BIGINT, PRIMARY KEY ("id"), CONSTRAINT "posts_title_unique" UNIQUE ("title"), `+
		`CONSTRAINT "fk_posts_user_id" FOREIGN KEY ("user_id") REFERENCES "users" ("id") ON DELETE CASCADE)`, q.SQL)
	assert.Empty(t, q.Args)

	q = build(t, NewCreateTableBuilder("posts", sqlite, nil).
		Column("id", ast.TypeInt, AutoIncrement()).
		Column("owner", ast.TypeInt).
		PrimaryKeys("id").
		ForeignKey("owner", References("accounts", "uid"), ConstraintName("fk_owner")))
	assert.Equal(t, `CREATE TABLE "posts" ("id" INTEGER PRIMARY KEY AUTOINCREMENT, "owner" INTEGER, `+
		`CONSTRAINT "fk_owner" FOREIGN KEY ("owner") REFERENCES "accounts" ("uid"))`, q.SQL)

	_, err := NewCreateTableBuilder("empty", sqlite, nil).Build()
	assert.ErrorIs(t, err, sqlerr.ErrInvalidQuery)
}

func TestAlterTableBuilder(t *testing.T) {
	ab := NewAlterTableBuilder("users", postgres, nil).
		AddColumn("age", ast.TypeInt, Default(0)).
		AlterColumn("age", ast.TypeInt, NotNull()).
		RenameColumn("email", "mail").
		AddForeignKey("team_id", ConstraintName("fk_team")).
		DropConstraint("old_fk").
		DropColumn("legacy")

	qs, err := ab.Build()
	require.NoError(t, err)
	require.Len(t, qs, 6)
	assert.Equal(t, `ALTER TABLE "users" ADD COLUMN "age" BIGINT DEFAULT 0`, qs[0].SQL)
	assert.Equal(t, `ALTER TABLE "users" ALTER COLUMN "age" SET DATA TYPE BIGINT, ALTER COLUMN "age" SET NOT NULL`, qs[1].SQL)
	assert.Equal(t, `ALTER TABLE "users" RENAME COLUMN "email" TO "mail"`, qs[2].SQL)
	assert.Equal(t, `ALTER TABLE "users" ADD CONSTRAINT "fk_team" FOREIGN KEY ("team_id") REFERENCES "teams" ("id")`, qs[3].SQL)
	assert.Equal(t, `ALTER TABLE "users" DROP CONSTRAINT "old_fk"`, qs[4].SQL)
	assert.Equal(t, `ALTER TABLE "users" DROP COLUMN "legacy"`, qs[5].SQL)

	_, err = NewAlterTableBuilder("users", sqlite, nil).AddUnique("uq", "email").Build()
	var unsupported *sqlerr.UnsupportedDialectFeatureError
	assert.True(t, errors.As(err, &unsupported))

	_, err = NewAlterTableBuilder("users", sqlite, nil).Build()
	assert.ErrorIs(t, err, sqlerr.ErrInvalidQuery)
}

func TestDefaultConstraintNames(t *testing.T) {
	q := build(t, NewCreateTableBuilder("members", postgres, nil).
		Column("email", ast.TypeString).
		Column("tenant", ast.TypeString).
		Column("team_id", ast.TypeInt).
		Unique("email", "tenant").
		ForeignKey("team_id"))
	assert.Equal(t, `CREATE TABLE "members" ("email" TEXT, "tenant" TEXT, "team_id" BIGINT, `+
		`CONSTRAINT "uq_members_email_tenant" UNIQUE ("email", "tenant"), `+
		`CONSTRAINT "fk_members_team_id" FOREIGN KEY ("team_id") REFERENCES "teams" ("id"))`, q.SQL)

	qs, err := NewAlterTableBuilder("members", postgres, nil).
		AddUnique("", "email", "tenant").
		AddForeignKey("team_id").
		DropConstraint(schema.UniqueName("members", "email", "tenant")).
		DropConstraint(schema.ForeignKeyName("members", "team_id")).
		Build()
	require.NoError(t, err)
	require.Len(t, qs, 4)
	assert.Equal(t, `ALTER TABLE "members" ADD CONSTRAINT "uq_members_email_tenant" UNIQUE ("email", "tenant")`, qs[0].SQL)
	assert.Equal(t, `ALTER TABLE "members" ADD CONSTRAINT "fk_members_team_id" FOREIGN KEY ("team_id") REFERENCES "teams" ("id")`, qs[1].SQL)
	assert.Equal(t, `ALTER TABLE "members" DROP CONSTRAINT "uq_members_email_tenant"`, qs[2].SQL)
	assert.Equal(t, `ALTER TABLE "members" DROP CONSTRAINT "fk_members_team_id"`, qs[3].SQL)
}

func TestAlterTableExecute(t *testing.T) {
	exec := &recordingExecutor{d: sqlite}
	err := NewAlterTableBuilder("users", nil, exec).
		AddColumn("age", ast.TypeInt).
		RenameTable("people").
		Execute(context.Background())
	require.NoError(t, err)
	require.Len(t, exec.queries, 2)
	assert.Equal(t, `ALTER TABLE "users" RENAME TO "people"`, exec.queries[1].SQL)

	exec.fail = errors.New("boom")
	err = NewAlterTableBuilder("users", nil, exec).Raw("ADD COLUMN x TEXT").Execute(context.Background())
	assert.ErrorIs(t, err, exec.fail)
}

func TestDropTableBuilder(t *testing.T) {
	q := build(t, NewDropTableBuilder("users", postgres, nil).IfExists().Cascade())
	assert.Equal(t, `DROP TABLE IF EXISTS "users" CASCADE`, q.SQL)

	_, err := NewDropTableBuilder("users", sqlite, nil).Cascade().Build()
	var unsupported *sqlerr.UnsupportedDialectFeatureError
	assert.True(t, errors.As(err, &unsupported))
}

func TestExecute(t *testing.T) {
	_, err := NewSelectBuilder("users", sqlite, nil).Execute(context.Background())
	assert.ErrorIs(t, err, sqlerr.ErrNoExecutor)

	exec := &recordingExecutor{d: mysql}
	res, err := NewDeleteBuilder("users", nil, exec).WhereEquals("id", 3).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.RowsAffected())
	require.Len(t, exec.queries, 1)
	assert.Equal(t, "DELETE FROM `users` WHERE `id` = ?", exec.queries[0].SQL)

	_, err = NewSelectBuilder("users", sqlite, exec).Columns(3.5).Execute(context.Background())
	assert.ErrorIs(t, err, sqlerr.ErrInvalidQuery)
	assert.Len(t, exec.queries, 1)
}

func TestMissingDialect(t *testing.T) {
	_, err := NewSelectBuilder("users", nil, nil).Build()
	assert.ErrorIs(t, err, sqlerr.ErrInvalidQuery)
}
