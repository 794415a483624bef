package database

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sentience-Framework/sentience-v3-sub001/sqlerr"
)

type fakeRows struct {
	columns []string
	data    [][]any
	pos     int
	closed  bool
	err     error
}

func (f *fakeRows) Next() bool {
	if f.pos >= len(f.data) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	row := f.data[f.pos-1]
	for i, d := range dest {
		*(d.(*any)) = row[i]
	}
	return nil
}

func (f *fakeRows) Close() error               { f.closed = true; return nil }
func (f *fakeRows) Columns() ([]string, error) { return f.columns, nil }
func (f *fakeRows) Err() error                 { return f.err }

func TestResultIteration(t *testing.T) {
	rows := &fakeRows{
		columns: []string{"id", "name"},
		data:    [][]any{{int64(1), []byte("ann")}, {int64(2), "bob"}},
	}
	res, err := NewRowsResult(rows)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, res.Columns())
	assert.Equal(t, int64(-1), res.RowsAffected())

	row, err := res.NextRow()
	require.NoError(t, err)
	require.NotNil(t, row)
	name, ok := row.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "ann", name)
	assert.Equal(t, map[string]any{"id": int64(1), "name": "ann"}, row.Map())

	rest, err := res.AllRows()
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, []any{int64(2), "bob"}, rest[0].Values())
	assert.True(t, rows.closed)

	for i := 0; i < 3; i++ {
		row, err = res.NextRow()
		assert.NoError(t, err)
		assert.Nil(t, row)
	}
}

func TestResultPropagatesCursorError(t *testing.T) {
	boom := errors.New("cursor broke")
	res, err := NewRowsResult(&fakeRows{columns: []string{"a"}, err: boom})
	require.NoError(t, err)

	row, err := res.NextRow()
	assert.Nil(t, row)
	assert.ErrorIs(t, err, boom)
}

func TestExecResult(t *testing.T) {
	res := NewExecResult(3)
	assert.Equal(t, int64(3), res.RowsAffected())
	assert.Empty(t, res.Columns())
	row, err := res.NextRow()
	assert.NoError(t, err)
	assert.Nil(t, row)
	rows, err := res.AllRows()
	assert.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, res.Close())
}

func TestCollect(t *testing.T) {
	type user struct {
		ID   int64
		Name string
	}
	res, err := NewRowsResult(&fakeRows{
		columns: []string{"id", "name"},
		data:    [][]any{{int64(1), "ann"}, {int64(2), "bob"}},
	})
	require.NoError(t, err)

	users, err := Collect(res, func(r *Row) (user, error) {
		id, _ := r.Get("id")
		name, _ := r.Get("name")
		return user{ID: id.(int64), Name: name.(string)}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []user{{1, "ann"}, {2, "bob"}}, users)
}

func TestFormatDebugBlock(t *testing.T) {
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	block := FormatDebugBlock("SELECT 1", start, errors.New("nope"))

	lines := strings.Split(strings.TrimSpace(block), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Timestamp: 2024-01-02 03:04:05.000000", lines[0])
	assert.Equal(t, "Query: SELECT 1", lines[1])
	assert.Regexp(t, `^Time: \d+\.\d{2} ms$`, lines[2])
	assert.Equal(t, "Error: nope", lines[3])

	assert.NotContains(t, FormatDebugBlock("SELECT 1", time.Now(), nil), "Error:")
}

func TestSlogDebugHook(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	hook := SlogDebugHook(logger)
	hook("SELECT 1", time.Now(), nil)
	hook("SELECT 2", time.Now(), errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"msg":"query executed"`)
	assert.Contains(t, out, `"query":"SELECT 1"`)
	assert.Contains(t, out, `"msg":"query failed"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"time_ms"`)
}

func TestDriverErrorTranslation(t *testing.T) {
	o := newOptions([]Option{WithErrorTranslator(func(err error) *sqlerr.DriverError {
		return &sqlerr.DriverError{Message: "translated", Code: "42", Err: err}
	})})

	err := o.driverError("SELECT 1", errors.New("raw"))
	var de *sqlerr.DriverError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "SELECT 1", de.SQL)
	assert.Equal(t, "42", de.Code)
	assert.Equal(t, "translated", de.Message)

	plain := newOptions(nil).driverError("SELECT 2", errors.New("raw"))
	require.True(t, errors.As(plain, &de))
	assert.Equal(t, "raw", de.Message)
	assert.Nil(t, newOptions(nil).driverError("SELECT 3", nil))
}
