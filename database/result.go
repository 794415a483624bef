package database

import "fmt"

// Result iterates the rows of an executed statement. Statements that do
// not return rows yield an empty sequence and report RowsAffected.
type Result struct {
	rows     Rows
	columns  []string
	affected int64
	done     bool
}

// NewRowsResult wraps an open cursor. The cursor is closed once drained.
func NewRowsResult(rows Rows) (*Result, error) {
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, err
	}
	return &Result{rows: rows, columns: cols, affected: -1}, nil
}

// NewExecResult returns a row-less result.
func NewExecResult(affected int64) *Result {
	return &Result{affected: affected, done: true}
}

func (r *Result) Columns() []string {
	return r.columns
}

// RowsAffected is -1 for row-returning statements.
func (r *Result) RowsAffected() int64 {
	return r.affected
}

// NextRow returns the next row, or nil once the sequence is exhausted.
// Reading past the end keeps returning nil.
func (r *Result) NextRow() (*Row, error) {
	if r.done {
		return nil, nil
	}

	if !r.rows.Next() {
		r.done = true
		err := r.rows.Err()
		if cerr := r.rows.Close(); err == nil {
			err = cerr
		}
		return nil, err
	}

	values := make([]any, len(r.columns))
	ptrs := make([]any, len(r.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("scan row: %w", err)
	}

	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}

	return &Row{columns: r.columns, values: values}, nil
}

// AllRows drains the remaining rows.
func (r *Result) AllRows() ([]*Row, error) {
	var out []*Row
	for {
		row, err := r.NextRow()
		if err != nil {
			return out, err
		}
		if row == nil {
			return out, nil
		}
		out = append(out, row)
	}
}

// Close releases the cursor early. Further NextRow calls return nil.
func (r *Result) Close() error {
	if r.done {
		return nil
	}
	r.done = true
	return r.rows.Close()
}

// Row is an ordered mapping from column name to value.
type Row struct {
	columns []string
	values  []any
}

func NewRow(columns []string, values []any) *Row {
	return &Row{columns: columns, values: values}
}

func (r *Row) Columns() []string { return r.columns }

func (r *Row) Values() []any { return r.values }

func (r *Row) Len() int { return len(r.values) }

// Get returns the value of the first column named name.
func (r *Row) Get(name string) (any, bool) {
	for i, c := range r.columns {
		if c == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// Map returns the row as a map. Later duplicate column names win.
func (r *Row) Map() map[string]any {
	m := make(map[string]any, len(r.columns))
	for i, c := range r.columns {
		m[c] = r.values[i]
	}
	return m
}

// Collect drains res, converting each row with fn, and closes it.
func Collect[T any](res *Result, fn func(*Row) (T, error)) ([]T, error) {
	defer res.Close()

	var out []T
	for {
		row, err := res.NextRow()
		if err != nil {
			return out, err
		}
		if row == nil {
			return out, nil
		}
		v, err := fn(row)
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}
