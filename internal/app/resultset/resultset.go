// Package resultset wraps a live query cursor so it can be handed from the
// handler that issued the query to the exporter that eventually drains it.
package resultset

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrClosed is returned when reading from a closed result set that was never drained.
var ErrClosed = errors.New("result set is closed")

// Rows is the subset of *sql.Rows a ResultSet needs.
type Rows interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// ResultSet is a single-pass cursor over query rows. Column names are
// captured up front so they stay available after the rows are exhausted.
type ResultSet struct {
	rows      Rows
	columns   []string
	fetched   int
	exhausted bool
	closed    bool
}

// New wraps rows. On error the rows are closed.
func New(rows Rows) (*ResultSet, error) {
	columns, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}
	return &ResultSet{rows: rows, columns: columns}, nil
}

// FromSQL wraps the rows returned by a database/sql query.
func FromSQL(rows *sql.Rows) (*ResultSet, error) {
	return New(rows)
}

// Columns returns the column names in query order.
func (rs *ResultSet) Columns() []string {
	out := make([]string, len(rs.columns))
	copy(out, rs.columns)
	return out
}

// Next returns the next row's values, or ok=false once the cursor is exhausted.
func (rs *ResultSet) Next() (values []any, ok bool, err error) {
	if rs.exhausted {
		return nil, false, nil
	}
	if rs.closed {
		return nil, false, ErrClosed
	}

	if !rs.rows.Next() {
		rs.exhausted = true
		if err := rs.rows.Err(); err != nil {
			return nil, false, fmt.Errorf("failed to iterate rows: %w", err)
		}
		return nil, false, nil
	}

	values = make([]any, len(rs.columns))
	pointers := make([]any, len(rs.columns))
	for i := range values {
		pointers[i] = &values[i]
	}
	if err := rs.rows.Scan(pointers...); err != nil {
		return nil, false, fmt.Errorf("failed to scan row: %w", err)
	}
	for i, v := range values {
		values[i] = normalize(v)
	}

	rs.fetched++
	return values, true, nil
}

// FetchAll drains every remaining row. An exhausted cursor yields no rows and no error.
func (rs *ResultSet) FetchAll() ([][]any, error) {
	rows := [][]any{}
	for {
		values, ok, err := rs.Next()
		if err != nil {
			return rows, err
		}
		if !ok {
			return rows, nil
		}
		rows = append(rows, values)
	}
}

// Fetched reports how many rows have been consumed so far.
func (rs *ResultSet) Fetched() int {
	return rs.fetched
}

// Exhausted reports whether every row has been consumed.
func (rs *ResultSet) Exhausted() bool {
	return rs.exhausted
}

// Close releases the underlying cursor. It is safe to call more than once.
func (rs *ResultSet) Close() error {
	if rs.closed {
		return nil
	}
	rs.closed = true
	return rs.rows.Close()
}

// normalize turns driver byte slices into strings so values render as text.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
