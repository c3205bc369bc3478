package dberrors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn" // Import pgconn for PgError
	"github.com/mattn/go-sqlite3"
)

// PostgreSQL SQLSTATE codes the application cares about
const (
	pgUndefinedTable  = "42P01"
	pgUndefinedColumn = "42703"
)

// IsUndefinedTable reports whether err means a queried table does not exist,
// which usually points to a schema script that was not applied.
func IsUndefinedTable(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrError && strings.Contains(liteErr.Error(), "no such table")
	}

	// duckdb reports catalog misses as plain errors
	return strings.Contains(err.Error(), "Catalog Error: Table with name")
}

// IsUndefinedColumn reports whether err means a referenced column does not exist.
func IsUndefinedColumn(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedColumn
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrError && strings.Contains(liteErr.Error(), "no such column")
	}

	return strings.Contains(err.Error(), "Binder Error: Referenced column")
}

// IsCannotOpen reports whether err means the database file or server could not be reached.
func IsCannotOpen(err error) bool {
	if err == nil {
		return false
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrCantOpen || liteErr.Code == sqlite3.ErrNotADB
	}

	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}
