package dberrors

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/mattn/go-sqlite3"
)

func TestPostgresClassification(t *testing.T) {
	missingTable := fmt.Errorf("query: %w", &pgconn.PgError{Code: "42P01", Message: `relation "student" does not exist`})
	missingColumn := &pgconn.PgError{Code: "42703"}

	if !IsUndefinedTable(missingTable) {
		t.Error("expected 42P01 to be an undefined table")
	}
	if IsUndefinedTable(missingColumn) {
		t.Error("42703 is not an undefined table")
	}
	if !IsUndefinedColumn(missingColumn) {
		t.Error("expected 42703 to be an undefined column")
	}
}

func TestSQLiteClassification(t *testing.T) {
	db, err := sql.Open("sqlite3", "file:dberrors_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	_, err = db.Exec("SELECT * FROM NoSuchTable")
	if !IsUndefinedTable(err) {
		t.Errorf("expected undefined table, got %v", err)
	}

	if _, err := db.Exec("CREATE TABLE Thing (id INTEGER)"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = db.Exec("SELECT missing FROM Thing")
	if !IsUndefinedColumn(err) {
		t.Errorf("expected undefined column, got %v", err)
	}
}

func TestIsCannotOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "x.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); !IsCannotOpen(err) {
		t.Errorf("expected cannot-open error, got %v", err)
	}
}

func TestNilAndUnrelated(t *testing.T) {
	if IsUndefinedTable(nil) || IsUndefinedColumn(nil) || IsCannotOpen(nil) {
		t.Error("nil must never classify")
	}
	if IsUndefinedTable(errors.New("boom")) {
		t.Error("unrelated error classified as undefined table")
	}
}
