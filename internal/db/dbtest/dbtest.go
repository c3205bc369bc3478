// Package dbtest opens throwaway in-memory sqlite databases with the bundled
// schema applied, for use in tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/yigit/coursedesk/internal/app/migrations"
	"github.com/yigit/coursedesk/internal/config"
	"github.com/yigit/coursedesk/internal/db"
	"github.com/yigit/coursedesk/internal/seed"
)

// NewEmpty returns a database with the schema applied and no rows.
func NewEmpty(t testing.TB) *db.Database {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", "file:"+uuid.NewString()+"?mode=memory&cache=shared&_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	database := db.Wrap(sqlDB, config.DriverSQLite)
	if err := migrations.NewMigrator(database).Apply(context.Background(), migrations.DefaultSchema); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}
	return database
}

// NewSeeded returns a database holding the demo dataset.
func NewSeeded(t testing.TB) *db.Database {
	t.Helper()

	database := NewEmpty(t)
	if err := seed.CreateDefaultData(context.Background(), database, zerolog.Nop()); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	return database
}

// Exec runs statements against database, failing the test on error.
func Exec(t testing.TB, database *db.Database, statements ...string) {
	t.Helper()
	for _, stmt := range statements {
		if _, err := database.DB.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
}
