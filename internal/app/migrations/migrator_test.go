package migrations

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/yigit/coursedesk/internal/config"
	"github.com/yigit/coursedesk/internal/db"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
)

func memoryDB(t *testing.T) *db.Database {
	t.Helper()
	sqlDB, err := sql.Open("sqlite3", "file:migrations_"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db.Wrap(sqlDB, config.DriverSQLite)
}

func TestSplitStatements(t *testing.T) {
	script := `
-- leading comment; with a semicolon
CREATE TABLE A (x TEXT DEFAULT 'a;b');
/* block; comment */
INSERT INTO A VALUES ('it''s; fine');;
INSERT INTO "weird;name" VALUES (1)
`
	got := SplitStatements(script)
	want := []string{
		"CREATE TABLE A (x TEXT DEFAULT 'a;b')",
		"INSERT INTO A VALUES ('it''s; fine')",
		`INSERT INTO "weird;name" VALUES (1)`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitStatements:\n got %q\nwant %q", got, want)
	}

	if n := len(SplitStatements(DefaultSchema)); n != 6 {
		t.Errorf("expected 6 statements in the bundled schema, got %d", n)
	}
}

func TestApply_Idempotent(t *testing.T) {
	database := memoryDB(t)
	m := NewMigrator(database)

	for i := 0; i < 2; i++ {
		if err := m.Apply(context.Background(), DefaultSchema); err != nil {
			t.Fatalf("apply #%d: %v", i+1, err)
		}
	}

	for _, table := range []string{"Address", "Teacher", "Course", "Student", "StudentCourse", "Review"} {
		var name string
		err := database.DB.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestApply_RollsBackOnFailure(t *testing.T) {
	database := memoryDB(t)
	m := NewMigrator(database)

	err := m.Apply(context.Background(), "CREATE TABLE Good (id INTEGER); CREATE TABLE (broken")
	if err == nil {
		t.Fatal("expected error")
	}

	var n int
	if err := database.DB.QueryRow("SELECT count(*) FROM sqlite_master WHERE name = 'Good'").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Error("first statement should have been rolled back")
	}
}

func TestApplyFile(t *testing.T) {
	database := memoryDB(t)
	m := NewMigrator(database)

	err := m.ApplyFile(context.Background(), filepath.Join(t.TempDir(), "missing.sql"))
	if !errors.Is(err, apperrors.ErrSchemaScriptMissing) {
		t.Errorf("expected ErrSchemaScriptMissing, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "create_database.sql")
	if err := os.WriteFile(path, []byte(DefaultSchema), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := m.ApplyFile(context.Background(), path); err != nil {
		t.Errorf("ApplyFile: %v", err)
	}
}
