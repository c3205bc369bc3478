package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/yigit/coursedesk/internal/app/migrations"
	"github.com/yigit/coursedesk/internal/config"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	schema := filepath.Join(dir, "create_database.sql")
	if err := os.WriteFile(schema, []byte(migrations.DefaultSchema), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	cfg := config.Default()
	cfg.Database.Path = filepath.Join(dir, "HyperionDev.db")
	cfg.Database.SchemaPath = schema
	cfg.Export.Dir = dir
	cfg.Console.ForcePlain = true
	return cfg
}

func TestLoadConfigAndSetupLogger_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, _, err := LoadConfigAndSetupLogger(path, func(c *config.Config) {
		c.Database.Path = "other.db"
	})
	if err != nil {
		t.Fatalf("LoadConfigAndSetupLogger: %v", err)
	}
	if cfg.Database.Path != "other.db" {
		t.Errorf("override not applied: %s", cfg.Database.Path)
	}

	_, _, err = LoadConfigAndSetupLogger(path, func(c *config.Config) {
		c.Database.Driver = "oracle"
	})
	if err == nil {
		t.Error("expected invalid override to fail")
	}
}

func TestSetupDatabase(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Database.Seed = true
	ctx := context.Background()

	database, err := SetupDatabase(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("SetupDatabase: %v", err)
	}
	var students int
	if err := database.DB.QueryRow("SELECT COUNT(*) FROM Student").Scan(&students); err != nil {
		t.Fatalf("count: %v", err)
	}
	if students == 0 {
		t.Error("expected seeded students")
	}
	database.Close()

	// Re-opening applies the schema again and leaves data alone
	database, err = SetupDatabase(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("second SetupDatabase: %v", err)
	}
	defer database.Close()
	var again int
	if err := database.DB.QueryRow("SELECT COUNT(*) FROM Student").Scan(&again); err != nil {
		t.Fatalf("count: %v", err)
	}
	if again != students {
		t.Errorf("student count changed from %d to %d", students, again)
	}
}

func TestSetupDatabase_Failures(t *testing.T) {
	ctx := context.Background()

	cfg := sqliteConfig(t)
	cfg.Database.SchemaPath = filepath.Join(t.TempDir(), "nope.sql")
	if _, err := SetupDatabase(ctx, cfg, zerolog.Nop()); !errors.Is(err, apperrors.ErrSchemaScriptMissing) {
		t.Errorf("expected ErrSchemaScriptMissing, got %v", err)
	}

	cfg = sqliteConfig(t)
	cfg.Database.Path = filepath.Join(t.TempDir(), "no", "such", "dir", "HyperionDev.db")
	if _, err := SetupDatabase(ctx, cfg, zerolog.Nop()); !errors.Is(err, apperrors.ErrDatabaseUnavailable) {
		t.Errorf("expected ErrDatabaseUnavailable, got %v", err)
	}
}

func TestBuildDependencies(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Database.Seed = true
	ctx := context.Background()

	database, err := SetupDatabase(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("SetupDatabase: %v", err)
	}
	defer database.Close()

	var out bytes.Buffer
	deps, err := BuildDependencies(ctx, cfg, database, strings.NewReader("y\nresult.xml\n"), &out, zerolog.Nop())
	if err != nil {
		t.Fatalf("BuildDependencies: %v", err)
	}
	defer deps.Reader.Close()

	if deps.Storage.Remote != nil {
		t.Error("S3 storage must stay disabled by default")
	}
	want := []string{"d", "e", "h", "help", "la", "lc", "lf", "lnc", "lr", "vs"}
	if got := deps.Dispatcher.Names(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("commands = %v, want %v", got, want)
	}

	if err := deps.Dispatcher.Dispatch(ctx, "lc 1"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Export.Dir, "result.xml")); err != nil {
		t.Errorf("export not written: %v\n%s", err, out.String())
	}
}
