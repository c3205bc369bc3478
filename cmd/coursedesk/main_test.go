package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yigit/coursedesk/internal/app/migrations"
	"github.com/yigit/coursedesk/internal/config"
	"github.com/yigit/coursedesk/internal/db"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
)

func TestSchemaCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "create_database.sql")

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"schema", "--out", out})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != migrations.DefaultSchema {
		t.Error("written schema differs from the bundled one")
	}
	if !strings.Contains(stdout.String(), out) {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"config", "db", "driver", "schema", "seed", "export-dir"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag --%s missing", name)
		}
	}
}

func TestReportStartupError(t *testing.T) {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(t.TempDir(), "missing", "dir", "HyperionDev.db")
	_, openErr := db.Open(context.Background(), cfg)
	if openErr == nil {
		t.Fatal("expected open to fail")
	}

	authErr := fmt.Errorf("%w: failed to connect: %w", apperrors.ErrDatabaseUnavailable,
		&pgconn.PgError{Code: "28P01", Message: "password authentication failed"})

	tests := []struct {
		name       string
		err        error
		wantStdout string
		wantStderr string
	}{
		{"unopenable file", openErr, "Please store your database as " + cfg.Database.Path + "\n", ""},
		{"connection refused by server", authErr, "", "Error: could not connect to"},
		{"missing schema", fmt.Errorf("setup: %w", apperrors.ErrSchemaScriptMissing), "Please store your schema script as create_database.sql\n", ""},
		{"other", errors.New("boom"), "", "Error: boom\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			reportStartupError(&stdout, &stderr, tt.err, cfg.Database.Path, "create_database.sql")

			if stdout.String() != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if !strings.HasPrefix(stderr.String(), tt.wantStderr) || (tt.wantStderr == "" && stderr.Len() > 0) {
				t.Errorf("stderr = %q, want prefix %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}
