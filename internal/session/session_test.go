package session

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yigit/coursedesk/internal/app/migrations"
	"github.com/yigit/coursedesk/internal/config"
)

func newTestSession(t *testing.T, input string) (*Session, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()

	schema := filepath.Join(dir, "create_database.sql")
	if err := os.WriteFile(schema, []byte(migrations.DefaultSchema), 0o644); err != nil {
		t.Fatalf("write schema: %v", err)
	}

	var out bytes.Buffer
	s, err := New(context.Background(), Options{
		ConfigPath: filepath.Join(dir, "config.yaml"),
		Override: func(c *config.Config) {
			c.Database.Path = filepath.Join(dir, "HyperionDev.db")
			c.Database.SchemaPath = schema
			c.Database.Seed = true
			c.Export.Dir = dir
			c.Console.ForcePlain = true
		},
		In:  strings.NewReader(input),
		Out: &out,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, &out, dir
}

func TestRun_ExitCommand(t *testing.T) {
	s, out, dir := newTestSession(t, "d\nvs 101\ny\nsubjects.json\nbogus\ne\nd\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := out.String()
	if !strings.HasPrefix(got, Welcome+"\n") {
		t.Errorf("missing welcome:\n%s", got)
	}
	for _, want := range []string{
		"Type your option here: ",
		"Jane Doe\n",
		"Courses:\n",
		"Incorrect command: 'bogus'\n",
		"Programme exited successfully!\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
	// The trailing d after e is never run
	if strings.Count(got, "Jane Doe\n") != 1 {
		t.Errorf("commands ran after exit:\n%s", got)
	}
	if strings.Count(got, "What would you like to do?") != 4 {
		t.Errorf("expected the menu before each of the 4 commands:\n%s", got)
	}

	if _, err := os.Stat(filepath.Join(dir, "subjects.json")); err != nil {
		t.Errorf("export missing: %v", err)
	}
}

func TestRun_EndOfInput(t *testing.T) {
	s, out, _ := newTestSession(t, "lnc\nn\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Student number:") {
		t.Errorf("lnc did not run:\n%s", out.String())
	}
}

func TestRun_Cancelled(t *testing.T) {
	s, out, _ := newTestSession(t, "d\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Contains(out.String(), "What would you like to do?") {
		t.Error("menu printed after cancellation")
	}
}
