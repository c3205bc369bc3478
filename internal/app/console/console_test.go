package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yigit/coursedesk/internal/pkg/export"
	"github.com/yigit/coursedesk/internal/pkg/filestorage"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

type memCursor struct {
	columns []string
	rows    [][]any
}

func (m *memCursor) Columns() []string { return m.columns }

func (m *memCursor) FetchAll() ([][]any, error) {
	rows := m.rows
	m.rows = nil
	return rows, nil
}

type recordingExporter struct {
	filenames []string
	err       error
}

func (r *recordingExporter) Export(_ context.Context, c export.Cursor, filename string) (*export.Result, error) {
	r.filenames = append(r.filenames, filename)
	if r.err != nil {
		return nil, r.err
	}
	if _, err := export.FormatFromFilename(filename); err != nil {
		return nil, err
	}
	rows, _ := c.FetchAll()
	return &export.Result{Location: filename, Rows: len(rows)}, nil
}

func newPrompt(input string, exporter Exporter, attempts int) (*StorePrompt, *bytes.Buffer) {
	var out bytes.Buffer
	return NewStorePrompt(NewPlainReader(strings.NewReader(input), &out), &out, exporter, attempts), &out
}

func TestPlainReader(t *testing.T) {
	var out bytes.Buffer
	r := NewPlainReader(strings.NewReader("vs 101\r\nlast"), &out)

	line, err := r.ReadLine("> ")
	if err != nil || line != "vs 101" {
		t.Fatalf("got %q, %v", line, err)
	}
	line, err = r.ReadLine("> ")
	if err != nil || line != "last" {
		t.Fatalf("unterminated final line: got %q, %v", line, err)
	}
	if _, err := r.ReadLine("> "); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
	if out.String() != "> > > " {
		t.Errorf("unexpected prompts %q", out.String())
	}
}

func TestNewLineReader_NonTerminalIsPlain(t *testing.T) {
	r, err := NewLineReader(strings.NewReader(""), io.Discard, ReaderConfig{})
	if err != nil {
		t.Fatalf("NewLineReader: %v", err)
	}
	defer r.Close()
	if _, ok := r.(*PlainReader); !ok {
		t.Errorf("expected *PlainReader, got %T", r)
	}
}

func TestStorePrompt(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		attempts  int
		wantFile  string
		wantSaved bool
		wantOut   []string
	}{
		{"decline", "n\n", 1, "", false, []string{storeQuestion}},
		{"decline uppercase padded", "  N \n", 1, "", false, nil},
		{"store json", "Y\nout.json\n", 1, "out.json", true, []string{filenamePrompt, "Saved 2 rows to out.json"}},
		{"store xml", "y\nout.xml\n", 1, "out.xml", true, []string{"Saved 2 rows to out.xml"}},
		{"bad extension", "y\nout.csv\n", 1, "out.csv", false, []string{invalidExtensionMsg}},
		{"invalid choice single shot", "maybe\ny\nout.json\n", 1, "", false, []string{invalidChoiceMsg}},
		{"invalid choice then retry", "maybe\ny\nout.json\n", 2, "out.json", true, []string{invalidChoiceMsg, "Saved 2 rows"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := &recordingExporter{}
			p, out := newPrompt(tt.input, exp, tt.attempts)
			cursor := &memCursor{columns: []string{"a"}, rows: [][]any{{1}, {2}}}

			result, err := p.Offer(context.Background(), cursor)
			if err != nil {
				t.Fatalf("Offer: %v", err)
			}
			if (result != nil) != tt.wantSaved {
				t.Errorf("saved = %v, want %v", result != nil, tt.wantSaved)
			}
			if tt.wantFile == "" && len(exp.filenames) != 0 {
				t.Errorf("unexpected export of %v", exp.filenames)
			}
			if tt.wantFile != "" && (len(exp.filenames) != 1 || exp.filenames[0] != tt.wantFile) {
				t.Errorf("exported %v, want %s", exp.filenames, tt.wantFile)
			}
			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output %q missing %q", out.String(), want)
				}
			}
		})
	}
}

func TestStorePrompt_InvalidChoiceIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger.Configure(logger.Config{Level: logger.DebugLevel, Output: &logs})
	t.Cleanup(func() { logger.Configure(logger.Config{Level: logger.WarnLevel, Pretty: true}) })

	p, _ := newPrompt("maybe\nn\n", &recordingExporter{}, 2)
	if _, err := p.Offer(context.Background(), &memCursor{}); err != nil {
		t.Fatalf("Offer: %v", err)
	}
	got := logs.String()
	if !strings.Contains(got, "invalid choice") || !strings.Contains(got, `\"maybe\"`) || !strings.Contains(got, `"attempt":1`) {
		t.Errorf("rejected answer not logged: %s", got)
	}
}

func TestStorePrompt_EOF(t *testing.T) {
	p, _ := newPrompt("", &recordingExporter{}, 1)
	if _, err := p.Offer(context.Background(), &memCursor{}); !errors.Is(err, io.EOF) {
		t.Errorf("expected EOF, got %v", err)
	}
}

func TestStorePrompt_ExportFailureIsReported(t *testing.T) {
	exp := &recordingExporter{err: errors.New("disk full")}
	p, out := newPrompt("y\nout.json\n", exp, 1)

	result, err := p.Offer(context.Background(), &memCursor{})
	if err != nil || result != nil {
		t.Fatalf("expected nil, nil; got %v, %v", result, err)
	}
	if !strings.Contains(out.String(), "disk full") {
		t.Errorf("failure not reported: %q", out.String())
	}
}

func TestStorePrompt_WritesFile(t *testing.T) {
	dir := t.TempDir()
	storage, err := filestorage.NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	p, _ := newPrompt("y\nresult.json\n", export.NewExporter(storage, -1), 1)
	cursor := &memCursor{columns: []string{"student_id", "course_code"}, rows: [][]any{{int64(101), "PY101"}}}

	if _, err := p.Offer(context.Background(), cursor); err != nil {
		t.Fatalf("Offer: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "result.json"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	want := "[\n    {\n        \"student_id\": 101,\n        \"course_code\": \"PY101\"\n    }\n]\n"
	if string(data) != want {
		t.Errorf("unexpected file:\n%s", data)
	}
}
