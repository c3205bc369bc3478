// Package export renders a query cursor as a JSON or XML document and hands
// the bytes to a storage backend.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

// Format identifies an export document type
type Format string

const (
	// FormatJSON is an array of objects keyed by column name
	FormatJSON Format = "json"
	// FormatXML is <rows><row><column>value</column>...</row>...</rows>
	FormatXML Format = "xml"
)

// DefaultIndent is the JSON indentation width
const DefaultIndent = 4

// Cursor is a drained-once source of rows with stable column names.
type Cursor interface {
	Columns() []string
	FetchAll() ([][]any, error)
}

// Storage persists a rendered document under a caller supplied name and
// returns where it ended up.
type Storage interface {
	Save(ctx context.Context, name string, write func(w io.Writer) error) (string, error)
}

// Result describes a finished export
type Result struct {
	Location string
	Format   Format
	Rows     int
}

// FormatFromFilename picks the format from the text after the last ".".
func FormatFromFilename(name string) (Format, error) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return "", apperrors.ErrInvalidExtension
	}

	switch ext := name[idx+1:]; Format(ext) {
	case FormatJSON, FormatXML:
		return Format(ext), nil
	default:
		return "", apperrors.ErrInvalidExtension
	}
}

// Write renders c in the given format.
func Write(w io.Writer, format Format, c Cursor, indent int) (int, error) {
	switch format {
	case FormatJSON:
		return WriteJSON(w, c, indent)
	case FormatXML:
		return WriteXML(w, c)
	default:
		return 0, fmt.Errorf("%w: unsupported format %q", apperrors.ErrInvalidExtension, format)
	}
}

// Exporter routes a cursor to a storage backend by filename extension
type Exporter struct {
	storage Storage
	indent  int
}

// NewExporter creates a new Exporter. A negative indent selects DefaultIndent.
func NewExporter(storage Storage, indent int) *Exporter {
	if indent < 0 {
		indent = DefaultIndent
	}
	return &Exporter{storage: storage, indent: indent}
}

// Export drains c into the file called filename.
func (e *Exporter) Export(ctx context.Context, c Cursor, filename string) (*Result, error) {
	format, err := FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}

	var rows int
	location, err := e.storage.Save(ctx, filename, func(w io.Writer) error {
		n, err := Write(w, format, c, e.indent)
		rows = n
		return err
	})
	if err != nil {
		logger.Error().Err(err).Str("filename", filename).Str("format", string(format)).Msg("Export failed")
		return nil, fmt.Errorf("%w: %w", apperrors.ErrExportFailed, err)
	}

	logger.Info().Str("location", location).Str("format", string(format)).Int("rows", rows).Msg("Result exported")
	return &Result{Location: location, Format: format, Rows: rows}, nil
}
