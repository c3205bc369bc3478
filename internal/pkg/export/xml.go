package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	xmlRootElement = "rows"
	xmlRowElement  = "row"
)

// WriteXML writes every remaining row of c as
// <rows><row><column>value</column>...</row>...</rows> and returns the number of rows written.
func WriteXML(w io.Writer, c Cursor) (int, error) {
	names := elementNames(c.Columns())
	rows, err := c.FetchAll()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch rows for xml export: %w", err)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return 0, fmt.Errorf("failed to write xml header: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	root := xml.StartElement{Name: xml.Name{Local: xmlRootElement}}
	if err := enc.EncodeToken(root); err != nil {
		return 0, fmt.Errorf("failed to encode xml export: %w", err)
	}
	for _, values := range rows {
		row := xml.StartElement{Name: xml.Name{Local: xmlRowElement}}
		if err := enc.EncodeToken(row); err != nil {
			return 0, fmt.Errorf("failed to encode xml export: %w", err)
		}
		for i, name := range names {
			col := xml.StartElement{Name: xml.Name{Local: name}}
			if err := enc.EncodeElement(textValue(values[i]), col); err != nil {
				return 0, fmt.Errorf("failed to encode column %s: %w", name, err)
			}
		}
		if err := enc.EncodeToken(row.End()); err != nil {
			return 0, fmt.Errorf("failed to encode xml export: %w", err)
		}
	}
	if err := enc.EncodeToken(root.End()); err != nil {
		return 0, fmt.Errorf("failed to encode xml export: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush xml export: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// textValue is the element text for a column value; NULL becomes empty text.
func textValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}

// elementNames maps column names to valid XML element names.
func elementNames(columns []string) []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = elementName(col)
	}
	return names
}

func elementName(col string) string {
	if col == "" {
		return "column"
	}

	var b strings.Builder
	for i, r := range col {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r) || r == '-' || r == '.':
			if i == 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
