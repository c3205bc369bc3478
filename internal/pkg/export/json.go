package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// orderedRow marshals as an object whose keys follow column order
type orderedRow struct {
	columns []string
	values  []any
}

func (r orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalValue(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := marshalValue(r.values[i])
		if err != nil {
			// Fall back to the printed form for driver types json cannot encode
			val, err = marshalValue(fmt.Sprint(r.values[i]))
			if err != nil {
				return nil, err
			}
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteJSON writes every remaining row of c as a JSON array of objects and
// returns the number of rows written.
func WriteJSON(w io.Writer, c Cursor, indent int) (int, error) {
	columns := c.Columns()
	rows, err := c.FetchAll()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch rows for json export: %w", err)
	}

	out := make([]orderedRow, 0, len(rows))
	for _, values := range rows {
		out = append(out, orderedRow{columns: columns, values: values})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	if err := enc.Encode(out); err != nil {
		return 0, fmt.Errorf("failed to encode json export: %w", err)
	}
	return len(out), nil
}
