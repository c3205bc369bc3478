package helpers

import (
	"database/sql"
	"strconv"
)

// NullStringText returns the string value, or "" when the column was NULL.
func NullStringText(s sql.NullString) string {
	if !s.Valid {
		return ""
	}
	return s.String
}

// NullInt64Text formats the integer value, or "" when the column was NULL.
func NullInt64Text(i sql.NullInt64) string {
	if !i.Valid {
		return ""
	}
	return strconv.FormatInt(i.Int64, 10)
}

// GetNullInt64 converts an int64 pointer to sql.NullInt64.
func GetNullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

// NullInt64Ptr converts sql.NullInt64 to an int64 pointer, nil when NULL.
func NullInt64Ptr(i sql.NullInt64) *int64 {
	if !i.Valid {
		return nil
	}
	v := i.Int64
	return &v
}
