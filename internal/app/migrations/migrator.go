package migrations

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/yigit/coursedesk/internal/db"
	"github.com/yigit/coursedesk/internal/pkg/apperrors"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

// DefaultSchema is the bundled table-creation script, written out by `coursedesk schema`.
//
//go:embed schema.sql
var DefaultSchema string

// Migrator applies the schema script to the database
type Migrator struct {
	db *db.Database
}

// NewMigrator creates a new migrator
func NewMigrator(database *db.Database) *Migrator {
	return &Migrator{
		db: database,
	}
}

// ApplyFile reads the script at filePath and applies it.
func (m *Migrator) ApplyFile(ctx context.Context, filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", apperrors.ErrSchemaScriptMissing, filePath)
		}
		return fmt.Errorf("failed to read schema script: %w", err)
	}

	logger.Debug().Str("path", filePath).Msg("Applying schema script")
	return m.Apply(ctx, string(content))
}

// Apply executes every statement of script inside one transaction.
// The script is expected to be idempotent (CREATE TABLE IF NOT EXISTS).
func (m *Migrator) Apply(ctx context.Context, script string) error {
	statements := SplitStatements(script)

	err := m.db.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for i, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("error occurred during schema statement %d: %w", i+1, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info().Int("statements", len(statements)).Msg("Schema script applied")
	return nil
}

// SplitStatements breaks a SQL script into statements on top-level semicolons.
// Quoted text and comments are respected; comments are dropped and empty
// statements are skipped.
func SplitStatements(script string) []string {
	var (
		statements []string
		current    strings.Builder
	)

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	runes := []rune(script)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\'' || r == '"':
			// Copy through the closing quote; doubled quotes are escapes
			quote := r
			current.WriteRune(r)
			for i++; i < len(runes); i++ {
				current.WriteRune(runes[i])
				if runes[i] == quote {
					if i+1 < len(runes) && runes[i+1] == quote {
						i++
						current.WriteRune(runes[i])
						continue
					}
					break
				}
			}
		case r == '-' && i+1 < len(runes) && runes[i+1] == '-':
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			current.WriteRune('\n')
		case r == '/' && i+1 < len(runes) && runes[i+1] == '*':
			i += 2
			for i < len(runes) && !(runes[i] == '*' && i+1 < len(runes) && runes[i+1] == '/') {
				i++
			}
			i++ // skip the closing '/'
			current.WriteRune(' ')
		case r == ';':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return statements
}
