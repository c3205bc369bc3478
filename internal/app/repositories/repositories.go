package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/coursedesk/internal/app/resultset"
	"github.com/yigit/coursedesk/internal/db"
	"github.com/yigit/coursedesk/internal/pkg/logger"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository    *StudentRepository
	CourseRepository     *CourseRepository
	ReviewRepository     *ReviewRepository
	EnrollmentRepository *EnrollmentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.Database) *Repositories {
	return &Repositories{
		StudentRepository:    NewStudentRepository(database),
		CourseRepository:     NewCourseRepository(database),
		ReviewRepository:     NewReviewRepository(database),
		EnrollmentRepository: NewEnrollmentRepository(database),
	}
}

// queryRunner is embedded by every repository
type queryRunner struct {
	db *db.Database
	sb squirrel.StatementBuilderType
}

func newQueryRunner(database *db.Database) queryRunner {
	return queryRunner{db: database, sb: database.StatementBuilder()}
}

// query builds and runs a select. name identifies the query in logs and errors.
func (q queryRunner) query(ctx context.Context, name string, b squirrel.Sqlizer) (*sql.Rows, error) {
	sqlQuery, args, err := b.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("query", name).Msg("Error building SQL")
		return nil, fmt.Errorf("failed to build %s query: %w", name, err)
	}

	logger.Debug().Str("query", name).Str("sql", sqlQuery).Interface("args", args).Msg("Running query")
	rows, err := q.db.DB.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run %s query: %w", name, err)
	}
	return rows, nil
}

// cursor runs a select and hands the live rows back as a result set
func (q queryRunner) cursor(ctx context.Context, name string, b squirrel.Sqlizer) (*resultset.ResultSet, error) {
	rows, err := q.query(ctx, name, b)
	if err != nil {
		return nil, err
	}
	rs, err := resultset.FromSQL(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s result set: %w", name, err)
	}
	return rs, nil
}

// collect scans every row with scan and closes rows
func collect[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return out, nil
}
