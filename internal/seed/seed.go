package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"

	"github.com/yigit/coursedesk/internal/db"
	"github.com/yigit/coursedesk/internal/pkg/helpers"
)

type address struct {
	id           int64
	street, city string
}

type teacher struct {
	id          int64
	first, last string
}

type course struct {
	code, name string
	teacherID  int64
}

type student struct {
	id                 int64
	first, last, email string
	addressID          int64
}

type enrollment struct {
	studentID  int64
	courseCode string
	complete   bool
	mark       *int64
}

type review struct {
	id                                             int64
	studentID                                      int64
	completeness, efficiency, style, documentation int64
	text                                           string
}

func mark(v int64) *int64 { return &v }

var (
	addresses = []address{
		{1, "12 Long Street", "Cape Town"},
		{2, "4 Oak Avenue", "Johannesburg"},
		{3, "77 Marine Parade", "Durban"},
	}
	teachers = []teacher{
		{1, "Ada", "Lovelace"},
		{2, "Alan", "Turing"},
	}
	courses = []course{
		{"PY101", "Python", 1},
		{"SQL101", "SQL", 1},
		{"WD201", "Web Development", 2},
	}
	students = []student{
		{101, "Jane", "Doe", "jane.doe@example.com", 1},
		{102, "Sipho", "Ndlovu", "sipho.ndlovu@example.com", 2},
		{103, "Priya", "Naidoo", "priya.naidoo@example.com", 3},
	}
	enrollments = []enrollment{
		{101, "PY101", true, mark(72)},
		{101, "SQL101", false, nil},
		{102, "PY101", true, mark(28)},
		{102, "WD201", false, nil},
		{103, "SQL101", true, mark(85)},
	}
	reviews = []review{
		{1, 101, 4, 3, 4, 5, "Clear structure, good naming."},
		{2, 101, 3, 4, 3, 3, "Needs more tests!"},
		{3, 103, 5, 5, 4, 4, "Excellent work; well documented."},
	}
)

// CreateDefaultData inserts a small demo dataset when the Student table is empty.
func CreateDefaultData(ctx context.Context, database *db.Database, lgr zerolog.Logger) error {
	sb := database.StatementBuilder()

	var count int
	query, args, err := sb.Select("COUNT(*)").From("Student").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build student count query: %w", err)
	}
	if err := database.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return fmt.Errorf("failed to count students: %w", err)
	}
	if count > 0 {
		lgr.Debug().Int("students", count).Msg("Database already populated, skipping seed")
		return nil
	}

	lgr.Info().Msg("Seeding demo data...")
	err = database.WithTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		inserts := []squirrel.InsertBuilder{
			sb.Insert("Address").Columns("address_id", "street", "city"),
			sb.Insert("Teacher").Columns("teacher_id", "first_name", "last_name"),
			sb.Insert("Course").Columns("course_code", "course_name", "teacher_id"),
			sb.Insert("Student").Columns("student_id", "first_name", "last_name", "email", "address_id"),
			sb.Insert("StudentCourse").Columns("student_id", "course_code", "is_complete", "mark"),
			sb.Insert("Review").Columns("review_id", "student_id", "completeness", "efficiency", "style", "documentation", "review_text"),
		}

		for _, a := range addresses {
			inserts[0] = inserts[0].Values(a.id, a.street, a.city)
		}
		for _, t := range teachers {
			inserts[1] = inserts[1].Values(t.id, t.first, t.last)
		}
		for _, c := range courses {
			inserts[2] = inserts[2].Values(c.code, c.name, c.teacherID)
		}
		for _, s := range students {
			inserts[3] = inserts[3].Values(s.id, s.first, s.last, s.email, s.addressID)
		}
		for _, e := range enrollments {
			inserts[4] = inserts[4].Values(e.studentID, e.courseCode, e.complete, helpers.GetNullInt64(e.mark))
		}
		for _, r := range reviews {
			inserts[5] = inserts[5].Values(r.id, r.studentID, r.completeness, r.efficiency, r.style, r.documentation, r.text)
		}

		for _, ins := range inserts {
			query, args, err := ins.ToSql()
			if err != nil {
				return fmt.Errorf("failed to build seed insert: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to insert seed data: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to seed demo data")
		return err
	}

	lgr.Info().Int("students", len(students)).Msg("Demo data seeded")
	return nil
}
