package repositories

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/app/resultset"
	"github.com/yigit/coursedesk/internal/db"
	"github.com/yigit/coursedesk/internal/pkg/helpers"
)

// EnrollmentFilter selects StudentCourse rows by completion state
type EnrollmentFilter struct {
	Complete bool
	// MarkCeiling keeps only marks at or below the value when positive
	MarkCeiling int64
}

func (f EnrollmentFilter) predicate() squirrel.Sqlizer {
	where := squirrel.And{squirrel.Eq{"StudentCourse.is_complete": f.Complete}}
	if f.MarkCeiling > 0 {
		where = append(where, squirrel.LtOrEq{"StudentCourse.mark": f.MarkCeiling})
	}
	return where
}

// EnrollmentRepository handles StudentCourse listings
type EnrollmentRepository struct {
	queryRunner
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(database *db.Database) *EnrollmentRepository {
	return &EnrollmentRepository{queryRunner: newQueryRunner(database)}
}

// Details returns the student and course details of every matching enrollment
func (r *EnrollmentRepository) Details(ctx context.Context, filter EnrollmentFilter) ([]models.EnrollmentDetail, error) {
	b := r.sb.Select(
		"StudentCourse.student_id",
		"Student.first_name", "Student.last_name", "Student.email",
		"Course.course_name",
		"StudentCourse.mark",
	).
		From("StudentCourse").
		LeftJoin("Student ON Student.student_id = StudentCourse.student_id").
		LeftJoin("Course ON Course.course_code = StudentCourse.course_code").
		Where(filter.predicate())

	rows, err := r.query(ctx, "enrollment details", b)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(rows *sql.Rows) (models.EnrollmentDetail, error) {
		var d models.EnrollmentDetail
		var firstName, lastName, email, courseName sql.NullString
		var mark sql.NullInt64
		if err := rows.Scan(&d.StudentID, &firstName, &lastName, &email, &courseName, &mark); err != nil {
			return d, err
		}
		d.FirstName = helpers.NullStringText(firstName)
		d.LastName = helpers.NullStringText(lastName)
		d.Email = helpers.NullStringText(email)
		d.CourseName = helpers.NullStringText(courseName)
		d.Mark = helpers.NullInt64Ptr(mark)
		return d, nil
	})
}

// Rows returns the full enrollment and student rows matching filter
func (r *EnrollmentRepository) Rows(ctx context.Context, filter EnrollmentFilter) (*resultset.ResultSet, error) {
	b := r.sb.Select("*").
		From("StudentCourse").
		LeftJoin("Student ON Student.student_id = StudentCourse.student_id").
		Where(filter.predicate())
	return r.cursor(ctx, "enrollment rows", b)
}
