package repositories

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/app/resultset"
	"github.com/yigit/coursedesk/internal/db"
)

// CourseRepository handles course lookups by student and by teacher
type CourseRepository struct {
	queryRunner
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(database *db.Database) *CourseRepository {
	return &CourseRepository{queryRunner: newQueryRunner(database)}
}

func scanCourseName(rows *sql.Rows) (models.CourseName, error) {
	var c models.CourseName
	err := rows.Scan(&c.Name)
	return c, err
}

// NamesByStudent returns the names of the courses a student is enrolled in
func (r *CourseRepository) NamesByStudent(ctx context.Context, studentID int64) ([]models.CourseName, error) {
	b := r.sb.Select("Course.course_name").
		From("Course").
		Join("StudentCourse ON StudentCourse.course_code = Course.course_code").
		Where(squirrel.Eq{"StudentCourse.student_id": studentID})

	rows, err := r.query(ctx, "course names by student", b)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCourseName)
}

// EnrollmentRows returns the (student_id, course_code) pairs of a student
func (r *CourseRepository) EnrollmentRows(ctx context.Context, studentID int64) (*resultset.ResultSet, error) {
	b := r.sb.Select("student_id", "course_code").
		From("StudentCourse").
		Where(squirrel.Eq{"student_id": studentID})
	return r.cursor(ctx, "enrollment rows", b)
}

// NamesByTeacher returns the names of the courses a teacher gives
func (r *CourseRepository) NamesByTeacher(ctx context.Context, teacherID int64) ([]models.CourseName, error) {
	b := r.sb.Select("Course.course_name").
		From("Course").
		Where(squirrel.Eq{"Course.teacher_id": teacherID})

	rows, err := r.query(ctx, "course names by teacher", b)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCourseName)
}

// RowsByTeacher returns full course and teacher rows for a teacher
func (r *CourseRepository) RowsByTeacher(ctx context.Context, teacherID int64) (*resultset.ResultSet, error) {
	b := r.sb.Select("*").
		From("Course").
		LeftJoin("Teacher ON Teacher.teacher_id = Course.teacher_id").
		Where(squirrel.Eq{"Course.teacher_id": teacherID})
	return r.cursor(ctx, "course rows by teacher", b)
}
