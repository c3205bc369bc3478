package repositories

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/coursedesk/internal/app/models"
	"github.com/yigit/coursedesk/internal/app/resultset"
	"github.com/yigit/coursedesk/internal/db"
)

// StudentRepository handles student and address lookups
type StudentRepository struct {
	queryRunner
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(database *db.Database) *StudentRepository {
	return &StudentRepository{queryRunner: newQueryRunner(database)}
}

// ListNames returns every student's first and last name
func (r *StudentRepository) ListNames(ctx context.Context) ([]models.StudentName, error) {
	rows, err := r.query(ctx, "student names", r.sb.Select("first_name", "last_name").From("Student"))
	if err != nil {
		return nil, err
	}
	return collect(rows, func(rows *sql.Rows) (models.StudentName, error) {
		var n models.StudentName
		err := rows.Scan(&n.FirstName, &n.LastName)
		return n, err
	})
}

func addressByName(firstName, lastName string) squirrel.Eq {
	return squirrel.Eq{"Student.first_name": firstName, "Student.last_name": lastName}
}

// AddressLines returns the street and city of every student with the given name
func (r *StudentRepository) AddressLines(ctx context.Context, firstName, lastName string) ([]models.AddressLine, error) {
	b := r.sb.Select("Address.street", "Address.city").
		From("Address").
		LeftJoin("Student ON Student.address_id = Address.address_id").
		Where(addressByName(firstName, lastName))

	rows, err := r.query(ctx, "address lines", b)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(rows *sql.Rows) (models.AddressLine, error) {
		var a models.AddressLine
		err := rows.Scan(&a.Street, &a.City)
		return a, err
	})
}

// AddressRows returns the full address and student rows matching the name
func (r *StudentRepository) AddressRows(ctx context.Context, firstName, lastName string) (*resultset.ResultSet, error) {
	b := r.sb.Select("*").
		From("Address").
		LeftJoin("Student ON Student.address_id = Address.address_id").
		Where(addressByName(firstName, lastName))
	return r.cursor(ctx, "address rows", b)
}
