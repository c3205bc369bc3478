package models

// Teacher defines the 'Teacher' table
type Teacher struct {
	ID        int64  `json:"teacherId" db:"teacher_id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
}

// Name renders the teacher's full name
func (t Teacher) Name() string {
	return t.FirstName + " " + t.LastName
}
