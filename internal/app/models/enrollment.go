package models

// StudentCourse links a student to a course
type StudentCourse struct {
	StudentID  int64  `json:"studentId" db:"student_id"`
	CourseCode string `json:"courseCode" db:"course_code"`
	IsComplete bool   `json:"isComplete" db:"is_complete"`
	Mark       *int64 `json:"mark,omitempty" db:"mark"` // Nullable until completed
}

// EnrollmentDetail is the display row for the completion listings.
// Student fields come from a left join and may be empty.
type EnrollmentDetail struct {
	StudentID  int64
	FirstName  string
	LastName   string
	Email      string
	CourseName string
	Mark       *int64
}
