package models

// Course represents a course taught by a teacher.
type Course struct {
	Code      string `json:"courseCode" db:"course_code"`
	Name      string `json:"courseName" db:"course_name"`
	TeacherID *int64 `json:"teacherId,omitempty" db:"teacher_id"` // Nullable

	// Relations (populated when needed)
	Teacher *Teacher `json:"teacher,omitempty"`
}

// CourseName is the display row for course listings
type CourseName struct {
	Name string
}
