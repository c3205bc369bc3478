package models

// Student defines the student model based on the 'Student' table
type Student struct {
	ID        int64  `json:"studentId" db:"student_id"`
	FirstName string `json:"firstName" db:"first_name"`
	LastName  string `json:"lastName" db:"last_name"`
	Email     string `json:"email" db:"email"`
	AddressID *int64 `json:"addressId,omitempty" db:"address_id"` // Nullable

	// Relations (populated when needed)
	Address *Address `json:"address,omitempty"`
}

// StudentName is the display row for the demo listing
type StudentName struct {
	FirstName string
	LastName  string
}

// String renders "first last"
func (n StudentName) String() string {
	return n.FirstName + " " + n.LastName
}
