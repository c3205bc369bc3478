package models

// Review is a code review left for a student
type Review struct {
	ID            int64   `json:"reviewId" db:"review_id"`
	StudentID     int64   `json:"studentId" db:"student_id"`
	Completeness  *int64  `json:"completeness" db:"completeness"`
	Efficiency    *int64  `json:"efficiency" db:"efficiency"`
	Style         *int64  `json:"style" db:"style"`
	Documentation *int64  `json:"documentation" db:"documentation"`
	Text          *string `json:"reviewText" db:"review_text"`
}

// ReviewSummary is the display row for a review listing.
// Scores are kept as text so absent values print as empty.
type ReviewSummary struct {
	Completeness  string
	Efficiency    string
	Style         string
	Documentation string
	Notes         string
}
