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

// ReviewRepository handles review lookups
type ReviewRepository struct {
	queryRunner
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(database *db.Database) *ReviewRepository {
	return &ReviewRepository{queryRunner: newQueryRunner(database)}
}

// SummariesByStudent returns the scores and notes of every review of a student
func (r *ReviewRepository) SummariesByStudent(ctx context.Context, studentID int64) ([]models.ReviewSummary, error) {
	b := r.sb.Select("completeness", "efficiency", "style", "documentation", "review_text").
		From("Review").
		Where(squirrel.Eq{"student_id": studentID})

	rows, err := r.query(ctx, "review summaries", b)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(rows *sql.Rows) (models.ReviewSummary, error) {
		var completeness, efficiency, style, documentation sql.NullInt64
		var text sql.NullString
		if err := rows.Scan(&completeness, &efficiency, &style, &documentation, &text); err != nil {
			return models.ReviewSummary{}, err
		}
		return models.ReviewSummary{
			Completeness:  helpers.NullInt64Text(completeness),
			Efficiency:    helpers.NullInt64Text(efficiency),
			Style:         helpers.NullInt64Text(style),
			Documentation: helpers.NullInt64Text(documentation),
			Notes:         helpers.NullStringText(text),
		}, nil
	})
}

// RowsByStudent returns full review rows for a student
func (r *ReviewRepository) RowsByStudent(ctx context.Context, studentID int64) (*resultset.ResultSet, error) {
	b := r.sb.Select("*").
		From("Review").
		Where(squirrel.Eq{"student_id": studentID})
	return r.cursor(ctx, "review rows", b)
}
