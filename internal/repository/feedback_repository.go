package repository

import (
	"context"
	"database/sql"

	"github.com/snehachill/meal-booking/internal/model"
)

// FeedbackRepo stores meal ratings.
type FeedbackRepo struct {
	db *sql.DB
}

func NewFeedbackRepo(db *sql.DB) *FeedbackRepo { return &FeedbackRepo{db: db} }

// Create inserts a rating.  One rating per user and meal.
func (r *FeedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	var comment sql.NullString
	if f.Comment != "" {
		comment = sql.NullString{String: f.Comment, Valid: true}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback (user_id, meal_id, rating, comment, created_at) VALUES (?, ?, ?, ?, ?)`,
		f.UserID, f.MealID, f.Rating, comment, f.CreatedAt.UTC())
	if err != nil {
		if isDuplicate(err) {
			return ErrFeedbackExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// Count returns the number of feedback entries.
func (r *FeedbackRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&n)
	return n, err
}

// AverageRating is the mean rating over all feedback, 0 when there is none.
func (r *FeedbackRepo) AverageRating(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `SELECT AVG(rating) FROM feedback`).Scan(&avg)
	return avg.Float64, err
}
