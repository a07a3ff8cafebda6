package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/snehachill/meal-booking/internal/model"
)

// AttendanceRepo stores bookings.  The unique (user_id, meal_id) index is
// the only guard against double booking; callers must not pre-check.
type AttendanceRepo struct {
	db *sql.DB
}

// NewAttendanceRepo returns a new AttendanceRepo bound to the given database.
func NewAttendanceRepo(db *sql.DB) *AttendanceRepo { return &AttendanceRepo{db: db} }

// Create inserts a not-yet-attended booking.  A second booking of the same
// meal by the same user returns ErrAlreadyBooked and leaves no row behind.
func (r *AttendanceRepo) Create(ctx context.Context, userID, mealID uint64, now time.Time) (model.Attendance, error) {
	a := model.Attendance{UserID: userID, MealID: mealID, CreatedAt: now.UTC()}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO attendance (user_id, meal_id, has_eaten, created_at) VALUES (?, ?, ?, ?)`,
		userID, mealID, false, a.CreatedAt)
	if err != nil {
		if isDuplicate(err) {
			return model.Attendance{}, ErrAlreadyBooked
		}
		return model.Attendance{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Attendance{}, err
	}
	a.ID = uint64(id)
	return a, nil
}

// ListByUser returns a user's bookings with meal details, newest first.
func (r *AttendanceRepo) ListByUser(ctx context.Context, userID uint64) ([]model.AttendanceDetail, error) {
	const q = `SELECT a.id, a.meal_id, m.title, m.type, m.date, a.has_eaten, a.created_at
	           FROM attendance a
	           JOIN meals m ON m.id = a.meal_id
	           WHERE a.user_id = ?
	           ORDER BY a.created_at DESC, a.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.AttendanceDetail{}
	for rows.Next() {
		var (
			d   model.AttendanceDetail
			typ string
		)
		if err := rows.Scan(&d.ID, &d.MealID, &d.Title, &typ, &d.MealDate, &d.Attended, &d.BookedAt); err != nil {
			return nil, err
		}
		d.Type = model.MealType(typ)
		out = append(out, d)
	}
	return out, rows.Err()
}

// MealIDsByUser lists the ids of every meal the user has booked.
func (r *AttendanceRepo) MealIDsByUser(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT meal_id FROM attendance WHERE user_id = ? ORDER BY meal_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Count returns the number of bookings, attended or not.
func (r *AttendanceRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance`).Scan(&n)
	return n, err
}

// CreatedSince returns the creation time of every booking made at or after since.
func (r *AttendanceRepo) CreatedSince(ctx context.Context, since time.Time) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT created_at FROM attendance WHERE created_at >= ?`, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
