package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/snehachill/meal-booking/internal/model"
)

// MealRepo manages meals and the ingredient requirements they own.
type MealRepo struct {
	db *sql.DB
}

// NewMealRepo constructs a MealRepo with the given DB handle.
func NewMealRepo(db *sql.DB) *MealRepo { return &MealRepo{db: db} }

// Create inserts the meal and its ingredient rows in one transaction and
// sets the generated IDs on m and ings.
func (r *MealRepo) Create(ctx context.Context, m *model.Meal, ings []model.IngredientRequirement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO meals (title, type, date, img_url, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.Title, string(m.Type), m.Date.UTC(), m.ImageRef, m.CreatedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)

	const ins = `INSERT INTO ingredient_requirements (meal_id, item_name, grams_per_pax) VALUES (?, ?, ?)`
	for i := range ings {
		ings[i].MealID = m.ID
		res, err := tx.ExecContext(ctx, ins, m.ID, ings[i].ItemName, ings[i].GramsPerPax)
		if err != nil {
			return err
		}
		if iid, err := res.LastInsertId(); err == nil {
			ings[i].ID = uint64(iid)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID returns ErrMealNotFound when no row matches.
func (r *MealRepo) GetByID(ctx context.Context, id uint64) (model.Meal, error) {
	var (
		m   model.Meal
		typ string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, type, date, img_url, created_at FROM meals WHERE id = ?`, id).
		Scan(&m.ID, &m.Title, &typ, &m.Date, &m.ImageRef, &m.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return m, ErrMealNotFound
	}
	m.Type = model.MealType(typ)
	return m, err
}

// Delete removes a meal.  Bookings, requirements and feedback go with it
// through ON DELETE CASCADE.
func (r *MealRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meals WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMealNotFound
	}
	return nil
}

// Count returns the number of meals.
func (r *MealRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meals`).Scan(&n)
	return n, err
}

// ListWithBookings loads meals joined with their ingredient rows and
// booking and feedback counts, ordered by date.  A zero from loads every
// meal; otherwise only meals served at or after from.
func (r *MealRepo) ListWithBookings(ctx context.Context, from time.Time) ([]model.MealBookings, error) {
	q := `SELECT m.id, m.title, m.type, m.date, m.img_url, m.created_at,
	             (SELECT COUNT(*) FROM attendance a WHERE a.meal_id = m.id),
	             (SELECT COUNT(*) FROM feedback f WHERE f.meal_id = m.id)
	      FROM meals m`
	iq := `SELECT i.id, i.meal_id, i.item_name, i.grams_per_pax FROM ingredient_requirements i`
	var args []any
	if !from.IsZero() {
		q += ` WHERE m.date >= ?`
		iq += ` JOIN meals m ON m.id = i.meal_id WHERE m.date >= ?`
		args = append(args, from.UTC())
	}
	q += ` ORDER BY m.date ASC, m.id ASC`
	iq += ` ORDER BY i.id ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MealBookings{}
	index := make(map[uint64]int)
	for rows.Next() {
		var (
			mb  model.MealBookings
			typ string
		)
		if err := rows.Scan(&mb.ID, &mb.Title, &typ, &mb.Date, &mb.ImageRef, &mb.CreatedAt, &mb.Bookings, &mb.Feedback); err != nil {
			return nil, err
		}
		mb.Type = model.MealType(typ)
		mb.Ingredients = []model.IngredientRequirement{}
		index[mb.ID] = len(out)
		out = append(out, mb)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	irows, err := r.db.QueryContext(ctx, iq, args...)
	if err != nil {
		return nil, err
	}
	defer irows.Close()
	for irows.Next() {
		var (
			ing   model.IngredientRequirement
			grams sql.NullFloat64
		)
		if err := irows.Scan(&ing.ID, &ing.MealID, &ing.ItemName, &grams); err != nil {
			return nil, err
		}
		ing.GramsPerPax = grams.Float64
		if i, ok := index[ing.MealID]; ok {
			out[i].Ingredients = append(out[i].Ingredients, ing)
		}
	}
	return out, irows.Err()
}
