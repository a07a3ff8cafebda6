package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/snehachill/meal-booking/internal/model"
	"github.com/snehachill/meal-booking/internal/repository"
	"github.com/snehachill/meal-booking/internal/testutil"
)

var ctx = context.Background()

func seedUser(t *testing.T, users *repository.UserRepo, email string) uint64 {
	t.Helper()
	id, err := users.Create(ctx, email, "Test", "secret123", model.RoleUser, 4)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func seedMeal(t *testing.T, meals *repository.MealRepo, title string, date time.Time, ings ...model.IngredientRequirement) model.Meal {
	t.Helper()
	m := model.Meal{Title: title, Type: model.MealLunch, Date: date, ImageRef: "img"}
	if err := meals.Create(ctx, &m, ings); err != nil {
		t.Fatalf("create meal: %v", err)
	}
	return m
}

func TestDoubleBookingIsRejected(t *testing.T) {
	db := testutil.NewDB(t)
	users, meals, att := repository.NewUserRepo(db), repository.NewMealRepo(db), repository.NewAttendanceRepo(db)

	uid := seedUser(t, users, "a@example.com")
	m := seedMeal(t, meals, "Thali", time.Now().Add(24*time.Hour))

	first, err := att.Create(ctx, uid, m.ID, time.Now())
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if first.ID == 0 || first.Attended {
		t.Errorf("unexpected booking %+v", first)
	}
	if _, err := att.Create(ctx, uid, m.ID, time.Now()); !errors.Is(err, repository.ErrAlreadyBooked) {
		t.Fatalf("expected ErrAlreadyBooked, got %v", err)
	}
	if n, _ := att.Count(ctx); n != 1 {
		t.Errorf("expected exactly one booking row, got %d", n)
	}
}

func TestConcurrentBookingsAdmitOne(t *testing.T) {
	db := testutil.NewDB(t)
	users, meals, att := repository.NewUserRepo(db), repository.NewMealRepo(db), repository.NewAttendanceRepo(db)

	uid := seedUser(t, users, "race@example.com")
	m := seedMeal(t, meals, "Thali", time.Now().Add(24*time.Hour))

	const n = 20
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = att.Create(ctx, uid, m.ID, time.Now())
		}()
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, repository.ErrAlreadyBooked):
			dup++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != n-1 {
		t.Errorf("expected 1 admitted and %d duplicates, got %d and %d", n-1, ok, dup)
	}
	if c, _ := att.Count(ctx); c != 1 {
		t.Errorf("expected exactly one booking row, got %d", c)
	}
}

func TestListWithBookings(t *testing.T) {
	db := testutil.NewDB(t)
	users, meals, att := repository.NewUserRepo(db), repository.NewMealRepo(db), repository.NewAttendanceRepo(db)

	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	past := seedMeal(t, meals, "Old Poha", now.Add(-48*time.Hour),
		model.IngredientRequirement{ItemName: "poha", GramsPerPax: 80})
	lunch := seedMeal(t, meals, "Dal Rice", now.Add(3*time.Hour),
		model.IngredientRequirement{ItemName: "rice", GramsPerPax: 150},
		model.IngredientRequirement{ItemName: "dal", GramsPerPax: 80})

	for _, email := range []string{"a@x.io", "b@x.io", "c@x.io"} {
		uid := seedUser(t, users, email)
		if _, err := att.Create(ctx, uid, lunch.ID, now); err != nil {
			t.Fatalf("book: %v", err)
		}
	}
	// A NULL requirement reads as zero grams.
	testutil.MustExec(t, db, `INSERT INTO ingredient_requirements (meal_id, item_name, grams_per_pax) VALUES (?, ?, NULL)`, lunch.ID, "salt")

	all, err := meals.ListWithBookings(ctx, time.Time{})
	if err != nil {
		t.Fatalf("ListWithBookings failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != past.ID || all[1].ID != lunch.ID {
		t.Fatalf("expected meals ordered by date, got %+v", all)
	}
	got := all[1]
	if got.Bookings != 3 || len(got.Ingredients) != 3 {
		t.Errorf("expected 3 bookings and 3 ingredients, got %d and %d", got.Bookings, len(got.Ingredients))
	}
	if got.Ingredients[2].ItemName != "salt" || got.Ingredients[2].GramsPerPax != 0 {
		t.Errorf("expected NULL grams as 0, got %+v", got.Ingredients[2])
	}
	if all[0].Bookings != 0 || len(all[0].Ingredients) != 1 {
		t.Errorf("unexpected past meal %+v", all[0])
	}

	upcoming, err := meals.ListWithBookings(ctx, now.Truncate(24*time.Hour))
	if err != nil {
		t.Fatalf("ListWithBookings(from) failed: %v", err)
	}
	if len(upcoming) != 1 || upcoming[0].ID != lunch.ID || len(upcoming[0].Ingredients) != 3 {
		t.Errorf("expected only the upcoming meal, got %+v", upcoming)
	}
}

func TestDeleteMealCascades(t *testing.T) {
	db := testutil.NewDB(t)
	users, meals, att := repository.NewUserRepo(db), repository.NewMealRepo(db), repository.NewAttendanceRepo(db)
	fb := repository.NewFeedbackRepo(db)

	uid := seedUser(t, users, "a@example.com")
	m := seedMeal(t, meals, "Thali", time.Now().Add(time.Hour), model.IngredientRequirement{ItemName: "rice", GramsPerPax: 100})
	if _, err := att.Create(ctx, uid, m.ID, time.Now()); err != nil {
		t.Fatalf("book: %v", err)
	}
	if err := fb.Create(ctx, &model.Feedback{UserID: uid, MealID: m.ID, Rating: 4, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("feedback: %v", err)
	}

	if err := meals.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	for _, table := range []string{"attendance", "ingredient_requirements", "feedback"} {
		var n int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil || n != 0 {
			t.Errorf("%s: expected no rows after delete, got %d (%v)", table, n, err)
		}
	}
	if err := meals.Delete(ctx, m.ID); !errors.Is(err, repository.ErrMealNotFound) {
		t.Errorf("expected ErrMealNotFound on second delete, got %v", err)
	}
	if _, err := meals.GetByID(ctx, m.ID); !errors.Is(err, repository.ErrMealNotFound) {
		t.Errorf("expected ErrMealNotFound from GetByID, got %v", err)
	}
}

func TestFeedbackAverage(t *testing.T) {
	db := testutil.NewDB(t)
	users, meals, fb := repository.NewUserRepo(db), repository.NewMealRepo(db), repository.NewFeedbackRepo(db)

	if avg, err := fb.AverageRating(ctx); err != nil || avg != 0 {
		t.Fatalf("expected 0 with no feedback, got %v (%v)", avg, err)
	}

	m := seedMeal(t, meals, "Thali", time.Now())
	a := seedUser(t, users, "a@example.com")
	b := seedUser(t, users, "b@example.com")
	for uid, rating := range map[uint64]int{a: 5, b: 2} {
		if err := fb.Create(ctx, &model.Feedback{UserID: uid, MealID: m.ID, Rating: rating, CreatedAt: time.Now()}); err != nil {
			t.Fatalf("feedback: %v", err)
		}
	}
	if err := fb.Create(ctx, &model.Feedback{UserID: a, MealID: m.ID, Rating: 1, CreatedAt: time.Now()}); !errors.Is(err, repository.ErrFeedbackExists) {
		t.Errorf("expected ErrFeedbackExists, got %v", err)
	}
	if avg, _ := fb.AverageRating(ctx); avg != 3.5 {
		t.Errorf("expected average 3.5, got %v", avg)
	}
	if n, _ := fb.Count(ctx); n != 2 {
		t.Errorf("expected 2 feedback rows, got %d", n)
	}
}

func TestUsers(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepo(db)

	id := seedUser(t, users, "  Mixed@Example.com ")
	if _, err := users.Create(ctx, "mixed@example.com", "", "pw", model.RoleUser, 4); !errors.Is(err, repository.ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}
	if _, err := users.Create(ctx, "admin@example.com", "Admin", "pw", model.RoleAdmin, 4); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	u, err := users.GetByEmail(ctx, "MIXED@example.com")
	if err != nil || u.ID != id || u.Role != model.RoleUser || u.PasswordHash == "secret123" {
		t.Errorf("unexpected user %+v (%v)", u, err)
	}
	if _, err := users.GetByID(ctx, 999); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if n, _ := users.CountByRole(ctx, model.RoleUser); n != 1 {
		t.Errorf("expected 1 USER, got %d", n)
	}
	all, _ := users.List(ctx)
	if len(all) != 2 {
		t.Errorf("expected 2 users, got %d", len(all))
	}
}

func TestRefreshTokenLifecycle(t *testing.T) {
	db := testutil.NewDB(t)
	users, tokens := repository.NewUserRepo(db), repository.NewTokenRepo(db)
	uid := seedUser(t, users, "a@example.com")
	now := time.Now().UTC()

	if err := tokens.StoreRefresh(ctx, uid, "h1", now.Add(time.Hour)); err != nil {
		t.Fatalf("StoreRefresh: %v", err)
	}
	if err := tokens.StoreRefresh(ctx, uid, "h2", now.Add(time.Hour)); err != nil {
		t.Fatalf("StoreRefresh: %v", err)
	}
	if got, err := tokens.ValidateRefresh(ctx, "h1", now); err != nil || got != uid {
		t.Fatalf("expected live token for %d, got %d (%v)", uid, got, err)
	}
	if _, err := tokens.ValidateRefresh(ctx, "h1", now.Add(2*time.Hour)); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expired token: expected sql.ErrNoRows, got %v", err)
	}

	if revoked, err := tokens.RevokeByHash(ctx, "h1", now); err != nil || !revoked {
		t.Fatalf("RevokeByHash: revoked=%v err=%v", revoked, err)
	}
	if revoked, err := tokens.RevokeByHash(ctx, "h1", now); err != nil || revoked {
		t.Errorf("second revoke should report nothing revoked, got %v (%v)", revoked, err)
	}
	if revoked, _ := tokens.RevokeByHash(ctx, "unknown", now); revoked {
		t.Error("unknown token should not report a revoke")
	}
	if _, err := tokens.ValidateRefresh(ctx, "h1", now); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("revoked token: expected sql.ErrNoRows, got %v", err)
	}
	if err := tokens.RevokeAllForUser(ctx, uid, now); err != nil {
		t.Fatalf("RevokeAllForUser: %v", err)
	}
	if _, err := tokens.ValidateRefresh(ctx, "h2", now); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected every token revoked, got %v", err)
	}
}

func TestAttendanceHistory(t *testing.T) {
	db := testutil.NewDB(t)
	users, meals, att := repository.NewUserRepo(db), repository.NewMealRepo(db), repository.NewAttendanceRepo(db)

	uid := seedUser(t, users, "a@example.com")
	other := seedUser(t, users, "b@example.com")
	base := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)
	m1 := seedMeal(t, meals, "Idli", base.Add(24*time.Hour))
	m2 := seedMeal(t, meals, "Biryani", base.Add(48*time.Hour))

	mustBook := func(u, m uint64, at time.Time) {
		if _, err := att.Create(ctx, u, m, at); err != nil {
			t.Fatalf("book: %v", err)
		}
	}
	mustBook(uid, m1.ID, base.Add(-72*time.Hour))
	mustBook(uid, m2.ID, base)
	mustBook(other, m1.ID, base.Add(-10*24*time.Hour))
	testutil.MustExec(t, db, `UPDATE attendance SET has_eaten = 1 WHERE user_id = ? AND meal_id = ?`, uid, m1.ID)

	hist, err := att.ListByUser(ctx, uid)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(hist) != 2 || hist[0].MealID != m2.ID || hist[1].Title != "Idli" || !hist[1].Attended || hist[0].Attended {
		t.Errorf("unexpected history %+v", hist)
	}

	ids, _ := att.MealIDsByUser(ctx, uid)
	if len(ids) != 2 || ids[0] != m1.ID || ids[1] != m2.ID {
		t.Errorf("unexpected booked ids %v", ids)
	}

	since, err := att.CreatedSince(ctx, base.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("CreatedSince: %v", err)
	}
	if len(since) != 2 {
		t.Errorf("expected 2 bookings in the window, got %d", len(since))
	}
}
