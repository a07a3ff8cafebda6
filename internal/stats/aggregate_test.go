package stats_test

import (
	"testing"
	"time"

	"github.com/snehachill/meal-booking/internal/model"
	"github.com/snehachill/meal-booking/internal/stats"
)

func meal(id uint64, title string, typ model.MealType, bookings int64, ings ...model.IngredientRequirement) model.MealBookings {
	return model.MealBookings{
		Meal:        model.Meal{ID: id, Title: title, Type: typ, Date: time.Now().Add(24 * time.Hour)},
		Ingredients: ings,
		Bookings:    bookings,
	}
}

func ing(name string, grams float64) model.IngredientRequirement {
	return model.IngredientRequirement{ItemName: name, GramsPerPax: grams}
}

func TestMealDemandFor(t *testing.T) {
	m := meal(1, "Rice & Dal", model.MealLunch, 3, ing("rice", 150), ing("dal", 80))

	d := stats.MealDemandFor(m)

	if d.IngredientCount != 2 {
		t.Errorf("expected 2 ingredients, got %d", d.IngredientCount)
	}
	if d.TotalIngredients != 690 {
		t.Errorf("expected total 690, got %v", d.TotalIngredients)
	}
	want := map[string]float64{"rice": 450, "dal": 240}
	for _, got := range d.Ingredients {
		if got.TotalGrams != want[got.ItemName] {
			t.Errorf("%s: expected %v grams, got %v", got.ItemName, want[got.ItemName], got.TotalGrams)
		}
	}
}

func TestMealDemandForScalesWithBookings(t *testing.T) {
	for _, bookings := range []int64{0, 1, 7, 120} {
		d := stats.MealDemandFor(meal(1, "Poha", model.MealBreakfast, bookings, ing("poha", 95.5)))
		if got, want := d.Ingredients[0].TotalGrams, 95.5*float64(bookings); got != want {
			t.Errorf("bookings=%d: expected %v, got %v", bookings, want, got)
		}
	}
}

func TestTopIngredientsSumsPerPaxRates(t *testing.T) {
	meals := []model.MealBookings{
		meal(1, "A", model.MealLunch, 100, ing("rice", 150), ing("dal", 80)),
		meal(2, "B", model.MealDinner, 1, ing("rice", 100), ing("paneer", 200)),
	}

	got := stats.TopIngredients(meals, 10)

	want := []stats.LabeledValue{{Name: "rice", Value: 250}, {Name: "paneer", Value: 200}, {Name: "dal", Value: 80}}
	if len(got) != len(want) {
		t.Fatalf("expected %d items, got %d: %+v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestTopIngredientsTiesKeepEncounterOrder(t *testing.T) {
	meals := []model.MealBookings{
		meal(1, "A", model.MealLunch, 0, ing("salt", 5), ing("oil", 5), ing("rice", 50)),
	}

	got := stats.TopIngredients(meals, 10)

	if got[0].Name != "rice" || got[1].Name != "salt" || got[2].Name != "oil" {
		t.Errorf("unexpected order: %+v", got)
	}
}

func TestTopIngredientsIgnoresMealOrder(t *testing.T) {
	a := meal(1, "A", model.MealLunch, 2, ing("rice", 150), ing("dal", 30))
	b := meal(2, "B", model.MealDinner, 9, ing("dal", 90), ing("curd", 40))

	first := stats.TopIngredients([]model.MealBookings{a, b}, 10)
	second := stats.TopIngredients([]model.MealBookings{b, a}, 10)

	if len(first) != len(second) {
		t.Fatalf("length differs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("position %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestTopIngredientsKeepsTen(t *testing.T) {
	var ings []model.IngredientRequirement
	for i := 0; i < 15; i++ {
		ings = append(ings, ing(string(rune('a'+i)), float64(i)))
	}
	got := stats.TopIngredients([]model.MealBookings{meal(1, "A", model.MealLunch, 1, ings...)}, stats.LeaderboardSize)
	if len(got) != 10 {
		t.Fatalf("expected 10 items, got %d", len(got))
	}
	if got[0].Name != "o" || got[0].Value != 14 {
		t.Errorf("expected heaviest item first, got %+v", got[0])
	}
}

func TestMealTypeDistribution(t *testing.T) {
	meals := []model.MealBookings{
		meal(1, "A", model.MealDinner, 0),
		meal(2, "B", model.MealBreakfast, 0),
		meal(3, "C", model.MealDinner, 0),
	}

	got := stats.MealTypeDistribution(meals)

	want := []stats.LabeledValue{{Name: "BREAKFAST", Value: 1}, {Name: "DINNER", Value: 2}}
	if len(got) != len(want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestTopMealsRanksAndTruncates(t *testing.T) {
	meals := []model.MealBookings{
		meal(1, "Short", model.MealLunch, 4),
		meal(2, "Paneer Butter Masala with Garlic Naan", model.MealDinner, 12),
		meal(3, "Idli", model.MealBreakfast, 4),
	}

	got := stats.TopMeals(meals, 10)

	if got[0].Name != "Paneer Butter Masala" || len([]rune(got[0].Name)) != 20 {
		t.Errorf("expected title truncated to 20 chars, got %q", got[0].Name)
	}
	if got[0].Bookings != 12 || got[0].Type != model.MealDinner {
		t.Errorf("unexpected leader %+v", got[0])
	}
	if got[1].Name != "Short" || got[2].Name != "Idli" {
		t.Errorf("ties should keep input order, got %+v", got)
	}
	if meals[0].Title != "Short" || meals[1].Bookings != 12 {
		t.Error("input slice was modified")
	}
}

func TestTopMealsTruncatesByCharacter(t *testing.T) {
	got := stats.TopMeals([]model.MealBookings{meal(1, "Crème brûlée à la maison spéciale", model.MealDinner, 1)}, 10)
	if n := len([]rune(got[0].Name)); n != 20 {
		t.Errorf("expected 20 characters, got %d (%q)", n, got[0].Name)
	}
}
