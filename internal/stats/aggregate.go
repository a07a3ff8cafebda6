// Package stats turns booking and ingredient rows into the demand figures
// shown on the admin pages.  Everything here is a pure function of its
// inputs; loading the rows is the repository's job.
package stats

import (
	"sort"
	"time"

	"github.com/snehachill/meal-booking/internal/model"
)

// LeaderboardSize is how many entries the dashboard rankings keep.
const LeaderboardSize = 10

// maxTitleLen is the display width of a meal title in the top-meals chart.
const maxTitleLen = 20

// IngredientDemand is the projected need for one ingredient of one meal.
type IngredientDemand struct {
	ItemName    string  `json:"itemName"`
	GramsPerPax float64 `json:"gramsPerPax"`
	TotalGrams  float64 `json:"totalGrams"`
}

// MealDemand is a meal together with its projected ingredient demand.
type MealDemand struct {
	ID               uint64             `json:"id"`
	Title            string             `json:"title"`
	Type             model.MealType     `json:"type"`
	Date             time.Time          `json:"date"`
	ImageRef         string             `json:"imgURL"`
	Bookings         int64              `json:"bookings"`
	IngredientCount  int                `json:"ingredientCount"`
	TotalIngredients float64            `json:"totalIngredients"`
	Ingredients      []IngredientDemand `json:"ingredients"`
}

// LabeledValue is a {name, value} pair as consumed by the chart widgets.
type LabeledValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// TopMeal is one row of the most-booked meals leaderboard.
type TopMeal struct {
	Name     string         `json:"name"`
	Bookings int64          `json:"bookings"`
	Type     model.MealType `json:"type"`
}

// MealDemandFor multiplies every per-person requirement of m by its
// booking count.
func MealDemandFor(m model.MealBookings) MealDemand {
	out := MealDemand{
		ID:              m.ID,
		Title:           m.Title,
		Type:            m.Type,
		Date:            m.Date,
		ImageRef:        m.ImageRef,
		Bookings:        m.Bookings,
		IngredientCount: len(m.Ingredients),
		Ingredients:     make([]IngredientDemand, 0, len(m.Ingredients)),
	}
	for _, ing := range m.Ingredients {
		total := ing.GramsPerPax * float64(m.Bookings)
		out.TotalIngredients += total
		out.Ingredients = append(out.Ingredients, IngredientDemand{
			ItemName:    ing.ItemName,
			GramsPerPax: ing.GramsPerPax,
			TotalGrams:  total,
		})
	}
	return out
}

// TopIngredients groups every requirement row by item name and ranks the
// items by the sum of their per-person grams, not projected mass.  Ties
// keep first-seen order.
func TopIngredients(meals []model.MealBookings, n int) []LabeledValue {
	sums := make(map[string]float64)
	var order []string
	for _, m := range meals {
		for _, ing := range m.Ingredients {
			if _, seen := sums[ing.ItemName]; !seen {
				order = append(order, ing.ItemName)
			}
			sums[ing.ItemName] += ing.GramsPerPax
		}
	}
	out := make([]LabeledValue, 0, len(order))
	for _, name := range order {
		out = append(out, LabeledValue{Name: name, Value: sums[name]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return truncate(out, n)
}

// MealTypeDistribution counts meals per type.  Types are reported in
// service order and types without meals are left out.
func MealTypeDistribution(meals []model.MealBookings) []LabeledValue {
	counts := make(map[model.MealType]int)
	for _, m := range meals {
		counts[m.Type]++
	}
	out := make([]LabeledValue, 0, len(model.MealTypes))
	for _, t := range model.MealTypes {
		if c := counts[t]; c > 0 {
			out = append(out, LabeledValue{Name: string(t), Value: float64(c)})
		}
	}
	return out
}

// TopMeals ranks meals by booking count, most booked first.  Equal counts
// keep their input order.
func TopMeals(meals []model.MealBookings, n int) []TopMeal {
	ranked := make([]model.MealBookings, len(meals))
	copy(ranked, meals)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Bookings > ranked[j].Bookings })
	ranked = truncate(ranked, n)

	out := make([]TopMeal, 0, len(ranked))
	for _, m := range ranked {
		out = append(out, TopMeal{Name: shortTitle(m.Title), Bookings: m.Bookings, Type: m.Type})
	}
	return out
}

func shortTitle(s string) string {
	r := []rune(s)
	if len(r) <= maxTitleLen {
		return s
	}
	return string(r[:maxTitleLen])
}

func truncate[T any](s []T, n int) []T {
	if n >= 0 && len(s) > n {
		return s[:n]
	}
	return s
}
