package model

import (
	"strings"
	"time"
)

// MealType is one of the three services the cafeteria runs each day.
type MealType string

const (
	MealBreakfast MealType = "BREAKFAST"
	MealLunch     MealType = "LUNCH"
	MealDinner    MealType = "DINNER"
)

// MealTypes lists every meal type in service order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner}

// ParseMealType normalises s and reports whether it names a known type.
func ParseMealType(s string) (MealType, bool) {
	t := MealType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range MealTypes {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// Meal represents a single served meal as stored in the `meals` table.
//
// Fields:
//  ID       – primary key identifier.
//  Title    – menu title shown to students.
//  Type     – BREAKFAST, LUNCH or DINNER.
//  Date     – when the meal is served; bookings close once it passes.
//  ImageRef – URL of the meal picture.
type Meal struct {
	ID        uint64    // meals.id
	Title     string    // meals.title
	Type      MealType  // meals.type
	Date      time.Time // meals.date
	ImageRef  string    // meals.img_url
	CreatedAt time.Time // meals.created_at
}

// IngredientRequirement is the per-person quantity of one ingredient
// needed to serve a meal.  Rows are owned by their meal and removed with it.
type IngredientRequirement struct {
	ID          uint64  // ingredient_requirements.id
	MealID      uint64  // ingredient_requirements.meal_id
	ItemName    string  // ingredient_requirements.item_name
	GramsPerPax float64 // ingredient_requirements.grams_per_pax (NULL reads as 0)
}

// MealBookings joins a meal with its ingredient rows and the number of
// bookings referencing it.  Bookings counts every row, attended or not.
type MealBookings struct {
	Meal
	Ingredients []IngredientRequirement
	Bookings    int64
	Feedback    int64
}
