package stats

import (
	"math"

	"github.com/snehachill/meal-booking/internal/model"
)

// Totals are the plain counts read from the store for the dashboard.
type Totals struct {
	Users      int64   // users with role USER
	Meals      int64   // all meals
	Attendance int64   // all bookings, attended or not
	Feedback   int64   // feedback entries
	AvgRating  float64 // mean feedback rating, 0 without feedback
}

// Dashboard is the admin summary payload.
type Dashboard struct {
	TotalUsers            int64          `json:"totalUsers"`
	TotalMeals            int64          `json:"totalMeals"`
	TotalAttendance       int64          `json:"totalAttendance"`
	TotalFeedback         int64          `json:"totalFeedback"`
	AvgRating             float64        `json:"avgRating"`
	BookingRate           float64        `json:"bookingRate"`
	MealsPerUser          float64        `json:"mealsPerUser"`
	MealDistribution      []LabeledValue `json:"mealDistribution"`
	IngredientConsumption []LabeledValue `json:"ingredientConsumption"`
	AttendanceTrends      []TrendPoint   `json:"attendanceTrends"`
	TopMeals              []TopMeal      `json:"topMeals"`
}

// Compose builds the dashboard payload.  meals is read but never modified.
func Compose(t Totals, meals []model.MealBookings, trend []TrendPoint) Dashboard {
	if trend == nil {
		trend = []TrendPoint{}
	}
	return Dashboard{
		TotalUsers:            t.Users,
		TotalMeals:            t.Meals,
		TotalAttendance:       t.Attendance,
		TotalFeedback:         t.Feedback,
		AvgRating:             t.AvgRating,
		BookingRate:           BookingRate(t.Attendance, t.Meals),
		MealsPerUser:          MealsPerUser(t.Meals, t.Users),
		MealDistribution:      MealTypeDistribution(meals),
		IngredientConsumption: TopIngredients(meals, LeaderboardSize),
		AttendanceTrends:      trend,
		TopMeals:              TopMeals(meals, LeaderboardSize),
	}
}

// BookingRate is bookings per meal as a percentage, 0 when there are no meals.
func BookingRate(bookings, meals int64) float64 {
	return ratio(bookings, meals) * 100
}

// MealsPerUser is 0 when there are no users.
func MealsPerUser(meals, users int64) float64 {
	return ratio(meals, users)
}

func ratio(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// UpcomingSummary backs the stats block of the admin upcoming-meals page.
type UpcomingSummary struct {
	TotalUpcomingMeals int     `json:"totalUpcomingMeals"`
	TotalBookings      int64   `json:"totalBookings"`
	AvgIngredients     float64 `json:"avgIngredients"`
}

// Upcoming computes per-meal demand and the page summary.  AvgIngredients
// is projected grams per meal rounded to one decimal.
func Upcoming(meals []model.MealBookings) ([]MealDemand, UpcomingSummary) {
	out := make([]MealDemand, 0, len(meals))
	var sum UpcomingSummary
	var grams float64
	for _, m := range meals {
		d := MealDemandFor(m)
		sum.TotalBookings += d.Bookings
		grams += d.TotalIngredients
		out = append(out, d)
	}
	sum.TotalUpcomingMeals = len(meals)
	if len(meals) > 0 {
		sum.AvgIngredients = math.Round(grams/float64(len(meals))*10) / 10
	}
	return out, sum
}

// AttendanceSummary backs the stats block of a user's booking history.
type AttendanceSummary struct {
	TotalBooked   int   `json:"totalBooked"`
	AttendedCount int   `json:"attendedCount"`
	BookingRate   int   `json:"bookingRate"`
	TotalMeals    int64 `json:"totalMeals"`
}

// SummarizeAttendance reports how many of a user's bookings were eaten,
// as a whole percentage.
func SummarizeAttendance(records []model.AttendanceDetail, totalMeals int64) AttendanceSummary {
	s := AttendanceSummary{TotalBooked: len(records), TotalMeals: totalMeals}
	for _, r := range records {
		if r.Attended {
			s.AttendedCount++
		}
	}
	if s.TotalBooked > 0 {
		s.BookingRate = int(math.Round(float64(s.AttendedCount) / float64(s.TotalBooked) * 100))
	}
	return s
}
