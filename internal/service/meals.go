package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/snehachill/meal-booking/internal/apperr"
	"github.com/snehachill/meal-booking/internal/model"
	"github.com/snehachill/meal-booking/internal/repository"
	"github.com/snehachill/meal-booking/internal/stats"
)

// DefaultMealImage is used when a meal is created without a picture.
const DefaultMealImage = "https://eduauraapublic.s3.ap-south-1.amazonaws.com/webassets/images/blogs/indian-food-nutrition.jpg"

// MealStore is the subset of the meal repository the catalogue needs.
type MealStore interface {
	Create(ctx context.Context, m *model.Meal, ings []model.IngredientRequirement) error
	Delete(ctx context.Context, id uint64) error
	Count(ctx context.Context) (int64, error)
	ListWithBookings(ctx context.Context, from time.Time) ([]model.MealBookings, error)
}

// BookingHistory reads a user's bookings.
type BookingHistory interface {
	ListByUser(ctx context.Context, userID uint64) ([]model.AttendanceDetail, error)
	MealIDsByUser(ctx context.Context, userID uint64) ([]uint64, error)
}

// IngredientInput is one requested ingredient of a new meal.
type IngredientInput struct {
	ItemName    string  `json:"itemName"`
	GramsPerPax float64 `json:"gramsPerPax"`
}

// MealInput is the admin request to create a meal.
type MealInput struct {
	Title       string            `json:"title"`
	Type        string            `json:"type"`
	Date        string            `json:"date"`
	ImgURL      string            `json:"imgURL"`
	Ingredients []IngredientInput `json:"ingredients"`
}

// MealService is the meal catalogue: admin maintenance plus the upcoming
// listings and per-user history.
type MealService struct {
	Meals    MealStore
	Bookings BookingHistory
	Now      func() time.Time
	Location *time.Location
}

// CreateMeal validates in and stores the meal with its ingredients.
// Type defaults to BREAKFAST and the image to DefaultMealImage.
func (s *MealService) CreateMeal(ctx context.Context, in MealInput) (stats.MealDemand, error) {
	title := strings.TrimSpace(in.Title)
	rawDate := strings.TrimSpace(in.Date)
	if title == "" || rawDate == "" {
		return stats.MealDemand{}, apperr.New(apperr.Validation, "title and date are required")
	}
	date, err := parseMealDate(rawDate, s.location())
	if err != nil {
		return stats.MealDemand{}, apperr.Wrap(err, apperr.Validation, "date must be YYYY-MM-DD or an RFC 3339 timestamp")
	}

	typ := model.MealBreakfast
	if strings.TrimSpace(in.Type) != "" {
		t, ok := model.ParseMealType(in.Type)
		if !ok {
			return stats.MealDemand{}, apperr.New(apperr.Validation, "type must be BREAKFAST, LUNCH or DINNER")
		}
		typ = t
	}

	ings := make([]model.IngredientRequirement, 0, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		name := strings.TrimSpace(ing.ItemName)
		if name == "" || ing.GramsPerPax <= 0 {
			return stats.MealDemand{}, apperr.New(apperr.Validation, "each ingredient needs a name and grams greater than 0")
		}
		ings = append(ings, model.IngredientRequirement{ItemName: name, GramsPerPax: ing.GramsPerPax})
	}
	if len(ings) == 0 {
		return stats.MealDemand{}, apperr.New(apperr.Validation, "at least one ingredient is required")
	}

	img := strings.TrimSpace(in.ImgURL)
	if img == "" {
		img = DefaultMealImage
	}
	m := model.Meal{Title: title, Type: typ, Date: date.UTC(), ImageRef: img, CreatedAt: s.now().UTC()}
	if err := s.Meals.Create(ctx, &m, ings); err != nil {
		return stats.MealDemand{}, apperr.Wrap(err, apperr.Internal, "create meal")
	}
	return stats.MealDemandFor(model.MealBookings{Meal: m, Ingredients: ings}), nil
}

// DeleteMeal removes a meal together with its bookings, requirements and
// feedback.
func (s *MealService) DeleteMeal(ctx context.Context, id uint64) error {
	err := s.Meals.Delete(ctx, id)
	if errors.Is(err, repository.ErrMealNotFound) {
		return apperr.Wrap(err, apperr.NotFound, "meal not found")
	}
	if err != nil {
		return apperr.Wrap(err, apperr.Internal, "delete meal")
	}
	return nil
}

// Upcoming lists meals served from the start of today onwards with their
// projected ingredient demand, plus the summary shown above the list.
func (s *MealService) Upcoming(ctx context.Context) ([]stats.MealDemand, stats.UpcomingSummary, error) {
	meals, err := s.Meals.ListWithBookings(ctx, s.startOfToday())
	if err != nil {
		return nil, stats.UpcomingSummary{}, apperr.Wrap(err, apperr.Internal, "list upcoming meals")
	}
	list, sum := stats.Upcoming(meals)
	return list, sum, nil
}

// BookedMealIDs lists the meals userID has booked.
func (s *MealService) BookedMealIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	ids, err := s.Bookings.MealIDsByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "list booked meals")
	}
	return ids, nil
}

// Attendance returns userID's booking history and its summary.
func (s *MealService) Attendance(ctx context.Context, userID uint64) ([]model.AttendanceDetail, stats.AttendanceSummary, error) {
	records, err := s.Bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, stats.AttendanceSummary{}, apperr.Wrap(err, apperr.Internal, "list attendance")
	}
	total, err := s.Meals.Count(ctx)
	if err != nil {
		return nil, stats.AttendanceSummary{}, apperr.Wrap(err, apperr.Internal, "count meals")
	}
	return records, stats.SummarizeAttendance(records, total), nil
}

// parseMealDate accepts a calendar day, taken as midnight in loc, or a
// full RFC 3339 timestamp.
func parseMealDate(raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, raw, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func (s *MealService) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s *MealService) startOfToday() time.Time {
	loc := s.location()
	now := s.now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}

func (s *MealService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
