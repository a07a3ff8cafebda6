package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snehachill/meal-booking/internal/service"
)

// MealHandler serves the signed-in user's meal endpoints.
type MealHandler struct {
	Meals    *service.MealService
	Bookings *service.BookingService
}

func NewMealHandler(m *service.MealService, b *service.BookingService) *MealHandler {
	return &MealHandler{Meals: m, Bookings: b}
}

type bookReq struct {
	MealID uint64 `json:"mealId"`
}

type feedbackReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ListUpcoming returns meals served from today onwards with their
// ingredients and booking counts.
func (h *MealHandler) ListUpcoming(c echo.Context) error {
	meals, _, err := h.Meals.Upcoming(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"meals": meals})
}

// Booked returns the ids of the meals the caller has booked.
func (h *MealHandler) Booked(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}
	ids, err := h.Meals.BookedMealIDs(c.Request().Context(), id.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookedMealIds": ids})
}

// Book reserves a meal for the caller.
func (h *MealHandler) Book(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	a, err := h.Bookings.Book(c.Request().Context(), id.UserID, req.MealID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "meal booked",
		"attendance": echo.Map{
			"id":        a.ID,
			"userId":    a.UserID,
			"mealId":    a.MealID,
			"attended":  a.Attended,
			"createdAt": a.CreatedAt,
		},
	})
}

// Feedback rates a meal.
func (h *MealHandler) Feedback(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}
	mealID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req feedbackReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	f, err := h.Bookings.Rate(c.Request().Context(), id.UserID, mealID, req.Rating, req.Comment)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "feedback submitted",
		"feedback": echo.Map{"id": f.ID, "mealId": f.MealID, "rating": f.Rating, "comment": f.Comment},
	})
}

// Attendance returns the caller's booking history and summary.
func (h *MealHandler) Attendance(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return respondError(c, err)
	}
	records, sum, err := h.Meals.Attendance(c.Request().Context(), id.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"attendance": records, "stats": sum})
}
