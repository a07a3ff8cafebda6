package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snehachill/meal-booking/internal/apperr"
	"github.com/snehachill/meal-booking/internal/repository"
	"github.com/snehachill/meal-booking/internal/service"
)

// AdminHandler serves the /api/admin endpoints.
type AdminHandler struct {
	Meals     *service.MealService
	Dashboard *service.DashboardService
	Users     *repository.UserRepo
}

func NewAdminHandler(m *service.MealService, d *service.DashboardService, u *repository.UserRepo) *AdminHandler {
	return &AdminHandler{Meals: m, Dashboard: d, Users: u}
}

// CreateMeal adds a meal with its ingredient requirements.
func (h *AdminHandler) CreateMeal(c echo.Context) error {
	var in service.MealInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	meal, err := h.Meals.CreateMeal(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "meal created", "meal": meal})
}

// DeleteMeal removes a meal and everything hanging off it.
func (h *AdminHandler) DeleteMeal(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.Meals.DeleteMeal(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpcomingMeals lists upcoming meals with projected ingredient demand.
func (h *AdminHandler) UpcomingMeals(c echo.Context) error {
	meals, sum, err := h.Meals.Upcoming(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"meals": meals, "stats": sum})
}

// DashboardStats returns the composed dashboard.
func (h *AdminHandler) DashboardStats(c echo.Context) error {
	d, err := h.Dashboard.Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, d)
}

// ListUsers returns every account without password hashes.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context())
	if err != nil {
		return respondError(c, apperr.Wrap(err, apperr.Internal, "list users"))
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, toUserPart(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}
