package router

import (
	"github.com/labstack/echo/v4"

	"github.com/snehachill/meal-booking/internal/handler"
	"github.com/snehachill/meal-booking/internal/middleware"
	"github.com/snehachill/meal-booking/internal/model"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /api/admin.  The
// dashboard is served through the response cache.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/api/admin", middleware.RequireRole(model.RoleAdmin))

	g.POST("/meals", h.CreateMeal)
	g.DELETE("/meals/:id", h.DeleteMeal)
	g.GET("/upcoming-meals", h.UpcomingMeals)
	g.GET("/dashboard-stats", h.DashboardStats, cache)
	g.GET("/users", h.ListUsers)
}
