package router

import (
	"github.com/labstack/echo/v4"

	"github.com/snehachill/meal-booking/internal/handler"
	"github.com/snehachill/meal-booking/internal/middleware"
	"github.com/snehachill/meal-booking/internal/model"
)

// RegisterUser registers the meal endpoints open to any session and the
// history endpoint reserved to the USER role.  Booking is rate limited.
func RegisterUser(e *echo.Echo, h *handler.MealHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/api/meals", middleware.RequireAuth())
	g.GET("", h.ListUpcoming)
	g.GET("/booked", h.Booked)
	g.POST("/book", h.Book, limit)
	g.POST("/:id/feedback", h.Feedback)

	u := e.Group("/api/user", middleware.RequireRole(model.RoleUser))
	u.GET("/attendance", h.Attendance)
}
