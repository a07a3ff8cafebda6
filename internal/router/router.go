// Package router wires handlers and guards onto the echo instance.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/snehachill/meal-booking/internal/handler"
	"github.com/snehachill/meal-booking/internal/middleware"
)

// RegisterRoutes registers routes that need no session.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers account and token endpoints.  Register, login
// and refresh are rate limited per caller; /api/me needs a session.
// Logout accepts either a refresh token or a session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, limit echo.MiddlewareFunc) {
	e.POST("/api/register", a.Register, limit)

	g := e.Group("/api/auth")
	g.POST("/login", a.Login, limit)
	g.POST("/refresh", a.Refresh, limit)
	g.POST("/logout", a.Logout)

	e.GET("/api/me", a.Me, middleware.RequireAuth())
}

// RegisterPages registers the guarded admin page shell.
func RegisterPages(e *echo.Echo) {
	g := e.Group("/admin", middleware.GuardAdminPage())
	g.GET("", handler.AdminPage)
	g.GET("/*", handler.AdminPage)
}
