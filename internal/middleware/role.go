package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/snehachill/meal-booking/internal/model"
)

// RequireAuth rejects requests without a session with 401.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := IdentityFrom(c); !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}

// RequireRole answers 401 without a session and 403 when the session's
// role is not one of roles.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if !allowed[id.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// GuardAdminPage protects the /admin pages: anonymous callers go to
// /login, signed-in non-admins to /dashboard.
func GuardAdminPage() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return c.Redirect(http.StatusFound, "/login")
			}
			switch id.Role {
			case model.RoleAdmin:
				return next(c)
			case model.RoleUser:
				return c.Redirect(http.StatusFound, "/dashboard")
			default:
				return c.Redirect(http.StatusFound, "/login")
			}
		}
	}
}
