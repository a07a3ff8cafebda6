package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/snehachill/meal-booking/internal/utils"
)

// SessionCookie carries the access token for browser page requests.
const SessionCookie = "session"

// Session resolves the caller from a Bearer access token, or from the
// session cookie when no Authorization header is sent, and stores the
// resulting Identity in the context.  It never rejects a request; the
// guards in role.go decide what an anonymous caller may reach.
func Session(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := sessionToken(c); raw != "" {
				if claims, err := utils.ParseAccessToken(secret, raw); err == nil {
					c.Set(identityKey, Identity{UserID: claims.UserID, Role: claims.Role})
				}
			}
			return next(c)
		}
	}
}

func sessionToken(c echo.Context) string {
	if auth := c.Request().Header.Get(echo.HeaderAuthorization); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		}
		return ""
	}
	if ck, err := c.Cookie(SessionCookie); err == nil {
		return ck.Value
	}
	return ""
}
