package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/snehachill/meal-booking/internal/model"
)

const identityKey = "identity"

// Identity is the authenticated caller of a request.
type Identity struct {
	UserID uint64
	Role   model.Role
}

// IdentityFrom returns the identity stored by Session, if any.
func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok && id.UserID != 0
}

// subject names the caller in rate limit keys.
func subject(c echo.Context) string {
	if id, ok := IdentityFrom(c); ok {
		return strconv.FormatUint(id.UserID, 10)
	}
	return "anon"
}
