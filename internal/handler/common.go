// Package handler contains the echo handlers of the JSON API and the
// admin page shell.
package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/snehachill/meal-booking/internal/apperr"
	"github.com/snehachill/meal-booking/internal/middleware"
)

// respondError writes err as {"error": message} with the status of its
// kind.  Internal causes are logged, never returned.
func respondError(c echo.Context, err error) error {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).Error("request failed")
	}
	return c.JSON(kind.Status(), echo.Map{"error": apperr.PublicMessage(err)})
}

// caller returns the session identity; the route guards guarantee one.
func caller(c echo.Context) (middleware.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return id, apperr.New(apperr.Unauthenticated, "unauthorized")
	}
	return id, nil
}

func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.New(apperr.Validation, "invalid "+name)
	}
	return id, nil
}
