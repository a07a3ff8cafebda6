package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const adminShell = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>Meal Booking Admin</title></head>
<body><div id="admin-root" data-api="/api/admin"></div></body>
</html>
`

// AdminPage serves the static shell the admin UI mounts into.
func AdminPage(c echo.Context) error {
	return c.HTML(http.StatusOK, adminShell)
}
