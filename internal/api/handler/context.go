package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homiin/portal/internal/api/middleware"
)

// deviceID returns the device id set by the Device middleware. Its absence
// means the middleware did not run; fail fast before touching any session.
func deviceID(c echo.Context) (string, error) {
	id, _ := c.Get(middleware.DeviceIDKey).(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing device identity")
	}
	return id, nil
}
