package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homiin/portal/internal/api/metrics"
	"github.com/homiin/portal/internal/core/domain"
	"github.com/homiin/portal/internal/core/ports"
)

type guardResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

// Guard runs the access guard for routePath before the handler. A redirect to
// the login view answers 401, a redirect home answers 403; both carry the
// redirect target. Must run after Device.
func Guard(nav ports.NavigationService, routePath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			deviceID, _ := c.Get(DeviceIDKey).(string)
			if deviceID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing device identity")
			}

			route, decision, err := nav.Navigate(c.Request().Context(), deviceID, routePath)
			if err != nil {
				return err
			}
			metrics.ObserveDecision(route, decision)
			if decision.Allowed() {
				return next(c)
			}

			status := http.StatusForbidden
			if decision.Location == domain.LoginPath {
				status = http.StatusUnauthorized
			}
			return c.JSON(status, guardResponse{Error: "access denied", Redirect: decision.Location})
		}
	}
}
