package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homiin/portal/internal/api/metrics"
	"github.com/homiin/portal/internal/core/domain"
	"github.com/homiin/portal/internal/core/ports"
	"github.com/homiin/portal/internal/core/service"
)

// IdentityCounter reports how many identities the registry holds.
type IdentityCounter interface {
	Len() int
}

type NavigationHandler struct {
	nav        ports.NavigationService
	auth       ports.AuthService
	routes     *service.RouteTable
	identities IdentityCounter
}

func NewNavigationHandler(nav ports.NavigationService, auth ports.AuthService, routes *service.RouteTable, identities IdentityCounter) *NavigationHandler {
	return &NavigationHandler{nav: nav, auth: auth, routes: routes, identities: identities}
}

type navigateResponse struct {
	Route    domain.Route    `json:"route"`
	Decision domain.Decision `json:"decision"`
}

type adminOverviewResponse struct {
	Identities int            `json:"identities"`
	Routes     []domain.Route `json:"routes"`
}

// Navigate evaluates the access guard for the given path.
//
// @Summary      Evaluate route access
// @Tags         navigation
// @Produce      json
// @Param        path  query     string  false  "Route path"  default(/)
// @Success      200   {object}  navigateResponse
// @Router       /navigate [get]
func (h *NavigationHandler) Navigate(c echo.Context) error {
	device, err := deviceID(c)
	if err != nil {
		return err
	}

	route, decision, err := h.nav.Navigate(c.Request().Context(), device, pathParam(c))
	if err != nil {
		return err
	}
	metrics.ObserveDecision(route, decision)

	return c.JSON(http.StatusOK, navigateResponse{Route: route, Decision: decision})
}

// Views returns what the navigation bar, chat widget and admin panel render
// for the current session on the given path.
//
// @Summary      Identity consumer views
// @Tags         navigation
// @Produce      json
// @Param        path  query     string  false  "Current path"  default(/)
// @Success      200   {object}  service.Views
// @Router       /views [get]
func (h *NavigationHandler) Views(c echo.Context) error {
	device, err := deviceID(c)
	if err != nil {
		return err
	}

	sess, err := h.auth.Current(c.Request().Context(), device)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, service.BuildViews(sess, h.routes, pathParam(c)))
}

// AdminOverview backs the admin dashboard. Access is enforced by the guard
// middleware mounted on the route.
//
// @Summary      Admin dashboard data
// @Tags         admin
// @Produce      json
// @Success      200  {object}  adminOverviewResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /admin/overview [get]
func (h *NavigationHandler) AdminOverview(c echo.Context) error {
	return c.JSON(http.StatusOK, adminOverviewResponse{
		Identities: h.identities.Len(),
		Routes:     h.routes.Routes(),
	})
}

func pathParam(c echo.Context) string {
	if p := c.QueryParam("path"); p != "" {
		return p
	}
	return domain.HomePath
}
