package service

import (
	"strings"

	"github.com/homiin/portal/internal/core/domain"
)

// Decide is the access guard. It is re-run on every navigation with only the
// current session and the target route, and has no side effects.
//
//	session  required     decision
//	none     none         allow
//	none     user/admin   redirect /login
//	user     none/user    allow
//	user     admin        redirect /
//	admin    any          allow
//
// A signed-in subject navigating to a login route is sent home.
func Decide(sess *domain.Session, route domain.Route) domain.Decision {
	if route.Unknown {
		return domain.RedirectTo(domain.HomePath)
	}
	if route.LoginRoute {
		if sess != nil {
			return domain.RedirectTo(domain.HomePath)
		}
		return domain.Allow()
	}

	switch route.RequiredRole {
	case domain.RequireNone, "":
		return domain.Allow()
	}
	if sess == nil {
		return domain.RedirectTo(domain.LoginPath)
	}
	if sess.Role.IsAtLeast(domain.Role(route.RequiredRole)) {
		return domain.Allow()
	}
	return domain.RedirectTo(domain.HomePath)
}

// RouteTable holds the route declarations the guard consults.
type RouteTable struct {
	routes map[string]domain.Route
	order  []string
}

// DefaultRoutes are the portal's views.
func DefaultRoutes() []domain.Route {
	return []domain.Route{
		{Path: "/", Name: "Início", RequiredRole: domain.RequireNone},
		{Path: "/sobre", Name: "Sobre", RequiredRole: domain.RequireNone},
		{Path: "/especialistas", Name: "Especialistas", RequiredRole: domain.RequireNone},
		{Path: "/campanhas", Name: "Campanhas", RequiredRole: domain.RequireNone},
		{Path: "/login", Name: "Entrar", RequiredRole: domain.RequireNone, LoginRoute: true},
		{Path: "/register", Name: "Cadastro", RequiredRole: domain.RequireNone, LoginRoute: true},
		{Path: "/dicas", Name: "Dicas de saúde", RequiredRole: domain.RequireUser},
		{Path: "/arquivos", Name: "Arquivos", RequiredRole: domain.RequireUser},
		{Path: "/chat", Name: "Chat", RequiredRole: domain.RequireUser},
		{Path: "/perfil", Name: "Perfil", RequiredRole: domain.RequireUser},
		{Path: "/admin", Name: "Admin", RequiredRole: domain.RequireAdmin},
	}
}

func NewRouteTable(routes ...domain.Route) *RouteTable {
	t := &RouteTable{routes: make(map[string]domain.Route, len(routes))}
	for _, r := range routes {
		p := cleanPath(r.Path)
		r.Path = p
		if _, dup := t.routes[p]; !dup {
			t.order = append(t.order, p)
		}
		t.routes[p] = r
	}
	return t
}

// Resolve finds the declaration for path. Query strings, fragments and a
// trailing slash are ignored. Unmatched paths come back with Unknown set.
func (t *RouteTable) Resolve(path string) domain.Route {
	p := cleanPath(path)
	if r, ok := t.routes[p]; ok {
		return r
	}
	return domain.Route{Path: p, RequiredRole: domain.RequireNone, Unknown: true}
}

// Routes lists declarations in declaration order.
func (t *RouteTable) Routes() []domain.Route {
	out := make([]domain.Route, 0, len(t.order))
	for _, p := range t.order {
		out = append(out, t.routes[p])
	}
	return out
}

func cleanPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
