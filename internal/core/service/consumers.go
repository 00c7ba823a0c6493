package service

import (
	"github.com/homiin/portal/internal/core/domain"
)

// Identity consumers only read the session. Every visibility rule goes
// through Decide with the consumer's declared route.

// NavLink is one entry of the navigation bar.
type NavLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// NavBar is what the header renders.
type NavBar struct {
	Visible    bool      `json:"visible"`
	Links      []NavLink `json:"links"`
	EntryLinks []NavLink `json:"entryLinks,omitempty"`
	Profile    *Profile  `json:"profile,omitempty"`
}

// Profile is the dropdown summary of the signed-in subject.
type Profile struct {
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	Role        string `json:"role"`
}

// ChatWidget describes the floating chat assistant.
type ChatWidget struct {
	Enabled  bool   `json:"enabled"`
	Greeting string `json:"greeting,omitempty"`
}

// AdminPanel describes whether the admin dashboard can render.
type AdminPanel struct {
	Visible bool `json:"visible"`
}

// Views bundles all consumer projections for one render.
type Views struct {
	Nav   NavBar     `json:"nav"`
	Chat  ChatWidget `json:"chat"`
	Admin AdminPanel `json:"admin"`
}

var navRoutes = []NavLink{
	{Label: "Início", Href: "/"},
	{Label: "Especialistas", Href: "/#especialistas"},
	{Label: "Sobre", Href: "/#sobre"},
}

var entryLinks = []NavLink{
	{Label: "Entrar como Usuário", Href: "/login?role=user"},
	{Label: "Entrar como Admin", Href: "/login?role=admin"},
}

// NavigationBar builds the header for the page at currentPath. The header is
// hidden on login routes and while signed out.
func NavigationBar(sess *domain.Session, routes *RouteTable, currentPath string) NavBar {
	if sess == nil {
		return NavBar{EntryLinks: append([]NavLink(nil), entryLinks...)}
	}
	if routes.Resolve(currentPath).LoginRoute {
		return NavBar{}
	}

	bar := NavBar{
		Visible: true,
		Links:   append([]NavLink(nil), navRoutes...),
		Profile: &Profile{
			DisplayName: sess.DisplayName,
			Email:       sess.Email,
			AvatarURL:   sess.AvatarURL,
			Role:        string(sess.Role),
		},
	}
	admin := routes.Resolve("/admin")
	if !admin.Unknown && Decide(sess, admin).Allowed() {
		bar.Links = append(bar.Links, NavLink{Label: admin.Name, Href: admin.Path})
	}
	return bar
}

// Chat renders for any signed-in subject.
func Chat(sess *domain.Session, routes *RouteTable) ChatWidget {
	if sess == nil || !Decide(sess, routes.Resolve("/chat")).Allowed() {
		return ChatWidget{}
	}
	return ChatWidget{Enabled: true, Greeting: "Olá, " + sess.DisplayName + "!"}
}

// Admin renders only when the guard allows the admin route.
func Admin(sess *domain.Session, routes *RouteTable) AdminPanel {
	r := routes.Resolve("/admin")
	return AdminPanel{Visible: sess != nil && !r.Unknown && Decide(sess, r).Allowed()}
}

// BuildViews collects every consumer projection for currentPath.
func BuildViews(sess *domain.Session, routes *RouteTable, currentPath string) Views {
	return Views{
		Nav:   NavigationBar(sess, routes, currentPath),
		Chat:  Chat(sess, routes),
		Admin: Admin(sess, routes),
	}
}
