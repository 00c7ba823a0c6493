package service

import (
	"testing"

	"github.com/homiin/portal/internal/core/domain"
)

func hasLink(links []NavLink, href string) bool {
	for _, l := range links {
		if l.Href == href {
			return true
		}
	}
	return false
}

func TestNavigationBar(t *testing.T) {
	routes := NewRouteTable(DefaultRoutes()...)
	user := &domain.Session{SubjectID: "user-1", DisplayName: "Arthur", Email: "arthur@gmail.com", Role: domain.RoleUser}
	admin := &domain.Session{SubjectID: "admin-1", DisplayName: "Admin", Role: domain.RoleAdmin}

	t.Run("signed out shows entry links", func(t *testing.T) {
		bar := NavigationBar(nil, routes, "/")
		if bar.Visible || len(bar.EntryLinks) != 2 || bar.Profile != nil {
			t.Fatalf("unexpected bar: %+v", bar)
		}
	})

	t.Run("user has no admin link", func(t *testing.T) {
		bar := NavigationBar(user, routes, "/")
		if !bar.Visible || hasLink(bar.Links, "/admin") {
			t.Fatalf("unexpected bar: %+v", bar)
		}
		if bar.Profile == nil || bar.Profile.DisplayName != "Arthur" {
			t.Fatalf("expected profile, got %+v", bar.Profile)
		}
	})

	t.Run("admin has admin link", func(t *testing.T) {
		bar := NavigationBar(admin, routes, "/")
		if !hasLink(bar.Links, "/admin") {
			t.Fatalf("expected admin link, got %+v", bar.Links)
		}
	})

	t.Run("hidden on auth pages", func(t *testing.T) {
		if bar := NavigationBar(admin, routes, "/register"); bar.Visible {
			t.Fatalf("expected hidden bar, got %+v", bar)
		}
	})
}

func TestChatAndAdminPanel(t *testing.T) {
	routes := NewRouteTable(DefaultRoutes()...)
	user := &domain.Session{SubjectID: "user-1", DisplayName: "Arthur", Role: domain.RoleUser}
	admin := &domain.Session{SubjectID: "admin-1", DisplayName: "Admin", Role: domain.RoleAdmin}

	if Chat(nil, routes).Enabled {
		t.Fatalf("chat must be disabled when signed out")
	}
	if c := Chat(user, routes); !c.Enabled || c.Greeting != "Olá, Arthur!" {
		t.Fatalf("unexpected chat: %+v", c)
	}
	if Admin(nil, routes).Visible || Admin(user, routes).Visible {
		t.Fatalf("admin panel must be hidden for non-admins")
	}
	if !Admin(admin, routes).Visible {
		t.Fatalf("admin panel must render for admins")
	}

	v := BuildViews(admin, routes, "/")
	if !v.Nav.Visible || !v.Chat.Enabled || !v.Admin.Visible {
		t.Fatalf("unexpected views: %+v", v)
	}
}
