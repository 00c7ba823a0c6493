package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/homiin/portal/internal/core/domain"
)

type stubNavigation struct {
	decision domain.Decision
	gotPath  string
}

func (s *stubNavigation) Navigate(_ context.Context, _ string, path string) (domain.Route, domain.Decision, error) {
	s.gotPath = path
	return domain.Route{Path: path, RequiredRole: domain.RequireAdmin}, s.decision, nil
}

func serveGuarded(nav *stubNavigation, deviceID string) *httptest.ResponseRecorder {
	e := echo.New()
	e.GET("/admin/overview", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if deviceID != "" {
				c.Set(DeviceIDKey, deviceID)
			}
			return next(c)
		}
	}, Guard(nav, "/admin"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/overview", nil))
	return rec
}

func TestGuard(t *testing.T) {
	cases := []struct {
		name     string
		decision domain.Decision
		wantCode int
		wantLoc  string
	}{
		{"allowed", domain.Allow(), http.StatusOK, ""},
		{"signed out", domain.RedirectTo("/login"), http.StatusUnauthorized, "/login"},
		{"insufficient role", domain.RedirectTo("/"), http.StatusForbidden, "/"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nav := &stubNavigation{decision: tc.decision}
			rec := serveGuarded(nav, "dev-1")

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if nav.gotPath != "/admin" {
				t.Fatalf("guard evaluated %q", nav.gotPath)
			}
			if tc.wantLoc == "" {
				return
			}
			var resp guardResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Redirect != tc.wantLoc {
				t.Fatalf("expected redirect %q, got %q", tc.wantLoc, resp.Redirect)
			}
		})
	}
}

func TestGuard_MissingDevice(t *testing.T) {
	nav := &stubNavigation{decision: domain.Allow()}
	rec := serveGuarded(nav, "")

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if nav.gotPath != "" {
		t.Fatalf("guard must not run without a device")
	}
}
