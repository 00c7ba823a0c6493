package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/homiin/portal/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
		body string
	}{
		{"echo error", echo.NewHTTPError(http.StatusNotFound, "not found"), http.StatusNotFound, `{"error":"not found"}`},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, `{"error":"invalid credentials"}`},
		{"wrapped email taken", fmt.Errorf("register: %w", domain.ErrEmailTaken), http.StatusConflict, `{"error":"email already in use"}`},
		{"display name taken", domain.ErrDisplayNameTaken, http.StatusConflict, `{"error":"display name already in use"}`},
		{"persistence", domain.ErrSessionPersistence, http.StatusServiceUnavailable, `{"error":"session could not be saved"}`},
		{"unexpected", errors.New("db exploded"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			if got := rec.Body.String(); got != tc.body+"\n" {
				t.Fatalf("unexpected body %q", got)
			}
		})
	}
}
