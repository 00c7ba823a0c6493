package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/homiin/portal/internal/api/middleware"
	"github.com/homiin/portal/internal/core/domain"
	"github.com/homiin/portal/internal/core/ports"
)

type stubAuthService struct {
	loginFn    func(ctx context.Context, deviceID, email, password string) (*domain.Session, error)
	registerFn func(ctx context.Context, deviceID, email, password, displayName string) (*domain.Session, error)
	externalFn func(ctx context.Context, deviceID string, identity domain.ExternalIdentity) (*domain.Session, error)
	logoutFn   func(ctx context.Context, deviceID string) error
	current    *domain.Session
}

func (s *stubAuthService) Login(ctx context.Context, deviceID, email, password string) (*domain.Session, error) {
	return s.loginFn(ctx, deviceID, email, password)
}

func (s *stubAuthService) Register(ctx context.Context, deviceID, email, password, displayName string) (*domain.Session, error) {
	return s.registerFn(ctx, deviceID, email, password, displayName)
}

func (s *stubAuthService) LoginWithExternalIdentity(ctx context.Context, deviceID string, identity domain.ExternalIdentity) (*domain.Session, error) {
	return s.externalFn(ctx, deviceID, identity)
}

func (s *stubAuthService) Logout(ctx context.Context, deviceID string) error {
	if s.logoutFn == nil {
		return nil
	}
	return s.logoutFn(ctx, deviceID)
}

func (s *stubAuthService) Current(_ context.Context, _ string) (*domain.Session, error) {
	return s.current, nil
}

type stubVerifier struct {
	tokens map[string]domain.ExternalIdentity
}

func (v stubVerifier) Verify(_ context.Context, token string) (domain.ExternalIdentity, error) {
	id, ok := v.tokens[token]
	if !ok {
		return domain.ExternalIdentity{}, domain.ErrUntrustedIdentity
	}
	return id, nil
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.DeviceIDKey, "dev-1")
	return c, rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, deviceID, email, password string) (*domain.Session, error) {
			if deviceID != "dev-1" || email != "arthur@gmail.com" || password != "123456" {
				t.Fatalf("unexpected args: %s %s %s", deviceID, email, password)
			}
			return &domain.Session{SubjectID: "user-1", DisplayName: "Arthur", Email: email, Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, rec := newTestContext(http.MethodPost, "/auth/login", `{"email":"arthur@gmail.com","password":"123456"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	sess, ok := resp["session"].(map[string]any)
	if !ok || sess["subjectId"] != "user-1" || sess["role"] != "user" {
		t.Fatalf("unexpected session payload: %+v", resp)
	}
	if _, leaked := sess["password"]; leaked {
		t.Fatalf("password must never be serialized")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, deviceID, email, password string) (*domain.Session, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, rec := newTestContext(http.MethodPost, "/auth/login", `{"email":"arthur@gmail.com","password":"bad"}`)
	_ = handler.Login(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_PersistenceFailure(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, deviceID, email, password string) (*domain.Session, error) {
			return nil, domain.ErrSessionPersistence
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, rec := newTestContext(http.MethodPost, "/auth/login", `{"email":"arthur@gmail.com","password":"123456"}`)
	_ = handler.Login(c)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, deviceID, email, password string) (*domain.Session, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	for _, body := range []string{"{", `{"email":"arthur@gmail.com"}`} {
		c, rec := newTestContext(http.MethodPost, "/auth/login", body)
		_ = handler.Login(c)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestAuthHandler_Login_MissingDevice(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{}`))
	c := e.NewContext(req, httptest.NewRecorder())

	err := handler.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, deviceID, email, password, displayName string) (*domain.Session, error) {
			if email != "ann@x.com" || password != "p" || displayName != "Ann" {
				t.Fatalf("unexpected args: %s %s %s", email, password, displayName)
			}
			return &domain.Session{SubjectID: "user-1", DisplayName: displayName, Email: email, Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, rec := newTestContext(http.MethodPost, "/auth/register", `{"email":"ann@x.com","password":"p","displayName":"Ann"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_Conflicts(t *testing.T) {
	for _, taken := range []error{domain.ErrEmailTaken, domain.ErrDisplayNameTaken} {
		stub := &stubAuthService{
			registerFn: func(ctx context.Context, deviceID, email, password, displayName string) (*domain.Session, error) {
				return nil, taken
			},
		}
		handler := NewAuthHandler(stub, nil)

		c, rec := newTestContext(http.MethodPost, "/auth/register", `{"email":"ann@x.com","password":"p","displayName":"Ann"}`)
		_ = handler.Register(c)

		if rec.Code != http.StatusConflict {
			t.Fatalf("%v: expected 409, got %d", taken, rec.Code)
		}
	}
}

func TestAuthHandler_Register_InvalidEmail(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, deviceID, email, password, displayName string) (*domain.Session, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, rec := newTestContext(http.MethodPost, "/auth/register", `{"email":"nope","password":"p","displayName":"Ann"}`)
	_ = handler.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "email must be a valid email") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_External(t *testing.T) {
	verifier := stubVerifier{tokens: map[string]domain.ExternalIdentity{
		"good-token": {UID: "g-1", DisplayName: "G", AvatarURL: "https://img.example/a.png", Role: "user"},
	}}
	stub := &stubAuthService{
		externalFn: func(ctx context.Context, deviceID string, identity domain.ExternalIdentity) (*domain.Session, error) {
			if identity.UID != "g-1" || identity.AvatarURL != "https://img.example/a.png" || identity.Role != "user" {
				t.Fatalf("unexpected identity: %+v", identity)
			}
			return &domain.Session{SubjectID: identity.UID, DisplayName: "G", AvatarURL: identity.AvatarURL, Role: domain.RoleUser}, nil
		},
	}
	handler := NewAuthHandler(stub, verifier)

	c, rec := newTestContext(http.MethodPost, "/auth/external", `{"idToken":"good-token","role":"admin"}`)
	if err := handler.External(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_External_Rejected(t *testing.T) {
	stub := &stubAuthService{
		externalFn: func(ctx context.Context, deviceID string, identity domain.ExternalIdentity) (*domain.Session, error) {
			t.Fatalf("login must not run for %+v", identity)
			return nil, nil
		},
	}
	verifier := stubVerifier{tokens: map[string]domain.ExternalIdentity{}}

	tests := []struct {
		name     string
		verifier ports.ExternalIdentityVerifier
		body     string
		status   int
	}{
		{"unverified token", verifier, `{"idToken":"forged"}`, http.StatusUnauthorized},
		{"raw identity without token", verifier, `{"uid":"x","role":"admin"}`, http.StatusBadRequest},
		{"no provider configured", nil, `{"idToken":"good-token"}`, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(stub, tt.verifier)
			c, rec := newTestContext(http.MethodPost, "/auth/external", tt.body)
			if err := handler.External(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	called := false
	stub := &stubAuthService{
		logoutFn: func(ctx context.Context, deviceID string) error {
			called = deviceID == "dev-1"
			return nil
		},
	}
	handler := NewAuthHandler(stub, nil)

	c, rec := newTestContext(http.MethodPost, "/auth/logout", "")
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent || !called {
		t.Fatalf("expected 204 and logout call, got %d called=%v", rec.Code, called)
	}
}

func TestAuthHandler_Session(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{}, nil)

	c, rec := newTestContext(http.MethodGet, "/auth/session", "")
	if err := handler.Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"session":null}` {
		t.Fatalf("expected null session, got %s", rec.Body.String())
	}
}
