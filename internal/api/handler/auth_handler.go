package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/homiin/portal/internal/api/metrics"
	"github.com/homiin/portal/internal/core/domain"
	"github.com/homiin/portal/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	verifier    ports.ExternalIdentityVerifier
}

// NewAuthHandler builds the auth endpoints. A nil verifier disables
// /auth/external.
func NewAuthHandler(authService ports.AuthService, verifier ports.ExternalIdentityVerifier) *AuthHandler {
	return &AuthHandler{authService: authService, verifier: verifier}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"displayName" validate:"required,max=80"`
}

type externalRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type sessionResponse struct {
	Session *domain.Session `json:"session"`
}

// Login signs the device in with email and password.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	device, err := deviceID(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	sess, err := h.authService.Login(c.Request().Context(), device, req.Email, req.Password)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, sessionResponse{Session: sess})
}

// Register creates an identity and signs the device in as it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	device, err := deviceID(c)
	if err != nil {
		return err
	}

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	sess, err := h.authService.Register(c.Request().Context(), device, req.Email, req.Password, req.DisplayName)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusCreated, sessionResponse{Session: sess})
}

// External signs the device in with an identity vouched for by an external
// provider. Every identity field, role included, comes from the verified ID
// token. The identity is not added to the credential registry.
//
// @Summary      Login with an external identity
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      externalRequest  true  "Provider ID token"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /auth/external [post]
func (h *AuthHandler) External(c echo.Context) error {
	device, err := deviceID(c)
	if err != nil {
		return err
	}

	if h.verifier == nil {
		return authError(c, domain.ErrExternalLoginDisabled)
	}

	var req externalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()
	identity, err := h.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		return authError(c, err)
	}

	sess, err := h.authService.LoginWithExternalIdentity(ctx, device, identity)
	if err != nil {
		return authError(c, err)
	}
	return c.JSON(http.StatusOK, sessionResponse{Session: sess})
}

// Logout ends the device's session. It succeeds even when nobody is signed in.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	device, err := deviceID(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), device); err != nil {
		return authError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Session returns the device's current session, or null when signed out.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	device, err := deviceID(c)
	if err != nil {
		return err
	}
	sess, err := h.authService.Current(c.Request().Context(), device)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Session: sess})
}

// authError maps authentication failures to status codes. Anything unknown is
// handed to the central error handler.
func authError(c echo.Context, err error) error {
	var status int
	var reason string
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, reason = http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, domain.ErrUntrustedIdentity):
		status, reason = http.StatusUnauthorized, "untrusted_identity"
	case errors.Is(err, domain.ErrExternalLoginDisabled):
		status, reason = http.StatusServiceUnavailable, "external_login_disabled"
	case errors.Is(err, domain.ErrEmailTaken):
		status, reason = http.StatusConflict, "email_taken"
	case errors.Is(err, domain.ErrDisplayNameTaken):
		status, reason = http.StatusConflict, "display_name_taken"
	case errors.Is(err, domain.ErrSessionPersistence):
		status, reason = http.StatusServiceUnavailable, "session_persistence"
	default:
		return err
	}
	metrics.AuthErrorsTotal.WithLabelValues(reason).Inc()
	return c.JSON(status, map[string]string{"error": userMessage(err)})
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Email ou senha incorretos"
	case errors.Is(err, domain.ErrUntrustedIdentity):
		return "Não foi possível validar o login externo"
	case errors.Is(err, domain.ErrExternalLoginDisabled):
		return "Login externo indisponível"
	case errors.Is(err, domain.ErrEmailTaken):
		return "Este email já está em uso"
	case errors.Is(err, domain.ErrDisplayNameTaken):
		return "Este nome de usuário já está em uso"
	case errors.Is(err, domain.ErrSessionPersistence):
		return "Não foi possível salvar a sessão"
	}
	return err.Error()
}
