package middleware

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DeviceIDKey is the echo context key holding the caller's device id.
const DeviceIDKey = "device_id"

const deviceIssuer = "homiin-portal"

// DeviceOptions configures the device cookie.
type DeviceOptions struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Device identifies the browser behind a request with a signed cookie. The
// cookie carries an HS256 JWT whose subject is the device id; a missing,
// tampered or expired cookie gets a fresh device id.
func Device(opts DeviceOptions) echo.MiddlewareFunc {
	if opts.CookieName == "" {
		opts.CookieName = "homiin_device"
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * 24 * time.Hour
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cookie, err := c.Cookie(opts.CookieName); err == nil && cookie.Value != "" {
				if id, err := ParseDeviceToken(opts.Secret, cookie.Value); err == nil {
					c.Set(DeviceIDKey, id)
					return next(c)
				}
			}

			id := uuid.NewString()
			token, err := SignDeviceToken(opts.Secret, id, opts.TTL)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "unable to issue device cookie")
			}
			c.SetCookie(&http.Cookie{
				Name:     opts.CookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				Secure:   opts.Secure,
				Expires:  time.Now().Add(opts.TTL),
			})
			c.Set(DeviceIDKey, id)
			return next(c)
		}
	}
}

// SignDeviceToken issues a device token for id.
func SignDeviceToken(secret, id string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   id,
		Issuer:    deviceIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseDeviceToken validates a device token and returns its device id.
func ParseDeviceToken(secret, token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(deviceIssuer))
	if err != nil || !tkn.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return "", jwt.ErrTokenInvalidSubject
	}
	return claims.Subject, nil
}
