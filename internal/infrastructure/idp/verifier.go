// Package idp verifies ID tokens issued by the external identity provider.
package idp

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/homiin/portal/internal/core/domain"
	"github.com/homiin/portal/internal/core/ports"
)

// Config describes the provider's HS256 signing setup.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
	Leeway   time.Duration
}

// Claims are the ID token fields the portal reads.
type Claims struct {
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	Role    string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 ID tokens against a shared secret.
type Verifier struct {
	secret []byte
	opts   []jwt.ParserOption
}

var _ ports.ExternalIdentityVerifier = (*Verifier)(nil)

func NewVerifier(cfg Config) (*Verifier, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("idp: secret is required")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	return &Verifier{secret: []byte(cfg.Secret), opts: opts}, nil
}

// Verify parses token and builds the identity from its verified claims only.
// The admin role is granted solely by a "role":"admin" claim.
func (v *Verifier) Verify(_ context.Context, token string) (domain.ExternalIdentity, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, v.opts...)
	if err != nil || !tkn.Valid {
		return domain.ExternalIdentity{}, fmt.Errorf("%w: %v", domain.ErrUntrustedIdentity, err)
	}
	if claims.Subject == "" {
		return domain.ExternalIdentity{}, fmt.Errorf("%w: missing subject", domain.ErrUntrustedIdentity)
	}

	role := string(domain.RoleUser)
	if r, ok := domain.ParseRole(claims.Role); ok {
		role = string(r)
	}
	return domain.ExternalIdentity{
		UID:         claims.Subject,
		DisplayName: claims.Name,
		Email:       claims.Email,
		AvatarURL:   claims.Picture,
		Role:        role,
	}, nil
}

// Sign issues a token for claims. The provider side of Verify, used by tests
// and local tooling.
func Sign(secret string, claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
