package ports

import (
	"context"

	"github.com/homiin/portal/internal/core/domain"
)

// AuthService is the per-device authentication surface used by HTTP handlers.
type AuthService interface {
	Login(ctx context.Context, deviceID, email, password string) (*domain.Session, error)
	Register(ctx context.Context, deviceID, email, password, displayName string) (*domain.Session, error)
	LoginWithExternalIdentity(ctx context.Context, deviceID string, identity domain.ExternalIdentity) (*domain.Session, error)
	Logout(ctx context.Context, deviceID string) error
	Current(ctx context.Context, deviceID string) (*domain.Session, error)
}

// NavigationService resolves paths and evaluates the access guard for a device.
type NavigationService interface {
	Navigate(ctx context.Context, deviceID, path string) (domain.Route, domain.Decision, error)
}
