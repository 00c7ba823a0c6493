package ports

import (
	"context"

	"github.com/homiin/portal/internal/core/domain"
)

// CredentialRegistry holds the known identities.
type CredentialRegistry interface {
	FindByEmail(email string) *domain.Identity
	FindByCredentials(email, password string) *domain.Identity
	ExistsEmail(email string) bool
	ExistsDisplayName(name string) bool
	Add(identity domain.Identity) error
}

// SessionSlot is a durable key/value slot holding one serialised session per key.
// Load returns domain.ErrSlotEmpty when the key holds nothing.
type SessionSlot interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, payload []byte) error
	Remove(ctx context.Context, key string) error
}

// ActivityRecorder persists session activity events.
type ActivityRecorder interface {
	Record(ctx context.Context, event domain.SessionEvent) error
}

// ExternalIdentityVerifier turns a signed assertion from an identity provider
// into the identity it vouches for. Anything it cannot verify is
// domain.ErrUntrustedIdentity.
type ExternalIdentityVerifier interface {
	Verify(ctx context.Context, assertion string) (domain.ExternalIdentity, error)
}
