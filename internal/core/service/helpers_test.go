package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/homiin/portal/internal/core/domain"
)

var discardLogger = zerolog.Nop()

var errSlotDown = errors.New("slot unavailable")

// ---------------------------------------------------------------------------
// In-memory stub slot
// ---------------------------------------------------------------------------

type stubSlot struct {
	mu        sync.Mutex
	data      map[string][]byte
	saveErr   error // if set, Save returns this error
	removeErr error // if set, Remove returns this error
	loadErr   error // if set, Load returns this error
	saves     int
}

func newStubSlot() *stubSlot {
	return &stubSlot{data: make(map[string][]byte)}
}

func (s *stubSlot) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	b, ok := s.data[key]
	if !ok {
		return nil, domain.ErrSlotEmpty
	}
	return append([]byte(nil), b...), nil
}

func (s *stubSlot) Save(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.data[key] = append([]byte(nil), payload...)
	return nil
}

func (s *stubSlot) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.data, key)
	return nil
}

func (s *stubSlot) raw(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data[key]
	return b, ok
}

// ---------------------------------------------------------------------------
// Stub registry, for cases the real registry refuses to build
// ---------------------------------------------------------------------------

type stubRegistry struct {
	identities []domain.Identity
}

func (r *stubRegistry) FindByEmail(email string) *domain.Identity {
	for i := range r.identities {
		if domain.SameEmail(r.identities[i].Email, email) {
			id := r.identities[i]
			return &id
		}
	}
	return nil
}

func (r *stubRegistry) FindByCredentials(email, password string) *domain.Identity {
	id := r.FindByEmail(email)
	if id == nil || id.Password != password {
		return nil
	}
	return id
}

func (r *stubRegistry) ExistsEmail(email string) bool { return r.FindByEmail(email) != nil }

func (r *stubRegistry) ExistsDisplayName(name string) bool {
	for _, id := range r.identities {
		if id.DisplayName == name {
			return true
		}
	}
	return false
}

func (r *stubRegistry) Add(identity domain.Identity) error {
	r.identities = append(r.identities, identity)
	return nil
}

func newTestAuthenticator(slot *stubSlot, opts ...AuthenticatorOption) (*Authenticator, *CredentialRegistry, *SessionStore) {
	registry := NewCredentialRegistry()
	store := NewSessionStore(context.Background(), slot, DefaultSessionKey, discardLogger)
	return NewAuthenticator(registry, store, discardLogger, opts...), registry, store
}
