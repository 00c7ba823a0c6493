package service

import (
	"fmt"
	"sync"

	"github.com/homiin/portal/internal/core/domain"
)

// Seeded identities. They are always honored by Login, even if the generic
// registry is emptied.
var (
	SeedAdmin = domain.Identity{
		SubjectID:   "admin-1",
		Email:       "homiin.saude@gmail.com",
		Password:    "hominmais",
		DisplayName: "Admin",
		Role:        domain.RoleAdmin,
	}
	SeedUser = domain.Identity{
		SubjectID:   "user-1",
		Email:       "arthur@gmail.com",
		Password:    "123456",
		DisplayName: "Arthur",
		Role:        domain.RoleUser,
	}
)

// CredentialRegistry is the in-memory set of known identities. It is not
// persisted: a restart keeps only the seeded identities.
type CredentialRegistry struct {
	mu         sync.RWMutex
	identities []domain.Identity
}

// NewCredentialRegistry returns a registry holding the two seeded identities.
func NewCredentialRegistry() *CredentialRegistry {
	return &CredentialRegistry{
		identities: []domain.Identity{SeedAdmin, SeedUser},
	}
}

func (r *CredentialRegistry) FindByEmail(email string) *domain.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findLocked(email)
}

func (r *CredentialRegistry) FindByCredentials(email, password string) *domain.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := r.findLocked(email)
	if id == nil || id.Password != password {
		return nil
	}
	return id
}

func (r *CredentialRegistry) ExistsEmail(email string) bool {
	return r.FindByEmail(email) != nil
}

func (r *CredentialRegistry) ExistsDisplayName(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hasNameLocked(name)
}

// Add appends an identity. The uniqueness checks are repeated under the write
// lock so two concurrent registrations cannot both succeed.
func (r *CredentialRegistry) Add(identity domain.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findLocked(identity.Email) != nil {
		return fmt.Errorf("add identity: %w", domain.ErrEmailTaken)
	}
	if r.hasNameLocked(identity.DisplayName) {
		return fmt.Errorf("add identity: %w", domain.ErrDisplayNameTaken)
	}
	r.identities = append(r.identities, identity)
	return nil
}

// Len returns the number of identities, seeded ones included.
func (r *CredentialRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.identities)
}

func (r *CredentialRegistry) findLocked(email string) *domain.Identity {
	for i := range r.identities {
		if domain.SameEmail(r.identities[i].Email, email) {
			id := r.identities[i]
			return &id
		}
	}
	return nil
}

func (r *CredentialRegistry) hasNameLocked(name string) bool {
	for i := range r.identities {
		if r.identities[i].DisplayName == name {
			return true
		}
	}
	return false
}
