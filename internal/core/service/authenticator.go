package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/homiin/portal/internal/core/domain"
	"github.com/homiin/portal/internal/core/ports"
)

// SubjectIDs issues freshness-derived subject ids ("user-<unix millis>").
// Ids are strictly increasing: two requests in the same millisecond get
// consecutive values instead of colliding.
type SubjectIDs struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewSubjectIDs(now func() time.Time) *SubjectIDs {
	if now == nil {
		now = time.Now
	}
	return &SubjectIDs{now: now}
}

func (g *SubjectIDs) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("user-%d", ms)
}

// Authenticator verifies credentials and is the only writer of a SessionStore.
type Authenticator struct {
	registry ports.CredentialRegistry
	store    *SessionStore
	ids      *SubjectIDs
	deviceID string
	observe  func(domain.SessionEvent)
	now      func() time.Time
	log      zerolog.Logger
}

// AuthenticatorOption customises an Authenticator.
type AuthenticatorOption func(*Authenticator)

// WithSubjectIDs shares an id generator between authenticators.
func WithSubjectIDs(ids *SubjectIDs) AuthenticatorOption {
	return func(a *Authenticator) { a.ids = ids }
}

// WithObserver receives every authentication outcome.
func WithObserver(fn func(domain.SessionEvent)) AuthenticatorOption {
	return func(a *Authenticator) { a.observe = fn }
}

// WithDeviceID tags emitted events with the device the store belongs to.
func WithDeviceID(id string) AuthenticatorOption {
	return func(a *Authenticator) { a.deviceID = id }
}

// WithClock overrides time.Now for event timestamps.
func WithClock(now func() time.Time) AuthenticatorOption {
	return func(a *Authenticator) { a.now = now }
}

func NewAuthenticator(registry ports.CredentialRegistry, store *SessionStore, log zerolog.Logger, opts ...AuthenticatorOption) *Authenticator {
	a := &Authenticator{
		registry: registry,
		store:    store,
		now:      time.Now,
		log:      log,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.ids == nil {
		a.ids = NewSubjectIDs(a.now)
	}
	return a
}

// Login signs in with email and password. The two seeded identities are
// compared first so they keep working even if the registry is emptied.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	normalized := domain.NormalizeEmail(email)

	if normalized == domain.NormalizeEmail(SeedAdmin.Email) && password == SeedAdmin.Password {
		a.log.Debug().Str("subject_id", SeedAdmin.SubjectID).Msg("seeded admin matched")
		return a.start(ctx, sessionFor(SeedAdmin, SeedAdmin.SubjectID), domain.EventLogin)
	}
	if normalized == domain.NormalizeEmail(SeedUser.Email) && password == SeedUser.Password {
		a.log.Debug().Str("subject_id", SeedUser.SubjectID).Msg("seeded user matched")
		return a.start(ctx, sessionFor(SeedUser, SeedUser.SubjectID), domain.EventLogin)
	}

	identity := a.registry.FindByCredentials(email, password)
	if identity == nil {
		a.log.Info().Str("email", normalized).Msg("login rejected")
		a.emit(domain.SessionEvent{Kind: domain.EventLoginFailed, Email: normalized})
		return nil, domain.ErrInvalidCredentials
	}

	subjectID := identity.SubjectID
	if subjectID == "" {
		subjectID = a.ids.Next()
	}
	return a.start(ctx, sessionFor(*identity, subjectID), domain.EventLogin)
}

// Register creates a user-role identity and signs it in. The email check
// always runs before the display name check.
func (a *Authenticator) Register(ctx context.Context, email, password, displayName string) (*domain.Session, error) {
	if a.registry.ExistsEmail(email) {
		return nil, domain.ErrEmailTaken
	}
	if a.registry.ExistsDisplayName(displayName) {
		return nil, domain.ErrDisplayNameTaken
	}

	identity := domain.Identity{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
		Role:        domain.RoleUser,
	}
	if err := a.registry.Add(identity); err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			return nil, domain.ErrEmailTaken
		case errors.Is(err, domain.ErrDisplayNameTaken):
			return nil, domain.ErrDisplayNameTaken
		}
		return nil, err
	}

	a.log.Info().Str("email", domain.NormalizeEmail(email)).Msg("identity registered")
	return a.start(ctx, sessionFor(identity, a.ids.Next()), domain.EventRegister)
}

// LoginWithExternalIdentity trusts an identity already verified by an external
// provider. No registry lookup happens; the role is user unless the caller
// explicitly says admin.
func (a *Authenticator) LoginWithExternalIdentity(ctx context.Context, ext domain.ExternalIdentity) (*domain.Session, error) {
	role := domain.RoleUser
	if r, ok := domain.ParseRole(ext.Role); ok && r == domain.RoleAdmin {
		role = domain.RoleAdmin
	}
	subjectID := ext.UID
	if subjectID == "" {
		subjectID = a.ids.Next()
	}
	sess := domain.Session{
		SubjectID:   subjectID,
		DisplayName: ext.DisplayName,
		Email:       ext.Email,
		AvatarURL:   ext.AvatarURL,
		Role:        role,
	}
	return a.start(ctx, sess, domain.EventExternalLogin)
}

// Logout clears the session. Signing out with no session succeeds. If the
// persisted copy cannot be removed the subject stays signed in and
// ErrSessionPersistence is returned.
func (a *Authenticator) Logout(ctx context.Context) error {
	prev := a.store.Current()
	if err := a.store.Clear(ctx); err != nil {
		a.log.Error().Err(err).Str("key", a.store.Key()).Msg("failed to remove persisted session")
		return err
	}
	ev := domain.SessionEvent{Kind: domain.EventLogout}
	if prev != nil {
		ev.SubjectID = prev.SubjectID
		ev.Email = prev.Email
		ev.Role = prev.Role
	}
	a.emit(ev)
	return nil
}

// Current returns the signed-in session, or nil.
func (a *Authenticator) Current() *domain.Session {
	return a.store.Current()
}

func (a *Authenticator) start(ctx context.Context, sess domain.Session, kind domain.SessionEventKind) (*domain.Session, error) {
	if err := a.store.Set(ctx, sess); err != nil {
		a.log.Error().Err(err).Str("subject_id", sess.SubjectID).Str("kind", string(kind)).Msg("session not stored")
		return nil, err
	}
	a.log.Info().
		Str("subject_id", sess.SubjectID).
		Str("role", string(sess.Role)).
		Str("kind", string(kind)).
		Msg("session started")
	a.emit(domain.SessionEvent{
		Kind:      kind,
		SubjectID: sess.SubjectID,
		Email:     sess.Email,
		Role:      sess.Role,
	})
	return sess.Clone(), nil
}

func (a *Authenticator) emit(ev domain.SessionEvent) {
	if a.observe == nil {
		return
	}
	ev.DeviceID = a.deviceID
	ev.At = a.now().UTC()
	a.observe(ev)
}

func sessionFor(identity domain.Identity, subjectID string) domain.Session {
	return domain.Session{
		SubjectID:   subjectID,
		DisplayName: identity.DisplayName,
		Email:       identity.Email,
		Role:        identity.Role,
	}
}
