package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/homiin/portal/internal/core/domain"
	"github.com/homiin/portal/internal/core/ports"
)

// DefaultSessionKey is the storage key the portal has always used.
const DefaultSessionKey = "user"

// SessionStore is the single source of truth for who is signed in. It holds
// at most one session and keeps it in agreement with its persisted slot.
type SessionStore struct {
	slot ports.SessionSlot
	key  string
	log  zerolog.Logger

	mu      sync.Mutex
	current *domain.Session

	subMu     sync.Mutex
	nextSubID int
	subs      map[int]func(*domain.Session)
}

// NewSessionStore builds a store over slot and restores any session persisted
// under key. Absent or malformed records yield an empty store, and so does an
// unreadable slot; OpenSessionStore reports that case instead.
func NewSessionStore(ctx context.Context, slot ports.SessionSlot, key string, log zerolog.Logger) *SessionStore {
	s := newSessionStore(slot, key, log)
	sess, err := s.restore(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("session slot unreadable, starting signed out")
	}
	s.current = sess
	return s
}

// OpenSessionStore is NewSessionStore for callers that must not mistake a slot
// outage for "signed out". A read failure returns ErrSessionPersistence and no
// store.
func OpenSessionStore(ctx context.Context, slot ports.SessionSlot, key string, log zerolog.Logger) (*SessionStore, error) {
	s := newSessionStore(slot, key, log)
	sess, err := s.restore(ctx)
	if err != nil {
		return nil, err
	}
	s.current = sess
	return s, nil
}

func newSessionStore(slot ports.SessionSlot, key string, log zerolog.Logger) *SessionStore {
	if key == "" {
		key = DefaultSessionKey
	}
	return &SessionStore{
		slot: slot,
		key:  key,
		log:  log,
		subs: make(map[int]func(*domain.Session)),
	}
}

func (s *SessionStore) restore(ctx context.Context) (*domain.Session, error) {
	raw, err := s.slot.Load(ctx, s.key)
	if err != nil {
		if errors.Is(err, domain.ErrSlotEmpty) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: load %s: %v", domain.ErrSessionPersistence, s.key, err)
	}
	sess, err := domain.DecodeSession(raw)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("discarding persisted session")
		return nil, nil
	}
	return sess, nil
}

// Key returns the slot key this store persists under.
func (s *SessionStore) Key() string { return s.key }

// Current returns a copy of the signed-in session, or nil.
func (s *SessionStore) Current() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Set replaces the session. The slot is written first; if that fails the
// in-memory value is left untouched.
func (s *SessionStore) Set(ctx context.Context, sess domain.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}
	payload, err := domain.EncodeSession(sess)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSessionPersistence, err)
	}

	s.mu.Lock()
	if err := s.slot.Save(ctx, s.key, payload); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", domain.ErrSessionPersistence, err)
	}
	s.current = &sess
	s.mu.Unlock()

	s.notify(&sess)
	return nil
}

// Clear signs out. The persisted copy is removed first; if that fails the
// session stays signed in and ErrSessionPersistence is returned. With no
// session in memory Clear always succeeds.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	had := s.current != nil
	if err := s.slot.Remove(ctx, s.key); err != nil {
		if had {
			s.mu.Unlock()
			return fmt.Errorf("%w: %v", domain.ErrSessionPersistence, err)
		}
		s.log.Warn().Err(err).Str("key", s.key).Msg("stale session slot not removed")
	}
	s.current = nil
	s.mu.Unlock()

	if had {
		s.notify(nil)
	}
	return nil
}

// Subscribe registers fn to be called after every change. The returned func
// removes the subscription.
func (s *SessionStore) Subscribe(fn func(*domain.Session)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *SessionStore) notify(sess *domain.Session) {
	s.subMu.Lock()
	fns := make([]func(*domain.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(sess.Clone())
	}
}
