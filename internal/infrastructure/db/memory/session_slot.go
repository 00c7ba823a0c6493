// Package memory provides a process-local session slot. Sessions do not
// survive a restart; it exists for development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/homiin/portal/internal/core/domain"
)

type SessionSlot struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewSessionSlot() *SessionSlot {
	return &SessionSlot{data: make(map[string][]byte)}
}

func (s *SessionSlot) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[key]
	if !ok {
		return nil, domain.ErrSlotEmpty
	}
	return append([]byte(nil), b...), nil
}

func (s *SessionSlot) Save(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), payload...)
	return nil
}

func (s *SessionSlot) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
