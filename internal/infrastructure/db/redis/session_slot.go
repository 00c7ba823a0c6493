package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/homiin/portal/internal/core/domain"
)

const keyPrefix = "session:"

// SessionSlot stores serialised sessions under "session:<key>". Records never
// expire; a session ends only when it is removed.
type SessionSlot struct {
	client *redis.Client
}

// NewSessionSlot creates a SessionSlot wrapping the given Redis client.
func NewSessionSlot(client *redis.Client) *SessionSlot {
	return &SessionSlot{client: client}
}

func (s *SessionSlot) Load(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSlotEmpty
		}
		return nil, fmt.Errorf("session slot get: %w", err)
	}
	return b, nil
}

func (s *SessionSlot) Save(ctx context.Context, key string, payload []byte) error {
	if err := s.client.Set(ctx, s.key(key), payload, 0).Err(); err != nil {
		return fmt.Errorf("session slot set: %w", err)
	}
	return nil
}

func (s *SessionSlot) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("session slot del: %w", err)
	}
	return nil
}

func (s *SessionSlot) key(key string) string {
	return keyPrefix + key
}
