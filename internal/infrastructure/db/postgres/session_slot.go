package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/homiin/portal/internal/core/domain"
)

// SessionSlot keeps one serialised session per key in session_slots.
type SessionSlot struct {
	db *sql.DB
}

func NewSessionSlot(ctx context.Context, db *sql.DB) (*SessionSlot, error) {
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}
	s := &SessionSlot{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SessionSlot) ensureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS session_slots (
	slot_key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ensure session_slots schema: %w", err)
	}
	return nil
}

func (s *SessionSlot) Load(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM session_slots WHERE slot_key = $1`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSlotEmpty
		}
		return nil, fmt.Errorf("query session slot: %w", err)
	}
	return []byte(payload), nil
}

func (s *SessionSlot) Save(ctx context.Context, key string, payload []byte) error {
	const q = `
INSERT INTO session_slots (slot_key, payload, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (slot_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`
	if _, err := s.db.ExecContext(ctx, q, key, string(payload)); err != nil {
		return fmt.Errorf("upsert session slot: %w", err)
	}
	return nil
}

func (s *SessionSlot) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_slots WHERE slot_key = $1`, key); err != nil {
		return fmt.Errorf("delete session slot: %w", err)
	}
	return nil
}
