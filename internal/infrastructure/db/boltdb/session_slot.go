// Package boltdb keeps session slots in a local bolt file, the server-side
// counterpart of a browser's local storage.
package boltdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"

	"github.com/homiin/portal/internal/core/domain"
)

var sessionsBucket = []byte("Sessions")

// SessionSlot stores one serialised session per key in the Sessions bucket.
type SessionSlot struct {
	db *bolt.DB
}

// Open opens (creating if needed) the bolt file at path and makes sure the
// Sessions bucket exists.
func Open(path string) (*SessionSlot, error) {
	if path == "" {
		return nil, fmt.Errorf("bolt path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir bolt dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sessions bucket: %w", err)
	}
	return &SessionSlot{db: db}, nil
}

func (s *SessionSlot) Load(_ context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(sessionsBucket).Get([]byte(key))
		if raw == nil {
			return domain.ErrSlotEmpty
		}
		// raw is only valid inside the transaction.
		out = append([]byte(nil), raw...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SessionSlot) Save(_ context.Context, key string, payload []byte) error {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Put([]byte(key), payload)
	}); err != nil {
		return fmt.Errorf("put session slot: %w", err)
	}
	return nil
}

func (s *SessionSlot) Remove(_ context.Context, key string) error {
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(sessionsBucket).Delete([]byte(key))
	}); err != nil {
		return fmt.Errorf("delete session slot: %w", err)
	}
	return nil
}

// Close releases the file lock.
func (s *SessionSlot) Close() error {
	return s.db.Close()
}
