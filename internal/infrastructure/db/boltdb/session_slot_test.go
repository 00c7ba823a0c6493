package boltdb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/homiin/portal/internal/core/domain"
)

func TestSessionSlot_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "portal.db")

	slot, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := slot.Load(ctx, "user"); !errors.Is(err, domain.ErrSlotEmpty) {
		t.Fatalf("expected ErrSlotEmpty, got %v", err)
	}
	if err := slot.Save(ctx, "user", []byte(`{"subjectId":"admin-1"}`)); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := slot.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	slot2, err := Open(path)
	if err != nil {
		t.Fatalf("Open() second error: %v", err)
	}
	defer slot2.Close()

	got, err := slot2.Load(ctx, "user")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if string(got) != `{"subjectId":"admin-1"}` {
		t.Fatalf("unexpected payload %s", got)
	}

	if err := slot2.Remove(ctx, "user"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := slot2.Load(ctx, "user"); !errors.Is(err, domain.ErrSlotEmpty) {
		t.Fatalf("expected ErrSlotEmpty after remove, got %v", err)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
