package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/homiin/portal/internal/core/domain"
)

type recordingService struct {
	mu     sync.Mutex
	events []domain.SessionEvent
}

func (s *recordingService) Process(_ context.Context, ev domain.SessionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func TestDispatcher_PreservesPerDeviceOrder(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(3, svc, zerolog.Nop())
	d.Start(context.Background())

	kinds := []domain.SessionEventKind{domain.EventLoginFailed, domain.EventLogin, domain.EventLogout}
	for dev := 0; dev < 5; dev++ {
		for _, k := range kinds {
			d.Enqueue(domain.SessionEvent{DeviceID: fmt.Sprintf("dev-%d", dev), Kind: k})
		}
	}
	d.Close()

	if len(svc.events) != 15 {
		t.Fatalf("expected 15 events, got %d", len(svc.events))
	}
	perDevice := map[string][]domain.SessionEventKind{}
	for _, ev := range svc.events {
		perDevice[ev.DeviceID] = append(perDevice[ev.DeviceID], ev.Kind)
	}
	for dev, got := range perDevice {
		for i, k := range kinds {
			if got[i] != k {
				t.Fatalf("%s: event %d out of order: %v", dev, i, got)
			}
		}
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(0, &recordingService{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	if d.shardIndex("abc") != d.shardIndex("abc") {
		t.Fatalf("shard index must be deterministic")
	}
}

func TestDispatcher_EnqueueAfterCloseIsDropped(t *testing.T) {
	svc := &recordingService{}
	d := NewDispatcher(2, svc, zerolog.Nop())
	d.Start(context.Background())
	d.Close()

	d.Enqueue(domain.SessionEvent{DeviceID: "late", Kind: domain.EventLogout})
	d.Close()

	if len(svc.events) != 0 {
		t.Fatalf("expected late event dropped, got %+v", svc.events)
	}
}

func TestDispatcher_ConcurrentEnqueueAndClose(t *testing.T) {
	d := NewDispatcher(2, &recordingService{}, zerolog.Nop())
	d.Start(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d.Enqueue(domain.SessionEvent{DeviceID: fmt.Sprintf("dev-%d", i), Kind: domain.EventLogin})
			}
		}(i)
	}
	d.Close()
	wg.Wait()
}
