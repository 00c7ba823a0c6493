package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/homiin/portal/internal/core/domain"
	"github.com/homiin/portal/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans session activity out to a fixed set of workers. Events are
// sharded by device id so one device's events are processed in order.
type Dispatcher struct {
	workers []chan domain.SessionEvent
	service ports.ActivityService
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher creates a Dispatcher with numWorkers shards.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.SessionEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.SessionEvent, channelBuffer)
	}
	return d
}

// Start launches the workers. They stop when ctx is cancelled or Close is called.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands an event to its shard. A full shard drops the event rather
// than stall the request that produced it, and so does a closed dispatcher.
func (d *Dispatcher) Enqueue(event domain.SessionEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn().
			Str("device_id", event.DeviceID).
			Str("kind", string(event.Kind)).
			Msg("activity dispatcher closed, event dropped")
		return
	}

	select {
	case d.workers[d.shardIndex(event.DeviceID)] <- event:
	default:
		d.log.Warn().
			Str("device_id", event.DeviceID).
			Str("kind", string(event.Kind)).
			Msg("activity queue full, event dropped")
	}
}

// Close stops accepting events and waits for the workers to drain. It is safe
// to call more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) shardIndex(deviceID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(deviceID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.SessionEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("device_id", event.DeviceID).
					Int("worker_id", id).
					Msg("activity processing failed")
			}
		}
	}
}
