package queue

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhive/api/internal/api/metrics"
	"github.com/bookhive/api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher delivers notifications asynchronously. Work is sharded by
// recipient id so one recipient's notifications are processed in order.
type Dispatcher struct {
	workers []chan ports.NotificationInput
	service ports.NotificationService
	log     zerolog.Logger

	mu       sync.RWMutex
	closed   bool
	stopped  chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NotificationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.NotificationInput, numWorkers),
		service: service,
		log:     log,
		stopped: make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.NotificationInput, channelBuffer)
	}
	return d
}

var _ ports.Notifier = (*Dispatcher)(nil)

// Start launches all worker goroutines. Cancelling ctx stops them without
// draining; use Close for a graceful stop.
func (d *Dispatcher) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		d.stopOnce.Do(func() { close(d.stopped) })
	}()

	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Notify enqueues n on its recipient's worker. It blocks while that worker's
// buffer is full and drops n once the dispatcher is closed or stopped.
func (d *Dispatcher) Notify(n ports.NotificationInput) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn().Uint("recipient", n.RecipientID).Msg("dispatcher closed, notification dropped")
		return
	}

	idx := d.shardIndex(n.RecipientID)
	select {
	case d.workers[idx] <- n:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	case <-d.stopped:
		d.log.Warn().Uint("recipient", n.RecipientID).Msg("dispatcher stopped, notification dropped")
	}
}

// Close stops accepting notifications and waits for queued ones to be processed.
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

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(recipientID uint) int {
	return int(recipientID % uint(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.NotificationInput) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-ch:
			if !ok {
				return
			}
			metrics.NotificationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			start := time.Now()
			outcome := "stored"
			if err := d.service.Process(ctx, n); err != nil {
				outcome = "error"
				d.log.Error().Err(err).
					Uint("recipient", n.RecipientID).
					Str("verb", string(n.Verb)).
					Int("worker_id", id).
					Msg("notification processing failed")
			}
			metrics.NotificationProcessingDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
		}
	}
}
