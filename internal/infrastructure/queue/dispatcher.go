package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/legalvibes/practice-api/internal/api/metrics"
	"github.com/legalvibes/practice-api/internal/core/domain"
	"github.com/legalvibes/practice-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	// drainTimeout bounds how long a stopping worker spends flushing its buffer.
	drainTimeout = 5 * time.Second
)

// Dispatcher routes activity entries to a fixed set of workers using
// consistent hashing on the owner id, so each identity's trail is written in
// order. It implements ports.ActivityRecorder.
type Dispatcher struct {
	workers []chan domain.Activity
	service ports.ActivityService
	log     zerolog.Logger
	wg      sync.WaitGroup
}

var _ ports.ActivityRecorder = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Activity, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Activity, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// persists what is already buffered, then returns.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record enqueues a to the worker responsible for its owner. It never blocks:
// when that worker's channel is full the entry is dropped.
func (d *Dispatcher) Record(a domain.Activity) {
	idx := d.shardIndex(a.OwnerID)
	select {
	case d.workers[idx] <- a:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.ActivityDroppedTotal.Inc()
		d.log.Warn().
			Str("user_id", a.OwnerID).
			Str("action", string(a.Action)).
			Int("worker_id", idx).
			Msg("activity queue full, entry dropped")
	}
}

// shardIndex maps an owner id deterministically to a worker index.
func (d *Dispatcher) shardIndex(ownerID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ownerID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Activity) {
	defer d.wg.Done()
	depth := metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx), id, ch)
			return
		case a, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.process(ctx, id, a)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.Activity) {
	ctx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()
	var flushed int
	for {
		select {
		case a, ok := <-ch:
			if !ok {
				return
			}
			if ctx.Err() != nil {
				metrics.ActivityDroppedTotal.Inc()
				continue
			}
			d.process(ctx, id, a)
			flushed++
		default:
			metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(0)
			if flushed > 0 {
				d.log.Debug().Int("worker_id", id).Int("flushed", flushed).Msg("activity buffer drained")
			}
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, id int, a domain.Activity) {
	if err := d.service.Process(ctx, a); err != nil {
		d.log.Error().Err(err).
			Str("user_id", a.OwnerID).
			Str("action", string(a.Action)).
			Int("worker_id", id).
			Msg("activity persistence failed")
	}
}
