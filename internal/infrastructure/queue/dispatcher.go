package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/catregistry/cat-api/internal/api/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

// CatRemover deletes every cat owned by a user.
type CatRemover interface {
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
}

// Dispatcher removes the cats of deleted users in the background. Owner ids
// are routed to a fixed set of workers by hash so repeated jobs for the same
// owner run in order on one worker.
//
// Workers run until Stop closes their queues and every queued job has been
// handled. Jobs enqueued after Stop run synchronously on the caller.
type Dispatcher struct {
	workers []chan string
	remover CatRemover
	log     zerolog.Logger
	done    chan struct{}

	mu      sync.RWMutex
	stopped bool
	ctx     context.Context
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, remover CatRemover, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan string, numWorkers),
		remover: remover,
		log:     log,
		done:    make(chan struct{}),
		ctx:     context.Background(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. ctx is passed to the remover for
// every job; cancelling it does not stop the workers, Stop does.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	d.ctx = ctx
	d.mu.Unlock()

	finished := make(chan struct{}, len(d.workers))
	for i, ch := range d.workers {
		go func(id int, ch <-chan string) {
			d.runWorker(ctx, id, ch)
			finished <- struct{}{}
		}(i, ch)
	}
	go func() {
		for range d.workers {
			<-finished
		}
		close(d.done)
	}()
}

// Stop closes the worker queues. Workers finish what is already queued and
// then exit, after which Done is closed. Calling Stop more than once is safe.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
}

// Done is closed after every worker has stopped.
func (d *Dispatcher) Done() <-chan struct{} {
	return d.done
}

// Enqueue schedules removal of ownerID's cats. It blocks once the worker's
// buffer is full. After Stop the removal runs before Enqueue returns.
func (d *Dispatcher) Enqueue(ownerID string) {
	d.mu.RLock()
	if d.stopped {
		ctx := d.ctx
		d.mu.RUnlock()
		d.process(ctx, ownerID, -1)
		return
	}
	defer d.mu.RUnlock()

	idx := d.shardIndex(ownerID)
	d.workers[idx] <- ownerID
	metrics.CleanupQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps an owner id deterministically to a worker index.
func (d *Dispatcher) shardIndex(ownerID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(ownerID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	for ownerID := range ch {
		metrics.CleanupQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		d.process(ctx, ownerID, id)
	}
}

// process removes one owner's cats. workerID is -1 for inline jobs.
func (d *Dispatcher) process(ctx context.Context, ownerID string, workerID int) {
	n, err := d.remover.DeleteByOwner(ctx, ownerID)
	if err != nil {
		d.log.Error().Err(err).
			Str("owner_id", ownerID).
			Int("worker_id", workerID).
			Msg("owner cleanup failed")
		return
	}
	metrics.CascadeDeletedCatsTotal.Add(float64(n))
	d.log.Info().
		Str("owner_id", ownerID).
		Int64("deleted", n).
		Msg("owner cats removed")
}
