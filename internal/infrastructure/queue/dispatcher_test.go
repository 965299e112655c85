package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRemover struct {
	mu    sync.Mutex
	calls []string
	err   error
	seen  chan string
}

func newRecordingRemover() *recordingRemover {
	return &recordingRemover{seen: make(chan string, 16)}
}

func (r *recordingRemover) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	r.calls = append(r.calls, ownerID)
	r.mu.Unlock()
	r.seen <- ownerID
	if r.err != nil {
		return 0, r.err
	}
	return 2, nil
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for worker")
		return ""
	}
}

func TestDispatcher_ProcessesEnqueuedOwners(t *testing.T) {
	remover := newRecordingRemover()
	d := NewDispatcher(3, remover, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue("owner-1")
	d.Enqueue("owner-2")

	got := map[string]bool{waitFor(t, remover.seen): true, waitFor(t, remover.seen): true}
	assert.Equal(t, map[string]bool{"owner-1": true, "owner-2": true}, got)
}

func TestDispatcher_SurvivesRemoverErrors(t *testing.T) {
	remover := newRecordingRemover()
	remover.err = errors.New("mongo unavailable")
	d := NewDispatcher(1, remover, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue("owner-1")
	d.Enqueue("owner-2")

	assert.Equal(t, "owner-1", waitFor(t, remover.seen))
	assert.Equal(t, "owner-2", waitFor(t, remover.seen))
}

func waitDone(t *testing.T, d *Dispatcher) {
	t.Helper()
	select {
	case <-d.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop")
	}
}

func TestDispatcher_StopDrainsQueuedJobs(t *testing.T) {
	remover := newRecordingRemover()
	d := NewDispatcher(2, remover, zerolog.Nop())
	d.Enqueue("owner-1")
	d.Enqueue("owner-2")
	d.Enqueue("owner-3")

	d.Start(context.Background())
	d.Stop()
	waitDone(t, d)

	remover.mu.Lock()
	defer remover.mu.Unlock()
	assert.ElementsMatch(t, []string{"owner-1", "owner-2", "owner-3"}, remover.calls)
}

func TestDispatcher_CancelledContextDoesNotStopWorkers(t *testing.T) {
	remover := newRecordingRemover()
	d := NewDispatcher(1, remover, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	d.Enqueue("owner-1")
	assert.Equal(t, "owner-1", waitFor(t, remover.seen))

	d.Stop()
	waitDone(t, d)
}

func TestDispatcher_EnqueueAfterStopRunsInline(t *testing.T) {
	remover := newRecordingRemover()
	d := NewDispatcher(2, remover, zerolog.Nop())
	d.Start(context.Background())
	d.Stop()
	d.Stop()
	waitDone(t, d)

	for i := 0; i < channelBuffer+1; i++ {
		d.Enqueue("late-owner")
		assert.Equal(t, "late-owner", waitFor(t, remover.seen))
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(0, newRecordingRemover(), zerolog.Nop())
	require.Len(t, d.workers, defaultWorkers)

	first := d.shardIndex("owner-1")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("owner-1"))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, defaultWorkers)
}
