package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/inventory-system/internal/core/domain"
)

type recordingRecorder struct {
	mu     sync.Mutex
	events []domain.ProductEvent
}

func (r *recordingRecorder) Record(_ context.Context, e domain.ProductEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingRecorder) snapshot() []domain.ProductEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.ProductEvent(nil), r.events...)
}

func TestDispatcher_PreservesPerProductOrder(t *testing.T) {
	rec := &recordingRecorder{}
	d := NewDispatcher(4, rec, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	const n = 50
	for i := 0; i < n; i++ {
		d.Publish(domain.ProductEvent{ID: fmt.Sprintf("a-%d", i), ProductID: "prod-a"})
		d.Publish(domain.ProductEvent{ID: fmt.Sprintf("b-%d", i), ProductID: "prod-b"})
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 2*n }, 2*time.Second, 5*time.Millisecond)
	cancel()
	d.Wait()

	next := map[string]int{}
	for _, e := range rec.snapshot() {
		want := fmt.Sprintf("%s-%d", e.ProductID[len("prod-"):], next[e.ProductID])
		assert.Equal(t, want, e.ID)
		next[e.ProductID]++
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingRecorder{}, zerolog.Nop())

	first := d.shardIndex("64f1c0ffee")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("64f1c0ffee"))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 8)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, &recordingRecorder{}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Publish(domain.ProductEvent{ProductID: "prod-a"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
	assert.Len(t, d.workers[0], channelBuffer)
}

func TestNewDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingRecorder{}, zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
}

func TestDispatcher_CloseDrainsQueuedEvents(t *testing.T) {
	rec := &recordingRecorder{}
	d := NewDispatcher(2, rec, zerolog.Nop())

	for i := 0; i < 20; i++ {
		d.Publish(domain.ProductEvent{ID: fmt.Sprintf("e-%d", i), ProductID: fmt.Sprintf("prod-%d", i%3)})
	}

	d.Start(context.Background())
	d.Close()
	d.Wait()

	assert.Len(t, rec.snapshot(), 20)
}

func TestDispatcher_PublishAfterCloseIsDropped(t *testing.T) {
	rec := &recordingRecorder{}
	d := NewDispatcher(1, rec, zerolog.Nop())
	d.Start(context.Background())

	d.Close()
	assert.NotPanics(t, func() {
		d.Publish(domain.ProductEvent{ID: "late", ProductID: "p1"})
	})
	assert.NotPanics(t, d.Close)
	d.Wait()

	assert.Empty(t, rec.snapshot())
}
