package services

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestScanQueue_LimitsConcurrency(t *testing.T) {
	queue := NewScanQueue(2)

	var active, peak int32
	var wg sync.WaitGroup

	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			queue.Execute(context.Background(), func() error {
				current := atomic.AddInt32(&active, 1)
				for {
					observed := atomic.LoadInt32(&peak)
					if current <= observed || atomic.CompareAndSwapInt32(&peak, observed, current) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	if peak > 2 {
		t.Errorf("Expected at most 2 concurrent executions, observed %d", peak)
	}

	running, queued, max := queue.Status()
	if running != 0 || queued != 0 {
		t.Errorf("Queue should be drained, got running=%d queued=%d", running, queued)
	}
	if max != 2 {
		t.Errorf("Expected capacity 2, got %d", max)
	}
}

func TestScanQueue_PropagatesError(t *testing.T) {
	queue := NewScanQueue(1)

	want := assertableError("scan blew up")
	if err := queue.Execute(context.Background(), func() error { return want }); err != want {
		t.Errorf("Expected error propagated, got %v", err)
	}
}

type assertableError string

func (e assertableError) Error() string { return string(e) }

func TestScanQueue_CancelledWhileWaiting(t *testing.T) {
	queue := NewScanQueue(1)

	slotTaken := make(chan struct{})
	release := make(chan struct{})
	go func() {
		queue.Execute(context.Background(), func() error {
			close(slotTaken)
			<-release
			return nil
		})
	}()
	<-slotTaken
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := queue.Execute(ctx, func() error {
		ran = true
		return nil
	})
	if !stderrors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled while waiting for a slot, got %v", err)
	}
	if ran {
		t.Error("Cancelled caller must not run its scan")
	}

	// The abandoned wait must not leak a queued count.
	if _, queued, _ := queue.Status(); queued != 0 {
		t.Errorf("Expected no queued entries after cancellation, got %d", queued)
	}
}

func TestScanQueue_MinimumCapacity(t *testing.T) {
	queue := NewScanQueue(0)
	if _, _, max := queue.Status(); max != 1 {
		t.Errorf("Expected capacity clamped to 1, got %d", max)
	}
}
