package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recordingRemover struct {
	mu      sync.Mutex
	removed []string
	fail    map[string]bool
	done    chan string
}

func newRecordingRemover() *recordingRemover {
	return &recordingRemover{fail: map[string]bool{}, done: make(chan string, 16)}
}

func (r *recordingRemover) Remove(path string) error {
	defer func() { r.done <- path }()
	if r.fail[path] {
		return errors.New("remove failed")
	}
	r.mu.Lock()
	r.removed = append(r.removed, path)
	r.mu.Unlock()
	return nil
}

func waitFor(t *testing.T, ch <-chan string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d removals", i, n)
		}
	}
}

func TestImageCleaner_RemovesDiscardedPaths(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := newRecordingRemover()
	c := NewImageCleaner(3, store, zerolog.Nop())
	c.Start(ctx)

	paths := []string{"images/a.png", "images/b.png", "images/c.png", "images/d.png"}
	for _, p := range paths {
		c.Discard(p)
	}
	waitFor(t, store.done, len(paths))

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.removed) != len(paths) {
		t.Errorf("expected %d removals, got %v", len(paths), store.removed)
	}
}

func TestImageCleaner_FailureDoesNotStopWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := newRecordingRemover()
	store.fail["images/bad.png"] = true
	c := NewImageCleaner(1, store, zerolog.Nop())
	c.Start(ctx)

	c.Discard("images/bad.png")
	c.Discard("images/good.png")
	waitFor(t, store.done, 2)

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.removed) != 1 || store.removed[0] != "images/good.png" {
		t.Errorf("unexpected removals %v", store.removed)
	}
}

func TestImageCleaner_IgnoresEmptyPath(t *testing.T) {
	c := NewImageCleaner(1, newRecordingRemover(), zerolog.Nop())
	c.Discard("")
	if n := len(c.workers[0]); n != 0 {
		t.Errorf("expected empty queue, got %d", n)
	}
}

func TestImageCleaner_DropsWhenQueueFull(t *testing.T) {
	c := NewImageCleaner(1, newRecordingRemover(), zerolog.Nop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			c.Discard("images/x.png")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Discard blocked on a full queue")
	}
	if n := len(c.workers[0]); n != channelBuffer {
		t.Errorf("expected %d queued, got %d", channelBuffer, n)
	}
}

func TestImageCleaner_ShardIsStable(t *testing.T) {
	c := NewImageCleaner(4, newRecordingRemover(), zerolog.Nop())
	first := c.shardIndex("images/a.png")
	for i := 0; i < 10; i++ {
		if got := c.shardIndex("images/a.png"); got != first {
			t.Fatalf("shard changed from %d to %d", first, got)
		}
	}
}

func TestNewImageCleaner_DefaultWorkers(t *testing.T) {
	c := NewImageCleaner(0, newRecordingRemover(), zerolog.Nop())
	if len(c.workers) != defaultWorkers {
		t.Errorf("expected %d workers, got %d", defaultWorkers, len(c.workers))
	}
}

func TestImageCleaner_CloseDrainsQueuedPaths(t *testing.T) {
	store := newRecordingRemover()
	store.done = make(chan string, channelBuffer)
	c := NewImageCleaner(2, store, zerolog.Nop())

	paths := []string{"images/a.png", "images/b.png", "images/c.png"}
	for _, p := range paths {
		c.Discard(p)
	}
	// Workers start only after the paths are queued, mirroring a shutdown
	// where requests discard images right before the cleaner is closed.
	c.Start(context.Background())
	c.Close()

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.removed) != len(paths) {
		t.Errorf("expected %d removals before Close returned, got %v", len(paths), store.removed)
	}
}

func TestImageCleaner_DiscardAfterCloseIsIgnored(t *testing.T) {
	store := newRecordingRemover()
	c := NewImageCleaner(1, store, zerolog.Nop())
	c.Start(context.Background())
	c.Close()
	c.Close()

	c.Discard("images/late.png")

	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.removed) != 0 {
		t.Errorf("expected no removals after Close, got %v", store.removed)
	}
}
