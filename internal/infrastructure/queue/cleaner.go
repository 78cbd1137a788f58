package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/postboard/blog-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 2
	channelBuffer  = 128
)

// Remover deletes a stored image by its public path.
type Remover interface {
	Remove(path string) error
}

// ImageCleaner removes discarded images in the background. Paths are
// sharded by hash so removals of the same file are serialised on one worker.
type ImageCleaner struct {
	workers []chan string
	store   Remover
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewImageCleaner creates an ImageCleaner with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewImageCleaner(numWorkers int, store Remover, log zerolog.Logger) *ImageCleaner {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	c := &ImageCleaner{
		workers: make([]chan string, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range c.workers {
		c.workers[i] = make(chan string, channelBuffer)
	}
	return c
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled,
// dropping whatever is still queued; use Close to drain instead.
func (c *ImageCleaner) Start(ctx context.Context) {
	for i, ch := range c.workers {
		c.wg.Add(1)
		go c.runWorker(ctx, i, ch)
	}
}

// Close stops accepting paths, lets the workers remove everything already
// queued and waits for them to exit. Discard calls after Close are ignored.
func (c *ImageCleaner) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		for _, ch := range c.workers {
			close(ch)
		}
	}
	c.mu.Unlock()
	c.wg.Wait()
}

// Discard queues path for removal. It never blocks: when the worker's
// queue is full the path is dropped and logged.
func (c *ImageCleaner) Discard(path string) {
	if path == "" {
		return
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		c.log.Warn().Str("path", path).Msg("image cleaner closed, path dropped")
		return
	}
	idx := c.shardIndex(path)
	select {
	case c.workers[idx] <- path:
		metrics.ImageCleanupQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(c.workers[idx])))
	default:
		metrics.ImageCleanupTotal.WithLabelValues("dropped").Inc()
		c.log.Warn().Str("path", path).Int("worker_id", idx).Msg("image cleanup queue full, path dropped")
	}
}

func (c *ImageCleaner) shardIndex(path string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(path))
	return int(h.Sum32() % uint32(len(c.workers)))
}

func (c *ImageCleaner) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer c.wg.Done()
	depth := metrics.ImageCleanupQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			c.remove(id, path)
		}
	}
}

func (c *ImageCleaner) remove(id int, path string) {
	if err := c.store.Remove(path); err != nil {
		metrics.ImageCleanupTotal.WithLabelValues("failed").Inc()
		c.log.Warn().Err(err).Str("path", path).Int("worker_id", id).Msg("image removal failed")
		return
	}
	metrics.ImageCleanupTotal.WithLabelValues("removed").Inc()
	c.log.Debug().Str("path", path).Int("worker_id", id).Msg("image removed")
}
