package upload

import (
	"log/slog"
	"os"
	"sync"

	"waypost/internal/observability"
)

// Cleaner removes image files on a small fixed worker pool. Post deletion
// must not wait on filesystem cleanup, so callers submit and move on; a
// failure to delete an individual file is logged and counted, never surfaced.
type Cleaner struct {
	wg   sync.WaitGroup
	jobs chan []string

	closeOnce sync.Once
}

// NewCleaner starts n workers draining the cleanup queue.
func NewCleaner(n int) *Cleaner {
	if n <= 0 {
		n = 2
	}
	c := &Cleaner{jobs: make(chan []string, 256)}
	for i := 0; i < n; i++ {
		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			for paths := range c.jobs {
				removeFiles(paths)
			}
		}()
	}
	return c
}

// Submit enqueues paths for deletion. If the queue is full the delete runs
// inline rather than blocking indefinitely or dropping the work.
func (c *Cleaner) Submit(paths []string) {
	select {
	case c.jobs <- paths:
	default:
		removeFiles(paths)
	}
}

// Stop drains the queue and waits for workers to finish.
func (c *Cleaner) Stop() {
	c.closeOnce.Do(func() {
		close(c.jobs)
	})
	c.wg.Wait()
}

func removeFiles(paths []string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			observability.CleanupFailures.Inc()
			slog.Warn("failed to remove image file", slog.String("path", p), slog.String("error", err.Error()))
		}
	}
}
