package cache

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/cesargomez89/reelbox/internal/logger"
	"github.com/cesargomez89/reelbox/internal/metrics"
)

// Watcher drops a cached listing as soon as its directory changes on disk.
// Directories are registered when their listing is stored.
type Watcher struct {
	cache   *Cache
	watcher *fsnotify.Watcher
	log     *logger.Logger

	mu      sync.Mutex
	watched map[string]bool

	done chan struct{}
	wg   sync.WaitGroup
}

// Watch attaches a filesystem watcher to c.
func Watch(c *Cache, log *logger.Logger) (*Watcher, error) {
	if log == nil {
		log = logger.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		cache:   c,
		watcher: fw,
		log:     log.WithComponent("cache-watcher"),
		watched: make(map[string]bool),
		done:    make(chan struct{}),
	}

	c.mu.Lock()
	c.onSetDir = w.add
	c.mu.Unlock()

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) add(dir string) {
	dir = filepath.Clean(dir)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watched[dir] {
		return
	}
	if err := w.watcher.Add(dir); err != nil {
		w.log.Debug("cannot watch directory", "dir", dir, "error", err)
		return
	}
	w.watched[dir] = true
}

// Watched reports how many directories are registered.
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watched)
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Write) {
				w.invalidate(filepath.Dir(event.Name))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

// invalidate drops both spellings of dir since listings may be cached
// with or without a trailing slash.
func (w *Watcher) invalidate(dir string) {
	w.cache.InvalidateDir(dir)
	w.cache.InvalidateDir(dir + string(filepath.Separator))
	metrics.CacheInvalidations.Inc()
	w.log.Debug("directory changed, cache entry dropped", "dir", dir)
}

// Close stops the event loop and releases the watcher.
func (w *Watcher) Close() error {
	w.cache.mu.Lock()
	w.cache.onSetDir = nil
	w.cache.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
