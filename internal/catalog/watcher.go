package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ReloadFunc receives a freshly loaded catalog.
type ReloadFunc func(c *Catalog)

// Watcher reloads a catalog file when it changes on disk.
// Invalid files are logged and ignored; the previous catalog stays in use.
type Watcher struct {
	path     string
	onReload ReloadFunc
	log      *zap.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewWatcher starts watching path. The directory is watched rather than
// the file so that editors replacing the file atomically are handled.
func NewWatcher(path string, onReload ReloadFunc, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		path:     abs,
		onReload: onReload,
		log:      log,
		watcher:  fw,
		done:     make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
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
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("catalog watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.log.Warn("catalog read failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	// Truncation shows up as a write of an empty file.
	if len(bytes.TrimSpace(data)) == 0 {
		return
	}

	c, err := LoadBytes(data)
	if err != nil {
		w.log.Warn("catalog reload failed, keeping previous catalog",
			zap.String("path", w.path), zap.Error(err))
		return
	}

	w.log.Info("catalog reloaded",
		zap.String("path", w.path),
		zap.Int("threats", len(c.Threats)))
	if w.onReload != nil {
		w.onReload(c)
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
