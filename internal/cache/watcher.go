package cache

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// DefaultDebounce groups bursts of file events, such as editors writing a
// temp file and renaming it, into one invalidation.
const DefaultDebounce = 500 * time.Millisecond

// Invalidator is the part of DocumentCache the watcher drives.
type Invalidator interface {
	Invalidate(path string) int
	Flush()
}

// Watcher invalidates cache entries when files under root change. Paths
// handed to the Invalidator are slash separated and relative to root, the
// same form the content filesystem uses.
type Watcher struct {
	root     string
	target   Invalidator
	debounce time.Duration
	logger   interfaces.Logger
	onChange func(paths []string)

	mu      sync.Mutex
	pending map[string]struct{}
	flush   bool
	timer   *time.Timer
}

// WatcherOption customises a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(logger interfaces.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithChangeHandler is called after each debounced batch with the changed
// relative paths.
func WithChangeHandler(fn func(paths []string)) WatcherOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// NewWatcher constructs a Watcher for root.
func NewWatcher(root string, target Invalidator, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		root:     root,
		target:   target,
		debounce: DefaultDebounce,
		logger:   logging.NoOp(),
		pending:  map[string]struct{}{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w
}

// Run watches root and its subdirectories until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := w.addTree(watcher, w.root); err != nil {
		return err
	}
	w.logger.Info("cache.watch.started", "root", w.root)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handle(watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("cache.watch.error", "error", err)
		}
	}
}

func (w *Watcher) handle(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
		return
	}

	if event.Has(fsnotify.Create) && isDir(event.Name) {
		if err := w.addTree(watcher, event.Name); err != nil {
			w.logger.Warn("cache.watch.add_failed", "path", event.Name, "error", err)
		}
		w.schedule("", true)
		return
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		w.schedule("", true)
		return
	}
	// Removing or renaming a directory loses track of every file below it.
	removed := event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	w.schedule(filepath.ToSlash(rel), removed && filepath.Ext(rel) == "")
}

func (w *Watcher) schedule(path string, flush bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if path != "" {
		w.pending[path] = struct{}{}
	}
	w.flush = w.flush || flush
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.apply)
}

func (w *Watcher) apply() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	flush := w.flush
	w.pending = map[string]struct{}{}
	w.flush = false
	w.timer = nil
	w.mu.Unlock()

	if flush {
		w.target.Flush()
	} else {
		for _, path := range paths {
			w.target.Invalidate(path)
		}
	}
	w.logger.Debug("cache.watch.applied", "paths", len(paths), "flush", flush)
	if w.onChange != nil {
		w.onChange(paths)
	}
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) addTree(watcher *fsnotify.Watcher, root string) error {
	if _, err := os.Stat(root); err != nil {
		return err
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if watchErr := watcher.Add(path); watchErr != nil {
			w.logger.Warn("cache.watch.add_failed", "path", path, "error", watchErr)
		}
		return nil
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
