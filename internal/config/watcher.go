package config

import (
	"bytes"
	"context"
	"crypto/sha256"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 1500 * time.Millisecond

// Watcher keeps a typed value in sync with a file on disk. Handlers
// registered with OnReload receive every successfully loaded value.
//
// The parent directory is watched, not the file, so replacement by rename
// (editors, config management, `install -m`) is seen as a change.
type Watcher[T any] struct {
	path     string
	debounce time.Duration
	loader   func(path string) (T, error)
	onError  func(error)
	logger   *slog.Logger

	mu       sync.RWMutex
	handlers map[uint64]func(T)
	nextID   uint64
	current  T
	loaded   bool
	digest   []byte

	pendingMu sync.Mutex
	pending   *time.Timer

	fsw    *fsnotify.Watcher
	cancel context.CancelFunc
	done   chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption[T any] func(*Watcher[T])

// WithDebounce sets how long the file must be quiet before it is reloaded.
func WithDebounce[T any](d time.Duration) WatcherOption[T] {
	return func(w *Watcher[T]) {
		w.debounce = d
	}
}

// WithErrorHandler is called with every load error. Errors are logged
// either way.
func WithErrorHandler[T any](handler func(error)) WatcherOption[T] {
	return func(w *Watcher[T]) {
		w.onError = handler
	}
}

// NewConfigWatcher creates a watcher for path. Nothing is loaded until
// Reload is called or the file changes after Start.
func NewConfigWatcher[T any](
	path string,
	loader func(path string) (T, error),
	logger *slog.Logger,
	opts ...WatcherOption[T],
) *Watcher[T] {
	w := &Watcher[T]{
		path:     filepath.Clean(path),
		debounce: defaultDebounce,
		loader:   loader,
		logger:   logger,
		handlers: make(map[uint64]func(T)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// OnReload registers handler and returns a function removing it.
func (w *Watcher[T]) OnReload(handler func(T)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.handlers[id] = handler
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.handlers, id)
		w.mu.Unlock()
	}
}

// Current returns the last successfully loaded value.
func (w *Watcher[T]) Current() (T, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current, w.loaded
}

// Reload loads the file now and notifies handlers even if the content is
// unchanged.
func (w *Watcher[T]) Reload() error {
	return w.reload(true)
}

// Start watches the file until Stop.
func (w *Watcher[T]) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.fsw = fsw
	w.cancel = cancel
	w.done = make(chan struct{})

	w.logger.Info("Watching file", "path", w.path, "debounce", w.debounce)
	go w.loop(ctx)
	return nil
}

// Stop ends watching, drops any pending reload and waits for the loop.
func (w *Watcher[T]) Stop() error {
	if w.fsw == nil {
		return nil
	}
	w.cancel()
	err := w.fsw.Close()
	<-w.done

	w.pendingMu.Lock()
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	w.pendingMu.Unlock()

	w.fsw = nil
	return err
}

func (w *Watcher[T]) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			w.logger.Debug("File changed", "path", w.path, "op", ev.Op.String())
			w.schedule(ctx)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("File watcher error", "path", w.path, "error", err)
		}
	}
}

// schedule restarts the debounce timer.
func (w *Watcher[T]) schedule(ctx context.Context) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		_ = w.reload(false)
	})
}

// reload loads the file. Unless force is set, a file whose bytes match the
// last load is not handed to handlers again.
func (w *Watcher[T]) reload(force bool) error {
	if !force {
		data, err := os.ReadFile(w.path)
		if err == nil {
			sum := sha256.Sum256(data)
			w.mu.RLock()
			same := w.loaded && bytes.Equal(w.digest, sum[:])
			w.mu.RUnlock()
			if same {
				w.logger.Debug("File content unchanged, skipping reload", "path", w.path)
				return nil
			}
		}
	}

	value, err := w.loader(w.path)
	if err != nil {
		w.logger.Warn("Failed to load file", "path", w.path, "error", err)
		if w.onError != nil {
			w.onError(err)
		}
		return err
	}

	var digest []byte
	if data, readErr := os.ReadFile(w.path); readErr == nil {
		sum := sha256.Sum256(data)
		digest = sum[:]
	}

	w.mu.Lock()
	w.current = value
	w.loaded = true
	w.digest = digest
	handlers := make([]func(T), 0, len(w.handlers))
	for _, h := range w.handlers {
		handlers = append(handlers, h)
	}
	w.mu.Unlock()

	w.logger.Info("File reloaded", "path", w.path, "handlers", len(handlers))
	for _, h := range handlers {
		h(value)
	}
	return nil
}
