package manifest

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vango-dev/qcss/internal/errors"
)

// Watcher reloads a manifest file into a Store whenever it changes on
// disk. The parent directory is watched so that editors and build tools
// that replace the file by rename are seen.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	source   *FileSource
	store    *Store
	logger   *slog.Logger
	debounce time.Duration
	onError  func(error)
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchLogger sets the logger.
func WithWatchLogger(l *slog.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce sets how long the file must be quiet before reloading.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithErrorHandler is called when a reload fails. The previous manifest
// stays published.
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *Watcher) { w.onError = fn }
}

// NewWatcher creates a watcher for source publishing into store.
func NewWatcher(source *FileSource, store *Store, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.New("E204").Wrap(err)
	}
	w := &Watcher{
		fsw:      fsw,
		source:   source,
		store:    store,
		logger:   slog.Default(),
		debounce: 100 * time.Millisecond,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.source.Path)
	if err := w.fsw.Add(dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return errors.New("E204").WithDetail(dir).Wrap(err)
	}
	w.logger.Debug("watching manifest", "path", w.source.Path)

	go w.run(ctx)
	return nil
}

// Stop ends watching and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.fsw.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fsw.Close(); err != nil {
		w.logger.Error("closing manifest watcher", "error", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	target := filepath.Clean(w.source.Path)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload(ctx)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.fail(errors.New("E204").Wrap(err))
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	m, err := w.source.Load(ctx)
	if err != nil {
		w.fail(err)
		return
	}
	w.store.Swap(m)
	w.logger.Info("manifest reloaded", "path", w.source.Path, "entries", m.Len(), "version", w.store.Version())
}

func (w *Watcher) fail(err error) {
	w.logger.Warn("manifest reload failed", "error", err)
	if w.onError != nil {
		w.onError(err)
	}
}
