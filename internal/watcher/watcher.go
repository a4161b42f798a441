// Package watcher re-validates governed folders when their files change.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/hyperjump/tadasu/internal/rules"
	"github.com/hyperjump/tadasu/internal/site"
)

const defaultDebounce = 400 * time.Millisecond

// Watcher watches a set of governed folders and invokes a callback when a
// folder's content or rule set changes. Each folder is watched non-recursively;
// a change anywhere in a folder schedules one debounced callback for that
// folder, so a burst of edits triggers a single re-validation.
type Watcher struct {
	folders  []string
	onChange func(folder string)
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *zap.Logger // optional; when set, logs debug events

	mu          sync.Mutex
	debounceMap map[string]*time.Timer // folder -> pending callback
	done        chan struct{}
	started     bool
	stopOnce    sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a logger for debug output (events, debounced callbacks).
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce overrides the debounce window. Used by tests.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New creates a watcher over the given governed folders. onChange is called
// with the folder path after its contents settle.
func New(folders []string, onChange func(folder string), opts ...Option) *Watcher {
	w := &Watcher{
		folders:     folders,
		onChange:    onChange,
		debounce:    defaultDebounce,
		debounceMap: make(map[string]*time.Timer),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start starts watching. It runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.watcher = watcher
	w.started = true
	if w.logger != nil {
		w.logger.Debug("watcher starting", zap.Strings("folders", w.folders))
	}
	for _, folder := range w.folders {
		if err := w.watcher.Add(filepath.Clean(folder)); err != nil {
			_ = w.watcher.Close()
			w.watcher = nil
			w.started = false
			w.mu.Unlock()
			return err
		}
	}
	w.mu.Unlock()
	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil && w.logger != nil {
				w.logger.Debug("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	path := ev.Name
	if !relevant(path) {
		return
	}
	folder := filepath.Dir(path)
	if !w.watched(folder) {
		return
	}
	if w.logger != nil {
		w.logger.Debug("watcher event", zap.String("op", ev.Op.String()), zap.String("path", path))
	}
	w.scheduleChange(folder)
}

// relevant reports whether a change to path can affect validation: content
// documents, a folder's rule set, or the site file at the root.
func relevant(path string) bool {
	base := filepath.Base(path)
	if base == rules.FileName || base == site.FileName {
		return true
	}
	return strings.EqualFold(filepath.Ext(path), ".md")
}

func (w *Watcher) watched(folder string) bool {
	clean := filepath.Clean(folder)
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, f := range w.folders {
		if filepath.Clean(f) == clean {
			return true
		}
	}
	return false
}

func (w *Watcher) scheduleChange(folder string) {
	folder = filepath.Clean(folder)
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.debounceMap[folder]; ok {
		t.Stop()
	}
	t := time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.debounceMap, folder)
		logger := w.logger
		w.mu.Unlock()
		if logger != nil {
			logger.Debug("watcher folder changed (debounced)", zap.String("folder", folder))
		}
		if w.onChange != nil {
			w.onChange(folder)
		}
	})
	w.debounceMap[folder] = t
}

// AddFolder starts watching an additional governed folder.
func (w *Watcher) AddFolder(folder string) error {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	for _, f := range w.folders {
		if filepath.Clean(f) == filepath.Clean(abs) {
			return nil
		}
	}
	if err := w.watcher.Add(abs); err != nil {
		return err
	}
	w.folders = append(w.folders, abs)
	if w.logger != nil {
		w.logger.Debug("watcher folder added", zap.String("folder", abs))
	}
	return nil
}

// Folders returns a copy of the watched folder paths.
func (w *Watcher) Folders() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.folders...)
}

// Stop stops the watcher and cancels pending callbacks.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started || w.watcher == nil {
		w.mu.Unlock()
		return
	}
	for folder, t := range w.debounceMap {
		t.Stop()
		delete(w.debounceMap, folder)
	}
	_ = w.watcher.Close()
	w.watcher = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
