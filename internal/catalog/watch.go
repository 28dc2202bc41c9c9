package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/hammamikhairi/recipebook/internal/logger"
)

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets how long the watcher waits after the last change
// before reloading.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// Watcher reloads a Store when its data files change. Bursts of events,
// such as an editor writing a temp file and renaming it, collapse into a
// single reload.
type Watcher struct {
	store    *Store
	log      *logger.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher for store.
func NewWatcher(store *Store, log *logger.Logger, opts ...WatcherOption) *Watcher {
	if log == nil {
		log = logger.New(logger.LevelOff, nil)
	}
	w := &Watcher{
		store:    store,
		log:      log,
		debounce: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is cancelled. Intended to be called as a goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	pattern := w.store.Pattern()
	if pattern == "" {
		return fmt.Errorf("watch: store has no data path")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := w.addDirs(fw, pattern); err != nil {
		return err
	}

	fire := make(chan struct{}, 1)
	timer := time.AfterFunc(time.Hour, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
	timer.Stop()
	defer timer.Stop()

	w.log.Info("watching %s (debounce=%s)", pattern, w.debounce)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() && IsGlob(pattern) {
					_ = fw.Add(ev.Name)
				}
			}
			if !w.relevant(pattern, ev) {
				continue
			}
			w.log.Debug("change detected: %s %s", ev.Op, ev.Name)
			timer.Reset(w.debounce)

		case <-fire:
			if err := w.store.Reload(); err != nil {
				w.log.Error("reload %s: %v", pattern, err)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Error("fsnotify error: %v", err)
		}
	}
}

// addDirs watches the directory holding a plain path, or every directory
// under the static prefix of a glob. Directories rather than files are
// watched so renames over the data file are seen.
func (w *Watcher) addDirs(fw *fsnotify.Watcher, pattern string) error {
	if !IsGlob(pattern) {
		dir := filepath.Dir(pattern)
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		return nil
	}

	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	root := filepath.FromSlash(base)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) relevant(pattern string, ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	if !IsGlob(pattern) {
		return filepath.Clean(ev.Name) == filepath.Clean(pattern)
	}
	ok, err := doublestar.PathMatch(filepath.Clean(pattern), filepath.Clean(ev.Name))
	return err == nil && ok
}
