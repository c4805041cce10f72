// Package watch triggers site rebuilds when source files change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long changes settle before a rebuild.
const DefaultDebounce = 500 * time.Millisecond

// Watcher calls a rebuild function after files below its directories
// change.
type Watcher struct {
	dirs    []string
	rebuild func(context.Context) error
	logger  *slog.Logger

	// building serializes rebuilds.
	building sync.Mutex

	// Debounce is how long changes settle before a rebuild.
	Debounce time.Duration
}

// New returns a Watcher over dirs. Missing directories are skipped when the
// watcher starts.
func New(dirs []string, rebuild func(context.Context) error, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		dirs:     dirs,
		rebuild:  rebuild,
		logger:   logger,
		Debounce: DefaultDebounce,
	}
}

// Run watches until ctx is cancelled. Rebuild errors are logged, not
// returned, so a broken page does not stop the dev server.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range w.dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			w.logger.Info("directory not found, not watching", "dir", dir)
			continue
		}
		w.addRecursive(watcher, dir)
	}

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())

			if event.Has(fsnotify.Create) && isDir(event.Name) {
				w.addRecursive(watcher, event.Name)
			}

			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.Debounce, func() {
				w.building.Lock()
				defer w.building.Unlock()
				if ctx.Err() != nil {
					return
				}
				w.logger.Info("rebuilding site")
				if err := w.rebuild(ctx); err != nil {
					w.logger.Error("rebuild failed", "err", err)
					return
				}
				w.logger.Info("site rebuilt")
			})
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "err", err)
		}
	}
}

// addRecursive watches root and all directories below it.
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("error walking directory", "path", path, "err", err)
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				w.logger.Warn("failed to watch directory", "path", path, "err", err)
			}
		}
		return nil
	})
	if err != nil {
		w.logger.Warn("error during directory walk", "root", root, "err", err)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
