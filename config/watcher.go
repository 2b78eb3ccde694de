package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"provmgr/config/storage"
	"provmgr/internal/logging"
)

// watchDebounce coalesces bursts of filesystem events from editors that
// write via temp-file renames.
const watchDebounce = 100 * time.Millisecond

// Watch invalidates the read cache whenever the config file is modified by
// another process, so external edits become visible before the TTL expires.
// It blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// The directory must exist before fsnotify can watch it; a fresh machine
	// has neither the directory nor the config file yet.
	dir := filepath.Dir(s.path)
	if err := storage.EnsureDir(dir); err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return err
	}
	logging.Info("Config", "watching %s for external changes", dir)

	var (
		debounceMu sync.Mutex
		debouncer  *time.Timer
	)
	invalidate := func() {
		debounceMu.Lock()
		defer debounceMu.Unlock()
		if debouncer != nil {
			debouncer.Stop()
		}
		debouncer = time.AfterFunc(watchDebounce, func() {
			logging.Debug("Config", "config file changed on disk, clearing cache")
			s.ClearCache()
		})
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				invalidate()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Warn("Config", "watcher error: %v", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
