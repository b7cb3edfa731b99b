package daemon

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watch reloads configuration whenever the config file, one of its includes
// or the presets file changes. Parent directories are watched so editors that
// replace files by rename are still seen.
func (d *Daemon) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	tracked := make(map[string]bool)
	watchedDirs := make(map[string]bool)
	refresh := func() {
		for _, file := range d.watchedFiles() {
			abs, err := filepath.Abs(file)
			if err != nil {
				continue
			}
			tracked[abs] = true
			dir := filepath.Dir(abs)
			if watchedDirs[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				d.logger.Debug("cannot watch directory", "dir", dir, "err", err)
				continue
			}
			watchedDirs[dir] = true
		}
	}
	refresh()

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	reloaded := make(chan struct{}, 1)
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
			return ctx.Err()
		case <-reloaded:
			// Includes may have changed.
			refresh()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			d.logger.Warn("config watcher error", "err", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !tracked[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			d.logger.Debug("watched file changed", "file", event.Name, "op", event.Op.String())
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(d.opts.WatchDebounce, func() {
				if err := d.Reload(); err != nil {
					return
				}
				select {
				case reloaded <- struct{}{}:
				default:
				}
			})
			mu.Unlock()
		}
	}
}
