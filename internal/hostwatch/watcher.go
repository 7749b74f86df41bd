// Package hostwatch notices edits to host configuration and credentials
// files made outside this process.
package hostwatch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/mcpsetup/internal/checksum"
	"github.com/starford/mcpsetup/internal/storage"
)

// DefaultDebounce is the settle delay applied to bursts of events.
const DefaultDebounce = 200 * time.Millisecond

// Callback receives the files whose content changed, sorted.
type Callback func(changed []string)

// Watch observes the parent directories of files and calls cb once per
// settled burst of events whose content checksums actually changed. Parent
// directories that do not exist are skipped. It returns when ctx is
// cancelled.
func Watch(ctx context.Context, store storage.Provider, files []string, debounce time.Duration, logger *slog.Logger, cb Callback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	known := make(map[string]string, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		f = filepath.Clean(f)
		sum, _ := checksum.File(store, f)
		known[f] = sum
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
			logger.Debug("hostwatch: skipping missing dir", slog.String("dir", dir))
			continue
		}
		if addErr := w.Add(dir); addErr != nil {
			logger.Warn("hostwatch: add dir failed", slog.String("dir", dir), slog.String("error", addErr.Error()))
			continue
		}
		dirs[dir] = true
	}

	logger.Info("hostwatch: started", slog.Int("dirs", len(dirs)), slog.Int("files", len(known)))

	pending := make(map[string]bool)
	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	schedule := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(debounce)
			settleCh = settleTimer.C
		} else {
			settleTimer.Stop()
			settleTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("hostwatch: stopped")
			return nil

		case <-settleCh:
			var changed []string
			for f := range pending {
				sum, sumErr := checksum.File(store, f)
				if sumErr != nil {
					logger.Warn("hostwatch: read failed", slog.String("path", f), slog.String("error", sumErr.Error()))
					continue
				}
				if sum != known[f] {
					known[f] = sum
					changed = append(changed, f)
				}
			}
			clear(pending)
			if len(changed) == 0 {
				continue
			}
			sort.Strings(changed)
			logger.Debug("hostwatch: changed", slog.Any("paths", changed))
			if cb != nil {
				cb(changed)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if _, tracked := known[name]; !tracked {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending[name] = true
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("hostwatch: error", slog.String("error", watchErr.Error()))
		}
	}
}
