package openwebui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the base directory and triggers a full resync after
// each quiet period. Every trigger rescans and reconciles from scratch;
// no state is carried between runs.
type Watcher struct {
	baseDir  string
	resync   func(ctx context.Context) error
	logger   *slog.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher that calls resync after changes under
// baseDir settle.
func NewWatcher(baseDir string, resync func(ctx context.Context) error, logger *slog.Logger) *Watcher {
	return &Watcher{
		baseDir:  baseDir,
		resync:   resync,
		logger:   logger,
		debounce: 2 * time.Second,
	}
}

// Watch blocks until the context is cancelled. Directories are watched
// recursively; newly created directories are added as they appear.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, w.baseDir); err != nil {
		return fmt.Errorf("watching base dir: %w", err)
	}

	w.logger.Info("file watcher started", slog.String("dir", w.baseDir))

	// Debounce: batch rapid writes into a single resync.
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	var lastEvent time.Time
	dirty := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher event channel closed")
			}
			if strings.HasPrefix(filepath.Base(event.Name), ".") {
				continue
			}
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addRecursive(watcher, event.Name); err != nil {
						w.logger.Warn("watching new directory",
							slog.String("path", event.Name),
							slog.String("error", err.Error()),
						)
					}
				}
			}
			w.logger.Debug("file event",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)
			lastEvent = time.Now()
			dirty = true

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			w.logger.Warn("watcher error", slog.String("error", err.Error()))

		case <-ticker.C:
			if !dirty || time.Since(lastEvent) < w.debounce {
				continue
			}
			dirty = false
			w.logger.Info("changes settled, resyncing")
			if err := w.resync(ctx); err != nil {
				w.logger.Error("resync failed", slog.String("error", err.Error()))
			}
		}
	}
}

// addRecursive watches dir and every subdirectory beneath it. Hidden
// directories are skipped, matching the scanner's view of the tree.
func addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
