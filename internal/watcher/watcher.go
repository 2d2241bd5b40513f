// Package watcher monitors the configured PDF directories and triggers
// index rebuilds when decks change.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceWindow is how long the watcher waits after the last
// event before rebuilding.
const DefaultDebounceWindow = 2 * time.Second

// RebuildFunc runs one index rebuild.
type RebuildFunc func(ctx context.Context) error

// Watcher watches the directories under the configured glob patterns
// and calls a rebuild function when PDF files change.
type Watcher struct {
	patterns []string
	window   time.Duration
	logger   *slog.Logger
}

// New creates a watcher over the given glob patterns.
func New(patterns []string, window time.Duration, logger *slog.Logger) *Watcher {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{patterns: patterns, window: window, logger: logger}
}

// Run watches until ctx is cancelled, calling rebuild after each
// debounced batch of PDF changes. Rebuild failures are logged and
// watching continues; the next change gets another chance.
func (w *Watcher) Run(ctx context.Context, rebuild RebuildFunc) error {
	roots, err := w.watchRoots()
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		return fmt.Errorf("no watchable directories under configured patterns")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create filesystem watcher: %w", err)
	}
	defer fsw.Close()

	for _, root := range roots {
		if err := addRecursive(fsw, root); err != nil {
			return err
		}
		w.logger.Info("watching", slog.String("dir", root))
	}

	debouncer := NewDebouncer(w.window)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(fsw, debouncer, event)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))

		case batch := <-debouncer.Output():
			w.logger.Info("decks changed, rebuilding", slog.Int("files", len(batch)))
			if err := rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				w.logger.Error("rebuild failed", slog.String("error", err.Error()))
			}
		}
	}
}

func (w *Watcher) handleEvent(fsw *fsnotify.Watcher, debouncer *Debouncer, event fsnotify.Event) {
	// New subdirectories need their own watch.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := addRecursive(fsw, event.Name); err != nil {
				w.logger.Warn("watch new directory",
					slog.String("dir", event.Name),
					slog.String("error", err.Error()))
			}
			return
		}
	}

	if !strings.EqualFold(filepath.Ext(event.Name), ".pdf") {
		return
	}
	if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename) {
		debouncer.Add(event.Name)
	}
}

// watchRoots derives the fixed directory prefix of each glob pattern.
func (w *Watcher) watchRoots() ([]string, error) {
	seen := make(map[string]bool)
	var roots []string
	for _, pattern := range w.patterns {
		root := globRoot(pattern)
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("resolve watch root %s: %w", root, err)
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			w.logger.Warn("skipping unwatchable pattern root", slog.String("dir", abs))
			continue
		}
		if !seen[abs] {
			seen[abs] = true
			roots = append(roots, abs)
		}
	}
	return roots, nil
}

// globRoot returns the longest leading path segment of pattern that
// contains no glob metacharacters.
func globRoot(pattern string) string {
	segments := strings.Split(filepath.ToSlash(pattern), "/")
	var fixed []string
	for _, seg := range segments {
		if strings.ContainsAny(seg, "*?[{") {
			break
		}
		fixed = append(fixed, seg)
	}
	if len(fixed) == 0 {
		return "."
	}
	root := filepath.FromSlash(strings.Join(fixed, "/"))
	if root == "" {
		return string(filepath.Separator)
	}
	return root
}

// addRecursive watches dir and every directory below it. fsnotify
// watches are not recursive on their own.
func addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fsw.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}
