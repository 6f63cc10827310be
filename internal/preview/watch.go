package preview

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/alnah/go-assetpath/internal/logfields"
)

// Watch invalidates the server on every change under the source directory
// until ctx is done.
func (s *Server) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := s.addDirsRecursive(watcher, s.cfg.SourceDir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleEvent(watcher, ev)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watcher error", logfields.Error(err))
		}
	}
}

// handleEvent watches new directories and invalidates the cache.
func (s *Server) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = s.addDirsRecursive(watcher, ev.Name)
		}
	}
	s.logger.Debug("source changed", logfields.File(ev.Name), "op", ev.Op.String())
	s.Invalidate()
}

func (s *Server) addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watching %s: %w", root, err)
			}
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				s.logger.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent reports editor swap files and hidden entries.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") ||
		strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#")
}
