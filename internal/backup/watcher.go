package backup

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// EventCallback is called after a snapshot file change.
// kind is one of "created" or "deleted".
type EventCallback func(kind string, name string)

// Watch starts an fsnotify watcher on the backup directory and reports
// snapshot files appearing or disappearing until ctx is cancelled. It
// ignores temp files and anything that is not a .json snapshot.
func Watch(ctx context.Context, dir *Dir, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir.Root()); err != nil {
		return err
	}

	logger.Info("backup watcher: started", slog.String("dir", dir.Root()))

	for {
		select {
		case <-ctx.Done():
			logger.Info("backup watcher: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				logger.Debug("backup watcher: snapshot available", slog.String("name", name))
				if cb != nil {
					cb("created", name)
				}

			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				logger.Debug("backup watcher: snapshot removed", slog.String("name", name))
				if cb != nil {
					cb("deleted", name)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("backup watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
