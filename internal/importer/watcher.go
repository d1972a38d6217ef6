package importer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/raido/internal/taskservice"
)

func isTaskFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Sweep imports any task files already sitting in the inbox. Run once at
// startup, before the watcher, so files dropped while the process was down
// are not lost.
func Sweep(ctx context.Context, svc *taskservice.Service, inbox string, logger *slog.Logger) error {
	entries, err := os.ReadDir(inbox)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !isTaskFile(e.Name()) {
			continue
		}
		path := filepath.Join(inbox, e.Name())
		n, err := ImportFile(ctx, svc, path)
		if err != nil {
			logger.Warn("sweep: import failed", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		logger.Info("sweep: imported", slog.String("path", path), slog.Int("tasks", n))
	}
	return nil
}

// Watch starts an fsnotify watcher on the inbox directory and imports task
// files as they appear, until ctx is cancelled.
func Watch(ctx context.Context, svc *taskservice.Service, inbox string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(inbox); err != nil {
		return err
	}

	logger.Info("importer: watching inbox", slog.String("dir", inbox))

	for {
		select {
		case <-ctx.Done():
			logger.Info("importer: stopped")
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || !isTaskFile(ev.Name) {
				continue
			}
			// A Create is usually followed by a Write for the same file; the
			// first import renames it away, so the second event finds nothing.
			if _, statErr := os.Stat(ev.Name); statErr != nil {
				continue
			}
			n, err := ImportFile(ctx, svc, ev.Name)
			if err != nil {
				logger.Warn("importer: import failed", slog.String("path", ev.Name), slog.String("error", err.Error()))
				continue
			}
			logger.Info("importer: imported", slog.String("path", ev.Name), slog.Int("tasks", n))

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("importer: watch error", slog.String("error", watchErr.Error()))
		}
	}
}
