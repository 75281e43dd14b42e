package source

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors path and calls onChange with the file's new contents each
// time it is written or replaced. It runs until ctx is cancelled.
//
// The parent directory is watched rather than the file, so an atomic save
// (write a temp file, rename over path) is seen as a Create on path instead
// of silently dropping the watch.
//
// If the file cannot be read after an event the error is logged and
// onChange is not called. onChange decides whether the text is usable.
func Watch(ctx context.Context, path string, onChange func(raw string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}

	slog.Info("source: watching image map", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			raw, err := Load(path)
			if err != nil {
				slog.Warn("source: reload failed, keeping current map",
					"path", path, "err", err)
				continue
			}
			onChange(raw)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("source: watcher error", "err", err)
		}
	}
}
