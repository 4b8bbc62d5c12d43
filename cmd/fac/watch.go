package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDelay groups the events of a single save.
const watchDelay = 200 * time.Millisecond

// watch generates the app, then regenerates it whenever the configuration
// file is written, until ctx is done. Generation errors are logged and do
// not stop the watch.
func watch(ctx context.Context, o *options, log *slog.Logger, stdout io.Writer) error {
	path, err := filepath.Abs(o.config)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	// Editors often replace the file on save, so the directory is watched.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	regenerate := func() {
		if err := generate(ctx, o, log, stdout); err != nil {
			log.Error("generation failed", "err", err)
		}
	}
	regenerate()
	log.Info("watching configuration", "config", path)
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Debug("configuration changed", "op", ev.Op.String())
			fire = time.After(watchDelay)
		case <-fire:
			fire = nil
			regenerate()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "err", err)
		}
	}
}
