package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	logpkg "github.com/rzbill/nidsmon/pkg/log"
)

// reloadDebounce coalesces the burst of events editors emit on save.
const reloadDebounce = 100 * time.Millisecond

// Watch reloads path whenever it changes and passes every valid result to fn.
// Invalid files are logged and skipped. It watches the parent directory so
// atomic-rename saves are seen. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, logger logpkg.Logger, fn func(Config)) error {
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(reloadDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", logpkg.Err(err))
		case <-pending:
			pending = nil
			cfg, err := Load(abs)
			if err == nil {
				err = cfg.Validate()
			}
			if err != nil {
				logger.Warn("ignoring invalid config", logpkg.Str("path", abs), logpkg.Err(err))
				continue
			}
			logger.Info("config reloaded", logpkg.Str("path", abs))
			fn(cfg)
		}
	}
}
