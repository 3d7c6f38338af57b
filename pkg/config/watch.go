package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arthur-debert/termime/pkg/errors"
	"github.com/arthur-debert/termime/pkg/logging"
)

// WatchDebounce is how long Watch waits for writes to settle before reloading
var WatchDebounce = 200 * time.Millisecond

// Watch reloads the configuration whenever the file at path changes and passes
// the result to fn. The directory is watched so editors that replace the file
// are noticed. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, opts Options, fn func(*Config, error)) error {
	logger := logging.GetLogger("config.watch")

	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot watch %s", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "error setting up file watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot watch %s", filepath.Dir(abs))
	}
	logger.Debug().Str("path", abs).Msg("Watching config file")

	if opts.Path == "" {
		opts.Path = abs
	}

	// reload fires once writes have settled; nil while nothing is pending
	var reload <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			reload = time.After(WatchDebounce)

		case <-reload:
			reload = nil
			cfg, err := Load(opts)
			if err != nil {
				logger.Warn().Err(err).Str("path", abs).Msg("Config reload failed")
			} else {
				logger.Info().Str("path", abs).Msg("Config reloaded")
			}
			fn(cfg, err)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("Watcher error")
		}
	}
}
