package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watchDocument verifies path once and then again every time it's written,
// until ctx is cancelled. The directory is watched rather than the file so
// editors and our own release command, which replace the file by renaming,
// keep triggering events.
func watchDocument(ctx context.Context, deps *Deps, path string, out io.Writer, online bool) error {
	logger := deps.logger()

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	if err = watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching directory: %w", err)
	}

	// Failures are reported and watching carries on.
	verify := func() {
		o, err := verifyDocument(ctx, deps, nil, online)
		switch {
		case err != nil:
			fmt.Fprintln(out, errorStyle.Render(failureMessage(err.Error())))
		case !o.ok:
			fmt.Fprintln(out, errorStyle.Render(failureMessage(o.reason)))
		default:
			printSuccess(out, o)
		}
	}

	verify()
	logger.Info("watching for changes", "file", target)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			logger.Debug("file changed", "file", name, "op", event.Op.String())
			verify()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("file watcher error", "err", err)
		}
	}
}
