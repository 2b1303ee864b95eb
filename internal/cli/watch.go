package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/matzehuels/objectgraph/pkg/errors"
	"github.com/matzehuels/objectgraph/pkg/pipeline"
)

// watchDebounce coalesces the burst of events editors emit on save.
const watchDebounce = 250 * time.Millisecond

// watchTargets re-renders file-backed targets whenever their file changes.
// Database sources cannot be watched and are skipped with a warning.
func (c *CLI) watchTargets(ctx context.Context, runner *pipeline.Runner, targets []renderTarget, opts *renderOpts) error {
	byPath := make(map[string]renderTarget)
	var paths []string
	for _, t := range targets {
		path, ok := t.ref.WatchPath()
		if !ok {
			printWarning("%s is not a file, not watching it", displayRef(t.arg))
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", path)
		}
		byPath[abs] = t
		paths = append(paths, abs)
	}
	if len(paths) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "--watch needs at least one file source")
	}

	printInfo("Watching %s, press Ctrl+C to stop", plural(len(paths), "file", "files"))
	return watchFiles(ctx, paths, watchDebounce, func(path string) {
		t := byPath[path]
		if err := c.renderTarget(ctx, runner, t, opts, true); err != nil {
			printError("%s: %s", t.arg, errors.UserMessage(err))
		}
	})
}

// watchFiles calls onChange for each path in paths that is written or
// created, at most once per debounce window. It watches the parent
// directories so editors that replace files atomically are still seen.
// It returns nil when ctx is done.
func watchFiles(ctx context.Context, paths []string, debounce time.Duration, onChange func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create file watcher")
	}
	defer w.Close()

	wanted := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		p = filepath.Clean(p)
		wanted[p] = true
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "watch %s", dir)
		}
	}

	logger := loggerFromContext(ctx)
	pending := make(map[string]bool)
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if !wanted[name] || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("file changed", "path", name, "op", ev.Op.String())
			pending[name] = true
			fire = time.After(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			for p := range pending {
				onChange(p)
			}
			clear(pending)
		}
	}
}
