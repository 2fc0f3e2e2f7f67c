package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/rmera/septop/internal/batch"
	"github.com/rmera/septop/internal/config"
	"github.com/rmera/septop/internal/logger"
)

const debouncePeriod = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Split the topologies, and split them again each time they change",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		files, err := batch.Collect(args, cfg.Output.FFSuffix, cfg.Output.MolSuffix)
		if err != nil {
			return err
		}
		if err := batch.Failed(batch.Run(cmd.Context(), files, cfg)); err != nil {
			logger.Logger.Warnw("some files failed, watching anyway", "error", err)
		}
		w, err := newWatcher(args, files, cfg)
		if err != nil {
			return err
		}
		defer w.Close()
		return w.run(cmd.Context())
	},
}

// watcher reprocesses topologies when fsnotify reports changes on them.
// The directories are watched, not the files, so editors that replace
// a file on save don't end the watch.
type watcher struct {
	fs      *fsnotify.Watcher
	cfg     *config.Config
	files   map[string]bool // files given explicitly
	dirs    map[string]bool // directories given, any topology in them counts
	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

func newWatcher(args, files []string, cfg *config.Config) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}
	w := &watcher{fs: fw, cfg: cfg, files: map[string]bool{}, dirs: map[string]bool{}, pending: map[string]*time.Timer{}}
	watched := map[string]bool{}
	add := func(dir string) error {
		if watched[dir] {
			return nil
		}
		watched[dir] = true
		return fw.Add(dir)
	}
	for _, a := range args {
		info, err := os.Stat(a)
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "cannot watch %s", a)
		}
		if !info.IsDir() {
			continue
		}
		err = filepath.WalkDir(a, func(path string, d os.DirEntry, err error) error {
			if err != nil || !d.IsDir() {
				return err
			}
			w.dirs[filepath.Clean(path)] = true
			return add(filepath.Clean(path))
		})
		if err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "cannot watch %s", a)
		}
	}
	for _, f := range files {
		f = filepath.Clean(f)
		w.files[f] = true
		if err := add(filepath.Dir(f)); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "cannot watch %s", f)
		}
	}
	return w, nil
}

// wanted returns true if changes to name should trigger a new split.
func (w *watcher) wanted(name string) bool {
	if w.files[name] {
		return true
	}
	return w.dirs[filepath.Dir(name)] && batch.IsTopology(name) &&
		!batch.Skipped(name, w.cfg.Output.FFSuffix, w.cfg.Output.MolSuffix)
}

// schedule processes name after debouncePeriod without new events for it.
func (w *watcher) schedule(ctx context.Context, name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[name]; ok && t.Stop() {
		t.Reset(debouncePeriod)
		return
	}
	w.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(debouncePeriod, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.pending[name] == t {
			delete(w.pending, name)
		}
		w.mu.Unlock()
		batch.Process(ctx, name, w.cfg).Log()
	})
	w.pending[name] = t
}

func (w *watcher) run(ctx context.Context) error {
	logger.Logger.Infow("watching for changes", "files", len(w.files), "directories", len(w.dirs))
	for {
		select {
		case <-ctx.Done():
			w.stopPending()
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if name := filepath.Clean(ev.Name); w.wanted(name) {
				logger.Logger.Debugw("change", "file", name, "op", ev.Op.String())
				w.schedule(ctx, name)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Logger.Warnw("watcher error", "error", err)
		}
	}
}

// stopPending cancels the scheduled splits that didn't start, and waits for the rest.
func (w *watcher) stopPending() {
	w.mu.Lock()
	for name, t := range w.pending {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.pending, name)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *watcher) Close() error {
	return w.fs.Close()
}
