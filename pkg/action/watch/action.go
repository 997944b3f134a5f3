package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/cmmoran/dtogen/internal/generator"
	"github.com/cmmoran/dtogen/pkg/action/generate"
	"github.com/cmmoran/dtogen/pkg/options"
)

// DefaultDebounce is how long descriptor changes settle before a run starts.
const DefaultDebounce = 300 * time.Millisecond

// Callback receives the outcome of every run.
type Callback func(*generate.Result, error)

// Watcher regenerates whenever a descriptor below an input directory changes.
// Runs happen one at a time on the goroutine calling Run.
type Watcher struct {
	opts     *options.Options
	outDir   string
	fs       afero.Fs
	debounce time.Duration
	onRun    Callback
	runOpts  []generator.RunOption
	log      *slog.Logger
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithCallback(cb Callback) Option {
	return func(w *Watcher) { w.onRun = cb }
}

func WithRunOptions(opts ...generator.RunOption) Option {
	return func(w *Watcher) { w.runOpts = append(w.runOpts, opts...) }
}

// New watches opts.InDirs on the OS filesystem.
func New(opts *options.Options, watchOpts ...Option) *Watcher {
	w := &Watcher{
		opts:     opts,
		fs:       afero.NewOsFs(),
		debounce: DefaultDebounce,
		onRun:    func(*generate.Result, error) {},
		log:      slog.Default(),
	}
	for _, fn := range watchOpts {
		fn(w)
	}
	return w
}

// Run generates once, then again after every batch of descriptor changes,
// until ctx is done. A failed run is reported to the callback and logged;
// watching goes on.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.opts.Normalize(); err != nil {
		return err
	}
	outDir, err := filepath.Abs(w.opts.OutDir)
	if err != nil {
		return errors.Wrap(err, "resolve output directory")
	}
	w.outDir = outDir

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer func() { _ = fw.Close() }()

	for _, dir := range w.opts.InDirs {
		if err := w.addTree(fw, dir); err != nil {
			return err
		}
	}

	w.generate()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !w.ignored(event.Name) {
					if err := w.addTree(fw, event.Name); err != nil {
						w.log.With("error", err, "dir", event.Name).Warn("unable to watch directory")
					}
				}
			}
			if !w.relevant(event) {
				continue
			}
			w.log.With("file", event.Name, "op", event.Op.String()).Debug("descriptor changed")
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.With("error", err).Warn("watcher error")
		case <-timer.C:
			w.generate()
		}
	}
}

func (w *Watcher) generate() {
	res, err := generate.Generate(w.fs, w.opts, w.runOpts...)
	if err != nil {
		w.log.With("error", err).Error("generation failed")
	}
	w.onRun(res, err)
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignored(path) {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			return errors.Wrapf(err, "watch %s", path)
		}
		return nil
	})
}

// ignored reports whether path is hidden or inside the output directory.
func (w *Watcher) ignored(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(w.outDir, abs)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if w.ignored(event.Name) {
		return false
	}
	switch filepath.Ext(event.Name) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
