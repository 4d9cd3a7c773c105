// Package watch reports debounced changes to settings files and storage
// directories.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/domaincfg/pkg/log"
)

// ChangeFunc is called with the changed paths, sorted, once events have
// been quiet for the debounce delay.
type ChangeFunc func(ctx context.Context, paths []string)

// Config holds watcher options.
type Config struct {
	// Debounce is the quiet period after the last event before OnChange runs.
	// Default: 100 milliseconds
	Debounce time.Duration

	Logger log.Logger
}

// Watcher watches files and directories. OnChange runs on the goroutine
// that called Run.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   log.Logger
	onChange ChangeFunc

	// files maps a watched directory to the file names of interest in it.
	// A nil set means every file in the directory.
	files map[string]map[string]bool
}

// New creates a Watcher. Call Close if Run is never called.
func New(cfg Config, onChange ChangeFunc) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 100 * time.Millisecond
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{
		fsw:      fsw,
		debounce: cfg.Debounce,
		logger:   log.OrNoop(cfg.Logger),
		onChange: onChange,
		files:    make(map[string]map[string]bool),
	}, nil
}

// AddFile watches a single file. Its directory must exist; the file need
// not.
func (w *Watcher) AddFile(path string) error {
	dir, name := filepath.Split(filepath.Clean(path))
	dir = filepath.Clean(dir)
	names, watched := w.files[dir]
	if watched && names == nil {
		return nil
	}
	if !watched {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		names = make(map[string]bool)
		w.files[dir] = names
	}
	names[name] = true
	return nil
}

// AddDir watches every file directly inside dir.
func (w *Watcher) AddDir(dir string) error {
	dir = filepath.Clean(dir)
	if names, watched := w.files[dir]; watched && names == nil {
		return nil
	} else if !watched {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.files[dir] = nil
	return nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run delivers changes until ctx is cancelled. It closes the watcher on
// return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			pending[filepath.Clean(event.Name)] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			w.logger.Debug("watched files changed", log.Strings("paths", paths))
			w.onChange(ctx, paths)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	dir, name := filepath.Split(filepath.Clean(event.Name))
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".tmp") {
		return false
	}
	names, ok := w.files[filepath.Clean(dir)]
	if !ok {
		return false
	}
	return names == nil || names[name]
}
