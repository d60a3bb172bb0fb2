package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/aretw0/flowboard/internal/logging"
	"github.com/aretw0/flowboard/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events an editor emits on save.
const DefaultDebounce = 200 * time.Millisecond

// ReloadFunc receives the freshly parsed pipeline, or the parse error.
type ReloadFunc func(ctx context.Context, g domain.Graph, err error)

// PipelineWatcher re-reads a pipeline file whenever it changes on disk.
type PipelineWatcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// WatchOption configures a PipelineWatcher.
type WatchOption func(*PipelineWatcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *PipelineWatcher) {
		w.debounce = d
	}
}

// WithWatchLogger sets the watcher logger.
func WithWatchLogger(l *slog.Logger) WatchOption {
	return func(w *PipelineWatcher) {
		w.logger = l
	}
}

// NewPipelineWatcher creates a watcher for path.
func NewPipelineWatcher(path string, opts ...WatchOption) *PipelineWatcher {
	w := &PipelineWatcher{
		path:     filepath.Clean(path),
		debounce: DefaultDebounce,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run calls fn once with the current contents, then again after every change,
// until ctx is done. fn never runs concurrently with itself.
func (w *PipelineWatcher) Run(ctx context.Context, fn ReloadFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often save by rename, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}

	g, err := ReadPipeline(w.path)
	fn(ctx, g, err)

	changed := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.logger.Debug("pipeline file event", "op", event.Op.String(), "path", event.Name)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})

		case <-changed:
			g, err := ReadPipeline(w.path)
			if err != nil {
				w.logger.Warn("pipeline reload failed", "path", w.path, "error", err)
			} else {
				w.logger.Info("pipeline reloaded", "path", w.path, "nodes", len(g.Nodes), "edges", len(g.Edges))
			}
			fn(ctx, g, err)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}
