package platform

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notehub/pkg/debounce"
)

// DefaultReloadDebounce coalesces the burst of events an editor save produces.
const DefaultReloadDebounce = 100 * time.Millisecond

// Reloader produces the configuration after the file changed.
type Reloader func() (Config, error)

// ConfigWatcher is a lifecycle worker that watches the directory holding the
// config file and delivers the reloaded Config on Updates.
type ConfigWatcher struct {
	*worker.BaseWorker
	path      string
	reload    Reloader
	logger    *slog.Logger
	delay     time.Duration
	updates   chan Config
	watcher   *fsnotify.Watcher
	debouncer *debounce.Debouncer
	cancel    context.CancelFunc
	reloads   atomic.Int64
}

// NewConfigWatcher watches path. A nil logger means slog.Default().
func NewConfigWatcher(path string, reload Reloader, logger *slog.Logger) *ConfigWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &ConfigWatcher{
		BaseWorker: worker.NewBaseWorker("config-watcher"),
		path:       path,
		reload:     reload,
		logger:     logger,
		delay:      DefaultReloadDebounce,
		updates:    make(chan Config, 1),
	}
}

// Updates delivers reloaded configurations. It is closed when the worker stops.
func (w *ConfigWatcher) Updates() <-chan Config {
	return w.updates
}

func (w *ConfigWatcher) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("config watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// Editors replace files by rename, so watch the directory, not the file.
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}

	w.watcher = watcher
	w.debouncer = debounce.New(w.delay)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *ConfigWatcher) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *ConfigWatcher) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"path":              w.path,
			"reloads":           fmt.Sprint(w.reloads.Load()),
		}
	})
}

// matches reports whether name is a config file in the watched directory.
func (w *ConfigWatcher) matches(name string) bool {
	if filepath.Clean(filepath.Dir(name)) != filepath.Clean(filepath.Dir(w.path)) {
		return false
	}
	ok, err := doublestar.Match(ConfigPattern, filepath.Base(name))
	return err == nil && ok
}

func (w *ConfigWatcher) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("config watcher panic: %v", recovered)
			if w.logger.Enabled(ctx, slog.LevelDebug) {
				w.logger.Error("config watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.logger.Error("config watcher panic", "error", err)
			}
		}
	}()
	defer w.watcher.Close()

	err = w.loop(ctx)

	if w.debouncer.StopAndWait(5 * time.Second) {
		close(w.updates)
	}
	return err
}

func (w *ConfigWatcher) loop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.matches(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("config file changed", "name", event.Name, "op", event.Op.String())
			w.debouncer.Do(func() { w.deliver(ctx) })

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("fsnotify error", "error", wErr)
		}
	}
}

func (w *ConfigWatcher) deliver(ctx context.Context) {
	cfg, err := w.reload()
	if err != nil {
		// Keep running on the previous config until the file is fixed.
		w.logger.Warn("config reload failed", "path", w.path, "error", err)
		return
	}
	w.reloads.Add(1)
	w.logger.Info("config reloaded", "path", w.path, "page_size", cfg.PageSize)

	// Only the newest config matters to a slow consumer.
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- cfg:
	case <-ctx.Done():
	}
}
