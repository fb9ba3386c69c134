// Package watcher reports changes to model artifact files after they have
// been loaded.
package watcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher monitors a set of files and calls onChange with the path of any
// file that is written, removed or renamed. Parent directories are watched
// since editors and deploy tools usually replace files rather than write them
// in place.
type Watcher struct {
	targets  map[string]struct{}
	onChange func(path string)
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	mu       sync.Mutex
	running  bool
	debounce time.Duration
	done     chan struct{}
}

func New(paths []string, onChange func(path string), logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	targets := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		targets[abs] = struct{}{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		targets:  targets,
		onChange: onChange,
		watcher:  fsw,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		debounce: 100 * time.Millisecond,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. Calling it twice is a no-op.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	dirs := make(map[string]struct{})
	for target := range w.targets {
		dirs[filepath.Dir(target)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
	}

	w.running = true
	go w.watchLoop()
	return nil
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	w.cancel()
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) watchLoop() {
	defer close(w.done)

	timers := make(map[string]*time.Timer)
	defer func() {
		for _, timer := range timers {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			path := filepath.Clean(event.Name)
			if _, watched := w.targets[path]; !watched {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("artifact event", zap.String("path", path), zap.String("op", event.Op.String()))
			if timer, ok := timers[path]; ok {
				timer.Stop()
			}
			timers[path] = time.AfterFunc(w.debounce, func() {
				if w.onChange != nil {
					w.onChange(path)
				}
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", zap.Error(err))
		}
	}
}
