package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// SlotFile is a slot store backed by files on disk.
type SlotFile interface {
	Dir() string
	KeyForPath(path string) (string, bool)
}

// PageWatcher reloads the page when its slot file is changed by another
// process (an editor, a second server, git checkout). Bursts of writes are
// debounced into a single reload.
type PageWatcher struct {
	svc      *PageService
	files    SlotFile
	debounce time.Duration
	log      *zap.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	mu    sync.Mutex
	timer *time.Timer
}

// NewPageWatcher returns a watcher; call Start to begin watching.
func NewPageWatcher(svc *PageService, files SlotFile, debounce time.Duration, log *zap.Logger) *PageWatcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PageWatcher{svc: svc, files: files, debounce: debounce, log: log.Named("watch")}
}

// Start watches the slot directory until ctx is done or Close is called.
func (w *PageWatcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(w.files.Dir()); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", w.files.Dir(), err)
	}
	w.watcher = watcher
	w.done = make(chan struct{})

	w.wg.Add(1)
	go w.loop(ctx)
	w.log.Info("watching slot directory", zap.String("dir", w.files.Dir()))
	return nil
}

func (w *PageWatcher) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			key, ok := w.files.KeyForPath(event.Name)
			if !ok || key != w.svc.SlotKey() {
				continue
			}
			w.schedule(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))
		case <-ctx.Done():
			return
		case <-w.done:
			return
		}
	}
}

func (w *PageWatcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		applied, err := w.svc.Reload(ctx)
		if err != nil {
			w.log.Error("reload failed", zap.Error(err))
			return
		}
		if applied {
			w.log.Info("page reloaded from disk")
		}
	})
}

// Close stops watching and waits for the loop and any running reload.
func (w *PageWatcher) Close() error {
	if w.watcher == nil {
		return nil
	}
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	w.svc.Wait(ctx)
	w.watcher = nil
	return err
}
