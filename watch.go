package warviz

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DataWatcher reloads the overview dataset when its file changes. Loading
// happens on the watcher goroutine; the game loop picks results up with Poll,
// so the scene is never touched off the loop.
type DataWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	logger   *zap.Logger

	dirtyAt time.Time
	out     chan Dataset
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// NewDataWatcher creates a watcher for the dataset at path. Changes are
// coalesced until the file has been quiet for debounce.
func NewDataWatcher(path string, debounce time.Duration, logger *zap.Logger) (*DataWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("warviz: watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("warviz: watcher: %w", err)
	}
	return &DataWatcher{
		watcher:  w,
		path:     abs,
		debounce: debounce,
		logger:   logger,
		out:      make(chan Dataset, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start watches the dataset's directory, which also catches editors that
// replace the file on save. It does not block.
func (dw *DataWatcher) Start(ctx context.Context) error {
	dw.mu.Lock()
	if dw.running {
		dw.mu.Unlock()
		return nil
	}
	dw.running = true
	dw.mu.Unlock()

	if err := dw.watcher.Add(filepath.Dir(dw.path)); err != nil {
		dw.mu.Lock()
		dw.running = false
		dw.mu.Unlock()
		return fmt.Errorf("warviz: watch %s: %w", dw.path, err)
	}
	dw.logger.Info("watching dataset", zap.String("path", dw.path))

	go dw.run(ctx)
	return nil
}

// Poll returns the most recently reloaded dataset, if any arrived since the
// last call. It never blocks.
func (dw *DataWatcher) Poll() (Dataset, bool) {
	select {
	case ds := <-dw.out:
		return ds, true
	default:
		return Dataset{}, false
	}
}

// Close stops the watcher goroutine and waits for it to exit.
func (dw *DataWatcher) Close() error {
	dw.mu.Lock()
	wasRunning := dw.running
	dw.running = false
	dw.mu.Unlock()

	if wasRunning {
		close(dw.stopCh)
		<-dw.doneCh
	}
	return dw.watcher.Close()
}

func (dw *DataWatcher) run(ctx context.Context) {
	defer close(dw.doneCh)

	tick := time.NewTicker(max(dw.debounce/4, 10*time.Millisecond))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-dw.stopCh:
			return
		case ev, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != dw.path {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			dw.dirtyAt = time.Now()
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.logger.Warn("dataset watcher error", zap.Error(err))
		case now := <-tick.C:
			if dw.dirtyAt.IsZero() || now.Sub(dw.dirtyAt) < dw.debounce {
				continue
			}
			dw.dirtyAt = time.Time{}
			dw.reload()
		}
	}
}

func (dw *DataWatcher) reload() {
	ds, err := LoadDataset(dw.path)
	if err != nil {
		dw.logger.Warn("dataset reload failed", zap.String("path", dw.path), zap.Error(err))
		return
	}
	// Keep only the newest result.
	select {
	case <-dw.out:
	default:
	}
	dw.out <- ds
	dw.logger.Debug("dataset reloaded", zap.Int("records", len(ds.Records)))
}
