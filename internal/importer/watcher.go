package importer

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher imports CSV files dropped into a directory. Editors and network
// copies produce bursts of write events, so each file is debounced: the
// import runs only after the file has been quiet for a settle window.
type Watcher struct {
	im     *Importer
	log    *zap.Logger
	settle time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer

	// OnImport, when set, receives the result of each finished import.
	OnImport func(path string, rep Report, err error)
}

// NewWatcher returns a watcher around im. log may be nil.
func NewWatcher(im *Importer, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		im:     im,
		log:    log,
		settle: 500 * time.Millisecond,
		timers: make(map[string]*time.Timer),
	}
}

// Watch blocks watching dir until ctx is canceled. Only *.csv files trigger
// imports.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Add(dir); err != nil {
		return err
	}
	w.log.Info("watching for product CSVs", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".csv") {
				continue
			}
			w.schedule(ctx, ev.Name)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		}
	}
}

// schedule (re)arms the settle timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		rep, err := w.im.ImportFile(ctx, path)
		if err != nil {
			w.log.Warn("import failed", zap.String("file", path), zap.Error(err))
		} else {
			w.log.Info("imported", zap.String("file", path), zap.String("result", rep.String()))
		}
		if w.OnImport != nil {
			w.OnImport(path, rep, err)
		}
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}
