package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/modelview/internal/logger"
)

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path    string
	fs      *fsnotify.Watcher
	updates chan *Config
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	log     *zap.Logger
}

// Watch starts watching path. The parent directory is watched because
// editors often replace a file instead of writing it in place.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	w := &Watcher{
		path:    abs,
		fs:      fw,
		updates: make(chan *Config, 1),
		done:    make(chan struct{}),
		log:     logger.Named("config"),
	}
	w.wg.Add(1)
	go w.run()

	w.log.Info("watching config", zap.String("path", abs))
	return w, nil
}

// Updates delivers reloaded configs. Only the newest unread config is kept.
// The channel is closed after Close.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer close(w.updates)

	for {
		select {
		case <-w.done:
			return

		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != w.path || e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := LoadFile(w.path)
			if err != nil {
				// Usually a half-written file; the next write event retries.
				w.log.Warn("config reload failed", zap.Error(err))
				continue
			}
			w.log.Debug("config reloaded", zap.String("path", w.path))
			w.publish(cfg)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("config watcher error", zap.Error(err))
		}
	}
}

// publish replaces any unread config. run is the only sender.
func (w *Watcher) publish(cfg *Config) {
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
}
