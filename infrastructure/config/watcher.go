package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Watcher reloads the dynamic configuration section when the config file
// changes. An invalid file keeps the current values; a broken edit must
// never degrade a running engine.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	current DynamicConfig
	mu      sync.RWMutex

	onChange []func(DynamicConfig)
	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher seeded with the given dynamic configuration
func NewWatcher(configPath string, initial DynamicConfig, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := fw.Add(configPath); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}

	// Editors and config tooling often replace the file atomically via
	// rename, which drops the file watch; watching the directory catches
	// the recreate.
	if err := fw.Add(filepath.Dir(configPath)); err != nil {
		logger.Warn("Failed to watch config directory", zap.Error(err))
	}

	return &Watcher{
		path:    configPath,
		watcher: fw,
		current: initial,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}, nil
}

// Start begins watching for changes
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("Configuration watcher started", zap.String("path", w.path))
}

// Stop stops the watcher
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		w.logger.Info("Configuration watcher stopped")
	})
}

// OnChange registers a callback invoked with the new dynamic configuration
// after every successful reload
func (w *Watcher) OnChange(handler func(DynamicConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, handler)
}

// Current returns the current dynamic configuration
func (w *Watcher) Current() DynamicConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

func (w *Watcher) watchLoop() {
	var debounce *time.Timer
	const settle = 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(settle, w.reload)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	w.logger.Info("Configuration file changed, reloading", zap.String("path", w.path))

	next, err := loadDynamic(w.path)
	if err != nil {
		w.logger.Error("Failed to reload configuration, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	prev := w.current
	w.current = next
	handlers := make([]func(DynamicConfig), len(w.onChange))
	copy(handlers, w.onChange)
	w.mu.Unlock()

	if prev.DensityQuiescenceMs != next.DensityQuiescenceMs {
		w.logger.Info("Density quiescence window changed",
			zap.Int("fromMs", prev.DensityQuiescenceMs),
			zap.Int("toMs", next.DensityQuiescenceMs),
		)
	}

	for _, handler := range handlers {
		handler(next)
	}

	w.logger.Info("Configuration reloaded")
}

func loadDynamic(path string) (DynamicConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DynamicConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg struct {
		Dynamic DynamicConfig `yaml:"dynamic"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DynamicConfig{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validator.New().Struct(cfg.Dynamic); err != nil {
		return DynamicConfig{}, fmt.Errorf("invalid dynamic configuration: %w", err)
	}
	return cfg.Dynamic, nil
}
