package cfg

import (
	"context"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/thep200/github-user-crawler/pkg/log"
)

// ViperLoader reads cfg/yaml/mode.yaml once and, when watching, keeps the
// loaded config in step with the file. GITHUB_TOKEN and APP_ENV always win
// over the file.
type ViperLoader struct {
	v      *viper.Viper
	logger log.Logger
	watch  bool

	once    sync.Once
	loadErr error

	mu        sync.RWMutex
	config    *Config
	callbacks []func(*Config)
}

func NewViperLoader() (*ViperLoader, error) {
	return NewViperLoaderAt("cfg/yaml", "mode", log.NewNopLogger(), true), nil
}

func NewViperLoaderAt(configPath, configName string, logger log.Logger, watch bool) *ViperLoader {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	v := viper.New()
	v.AddConfigPath(configPath)
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	_ = v.BindEnv("githubapi.accesstoken", "GITHUB_TOKEN")
	_ = v.BindEnv("app.env", "APP_ENV")

	return &ViperLoader{v: v, logger: logger, watch: watch}
}

// SetLogger replaces the logger used for reload messages. Loaders are built
// before the application logger exists.
func (yl *ViperLoader) SetLogger(logger log.Logger) {
	yl.mu.Lock()
	yl.logger = logger
	yl.mu.Unlock()
}

func (yl *ViperLoader) Load() (*Config, error) {
	yl.once.Do(func() {
		if err := yl.v.ReadInConfig(); err != nil {
			yl.loadErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		if err := yl.apply(); err != nil {
			yl.loadErr = err
			return
		}
		if yl.watch {
			yl.v.OnConfigChange(yl.onChange)
			yl.v.WatchConfig()
		}
	})
	if yl.loadErr != nil {
		return nil, yl.loadErr
	}

	yl.mu.RLock()
	defer yl.mu.RUnlock()
	return yl.config, nil
}

// RegisterConfigChangeCallback is called with every config reloaded from disk.
func (yl *ViperLoader) RegisterConfigChangeCallback(callback func(*Config)) {
	yl.mu.Lock()
	yl.callbacks = append(yl.callbacks, callback)
	yl.mu.Unlock()
}

func (yl *ViperLoader) onChange(e fsnotify.Event) {
	ctx := context.Background()
	yl.mu.RLock()
	logger := yl.logger
	yl.mu.RUnlock()

	logger.Info(ctx, "Config file changed: %s", e.Name)
	if err := yl.apply(); err != nil {
		logger.Error(ctx, "Failed to reload config: %v", err)
		return
	}
	yl.notify()
	logger.Info(ctx, "Configuration reloaded")
}

// apply unmarshals the current viper state into a fresh Config.
func (yl *ViperLoader) apply() error {
	config := &Config{}
	if err := yl.v.Unmarshal(config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	yl.mu.Lock()
	yl.config = config.Defaults()
	yl.mu.Unlock()
	return nil
}

func (yl *ViperLoader) notify() {
	yl.mu.RLock()
	config := yl.config
	callbacks := make([]func(*Config), len(yl.callbacks))
	copy(callbacks, yl.callbacks)
	yl.mu.RUnlock()

	for _, callback := range callbacks {
		callback(config)
	}
}
