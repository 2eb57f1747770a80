package config

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Holder provides thread-safe access to configuration with hot reload support.
type Holder struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	onChange []func(*Config)
	onReload func(error)
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewHolder creates a new config holder and loads the initial configuration.
func NewHolder(path string, logger zerolog.Logger) (*Holder, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	return &Holder{
		config: cfg,
		path:   absPath,
		logger: logger,
		stopCh: make(chan struct{}),
	}, nil
}

// Static wraps an already loaded config. Reload is not available.
func Static(cfg *Config, logger zerolog.Logger) *Holder {
	return &Holder{
		config: cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Get returns the current configuration (thread-safe).
func (h *Holder) Get() *Config {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.config
}

// Path returns the watched file, or "" for a static holder.
func (h *Holder) Path() string {
	return h.path
}

// Reload reloads the configuration from disk.
// On failure the old config is kept.
func (h *Holder) Reload() error {
	if h.path == "" {
		return fmt.Errorf("reload config: no config file")
	}
	h.logger.Info().Str("path", h.path).Msg("reloading configuration")

	newCfg, err := Load(h.path)
	if err != nil {
		h.logger.Error().Err(err).Msg("config reload failed, keeping old config")
		h.observe(err)
		return fmt.Errorf("reload config: %w", err)
	}

	h.mu.Lock()
	oldCfg := h.config
	h.config = newCfg
	listeners := append([]func(*Config){}, h.onChange...)
	h.mu.Unlock()

	h.logChanges(oldCfg, newCfg)
	h.observe(nil)

	for _, fn := range listeners {
		fn(newCfg)
	}

	h.logger.Info().Msg("configuration reloaded successfully")
	return nil
}

// SetLogger replaces the logger. Call it before WatchFile or WatchSignals.
func (h *Holder) SetLogger(logger zerolog.Logger) {
	h.logger = logger
}

// OnChange registers a callback to be called when config changes.
func (h *Holder) OnChange(fn func(*Config)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

// OnReload registers fn to receive the outcome of every reload attempt.
func (h *Holder) OnReload(fn func(error)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReload = fn
}

func (h *Holder) observe(err error) {
	h.mu.RLock()
	fn := h.onReload
	h.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}

// WatchFile starts watching the config file for changes.
func (h *Holder) WatchFile() error {
	if h.path == "" {
		return fmt.Errorf("watch config: no config file")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	// Watch the directory so editors that save atomically are picked up.
	dir := filepath.Dir(h.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go h.watchLoop()

	h.logger.Info().Str("path", h.path).Msg("watching config file for changes")
	return nil
}

// WatchSignals starts listening for SIGHUP to trigger reload.
func (h *Holder) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				h.logger.Info().Msg("received SIGHUP, reloading config")
				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("SIGHUP reload failed")
				}
			case <-h.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()

	h.logger.Info().Msg("listening for SIGHUP to reload config")
}

// Stop stops watching for file changes and signals. Safe to call twice.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		if h.watcher != nil {
			h.watcher.Close()
		}
	})
}

func (h *Holder) watchLoop() {
	filename := filepath.Base(h.path)

	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			// atomic save = create
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("config file changed")

				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("file watch reload failed")
				}
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}

func (h *Holder) logChanges(old, new *Config) {
	if old.Logging.Level != new.Logging.Level {
		h.logger.Info().
			Str("old", old.Logging.Level).
			Str("new", new.Logging.Level).
			Msg("log level changed")
	}
	if old.Upstream.BaseURL() != new.Upstream.BaseURL() {
		h.logger.Info().
			Str("old", old.Upstream.BaseURL()).
			Str("new", new.Upstream.BaseURL()).
			Msg("try-it target changed")
	}
	if old.Docs != new.Docs {
		h.logger.Info().
			Str("title", new.Docs.Title).
			Str("theme", new.Docs.DefaultTheme).
			Msg("docs settings changed")
	}
	if old.Catalog.Path != new.Catalog.Path || old.Server != new.Server {
		h.logger.Warn().Msg("server and catalog settings take effect after restart")
	}
}

// ReloadableFields returns which fields can be changed without restart.
func ReloadableFields() []string {
	return []string{
		"upstream.url",
		"upstream.api_prefix",
		"docs.title",
		"docs.default_theme",
		"docs.logo_url",
		"logging.level",
	}
}

// NonReloadableFields returns which fields require a restart.
func NonReloadableFields() []string {
	return []string{
		"server.host",
		"server.port",
		"upstream.timeout",
		"catalog.path",
		"logging.format",
		"metrics.enabled",
		"openapi.enabled",
	}
}
