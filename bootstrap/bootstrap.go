// Package bootstrap wires all dependencies and starts the application.
// Configuration comes from an optional YAML file with APIDOCS_* environment
// overrides; the catalog is the embedded one unless catalog.path names a file.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	apihttp "github.com/monada-ai/apidocs/adapters/http"
	"github.com/monada-ai/apidocs/adapters/idgen"
	"github.com/monada-ai/apidocs/adapters/metrics"
	"github.com/monada-ai/apidocs/catalogdata"
	"github.com/monada-ai/apidocs/config"
	"github.com/monada-ai/apidocs/core/openapi"
	"github.com/monada-ai/apidocs/domain/catalog"
	"github.com/monada-ai/apidocs/web"
)

const shutdownTimeout = 30 * time.Second

// Options configure application initialization.
type Options struct {
	// ConfigPath is the YAML config file. Empty means environment only.
	ConfigPath string
	// Version is reported by /version and the OpenAPI info block.
	Version string
	// Watch enables config reload on file change and SIGHUP.
	Watch bool
}

// App represents the running application.
type App struct {
	Logger     zerolog.Logger
	Config     *config.Holder
	Catalog    *catalog.Catalog
	Metrics    *metrics.Collector
	Registry   *prometheus.Registry
	Docs       *web.Handler
	HTTPServer *http.Server

	executor *apihttp.Executor
	watch    bool
}

// New creates and initializes the application.
func New(opts Options) (*App, error) {
	holder, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := holder.Get()

	logger := setupLogger(cfg.Logging)
	holder.SetLogger(logger)
	logger.Info().
		Str("config", opts.ConfigPath).
		Str("upstream", cfg.Upstream.BaseURL()).
		Msg("initializing apidocs")

	cat, err := catalogdata.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info().
		Int("schemas", len(cat.All())).
		Int("categories", len(cat.Categories())).
		Msg("catalog loaded")

	a := &App{
		Logger:  logger,
		Config:  holder,
		Catalog: cat,
		watch:   opts.Watch && opts.ConfigPath != "",
	}

	if cfg.Metrics.Enabled {
		a.Registry = prometheus.NewRegistry()
		a.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.Metrics = metrics.NewWithRegistry(a.Registry)
		logger.Info().Str("path", cfg.Metrics.Path).Msg("prometheus metrics enabled")
	}

	a.executor = apihttp.NewExecutor(apihttp.ExecutorConfig{
		Timeout:         cfg.Upstream.Timeout,
		MaxIdleConns:    cfg.Upstream.MaxIdleConns,
		IdleConnTimeout: cfg.Upstream.IdleConnTimeout,
	}).WithIDGenerator(idgen.UUID{})
	if a.Metrics != nil {
		a.executor.WithMetrics(a.Metrics)
	}

	var spec *openapi.Service
	if cfg.OpenAPI.Enabled {
		gen := openapi.NewGenerator(cat)
		gen.SetInfo(openapi.Info{
			Title:       cfg.Docs.Title,
			Description: "Endpoints and object schemas of the Monada API.",
			Version:     versionOrDev(opts.Version),
		})
		spec = openapi.NewService(openapi.ServiceConfig{Generator: gen, Logger: logger})
		openapi.Register(spec)
	}

	docs, err := web.NewHandler(web.Deps{
		Catalog:  cat,
		Executor: a.executor,
		OpenAPI:  spec,
		Metrics:  a.Metrics,
		Logger:   logger.With().Str("component", "docs").Logger(),
		Settings: settingsFrom(cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("init docs handler: %w", err)
	}
	a.Docs = docs

	routerCfg := apihttp.RouterConfig{
		Metrics:     a.Metrics,
		MetricsPath: cfg.Metrics.Path,
		DocsHandler: docs.Router(),
		Timeout:     cfg.Server.WriteTimeout,
	}
	if a.Registry != nil {
		routerCfg.MetricsHandler = promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})
	}
	router := apihttp.NewRouter(apihttp.NewHealthHandler(opts.Version), logger, routerCfg)

	a.HTTPServer = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	a.registerReloadHooks()
	return a, nil
}

func loadConfig(path string) (*config.Holder, error) {
	if path == "" {
		cfg, err := config.LoadFromEnv()
		if err != nil {
			return nil, err
		}
		return config.Static(cfg, zerolog.Nop()), nil
	}
	return config.NewHolder(path, zerolog.Nop())
}

// registerReloadHooks applies reloadable settings without a restart.
func (a *App) registerReloadHooks() {
	a.Config.OnChange(func(cfg *config.Config) {
		if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			zerolog.SetGlobalLevel(level)
		}
		a.Docs.SetSettings(settingsFrom(cfg))
	})

	if a.Metrics == nil {
		return
	}
	a.Config.OnReload(func(err error) {
		if err != nil {
			a.Metrics.ConfigReloadErrors.Inc()
			return
		}
		a.Metrics.ConfigReloads.Inc()
		a.Metrics.ConfigLastReload.SetToCurrentTime()
	})
}

func settingsFrom(cfg *config.Config) web.Settings {
	return web.Settings{
		Title:        cfg.Docs.Title,
		LogoURL:      cfg.Docs.LogoURL,
		DefaultTheme: web.Theme(cfg.Docs.DefaultTheme),
		UpstreamURL:  cfg.Upstream.URL,
		APIPrefix:    cfg.Upstream.APIPrefix,
	}
}

func versionOrDev(v string) string {
	if v == "" {
		return "dev"
	}
	return v
}

// Run listens on the configured address and serves until ctx is canceled
// or SIGINT/SIGTERM arrives.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.HTTPServer.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled or a termination signal arrives,
// then shuts down gracefully.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.watch {
		if err := a.Config.WatchFile(); err != nil {
			a.Logger.Warn().Err(err).Msg("config file watch disabled")
		}
		a.Config.WatchSignals()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info().Str("addr", ln.Addr().String()).Msg("starting http server")
		if err := a.HTTPServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info().Msg("shutting down")
		return a.Shutdown()
	})

	return g.Wait()
}

// Shutdown gracefully stops the application.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error().Err(err).Msg("http server shutdown error")
			errs = append(errs, err)
		}
	}

	a.Config.Stop()

	if a.executor != nil {
		a.executor.Close()
	}

	a.Logger.Info().Msg("shutdown complete")
	return errors.Join(errs...)
}

// Reload re-reads the config file and applies the reloadable settings.
func (a *App) Reload() error {
	return a.Config.Reload()
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
