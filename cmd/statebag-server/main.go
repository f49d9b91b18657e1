// Package main provides the entry point for statebag-server.
//
// statebag-server exposes lazily-built, typed key/value stores over
// HTTP, persisting them to server-side sessions or client cookies.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/statebag/statebag/internal/infra/buildinfo"
	"github.com/statebag/statebag/internal/infra/confloader"
	"github.com/statebag/statebag/internal/infra/shutdown"
	"github.com/statebag/statebag/internal/server/config"
	"github.com/statebag/statebag/internal/server/httpserver"
	"github.com/statebag/statebag/internal/server/httpserver/handler"
	"github.com/statebag/statebag/internal/session"
	"github.com/statebag/statebag/internal/storage"
	"github.com/statebag/statebag/internal/telemetry/logger"
	"github.com/statebag/statebag/internal/telemetry/metric"
	"github.com/statebag/statebag/internal/transport/cookie"
	"github.com/statebag/statebag/pkg/crypto/seal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("statebag-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := initLogger(cfg)

	log.Info("starting statebag-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile)

	metrics := metric.NewRegistry()

	engine, err := initStorage(cfg, log, metrics)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	sessions := session.NewManager(engine,
		session.WithDefaultTTL(cfg.Session.TTL),
		session.WithSweepInterval(cfg.Session.SweepInterval),
		session.WithLogger(log),
		session.WithMetrics(metrics),
	)

	handlerCfg, err := buildHandlerConfig(cfg, sessions, log, metrics)
	if err != nil {
		return fmt.Errorf("build handler config: %w", err)
	}

	routerCfg := httpserver.DefaultRouterConfig()
	routerCfg.Handler = handlerCfg
	routerCfg.Logger = log
	routerCfg.Metrics = metrics

	httpServer := httpserver.New(cfg.Server.HTTP.Addr, httpserver.NewRouter(routerCfg))

	// Hot reload of the log level on config file changes.
	if *configFile != "" {
		if err := watchConfig(*configFile, log); err != nil {
			log.Warn("config watch disabled", "error", err)
		}
	}

	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down storage engine")
		return engine.Close()
	})

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down session manager")
		sessions.Close()
		return nil
	})

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr)

		var err error
		if cfg.Server.HTTP.TLSCertFile != "" && cfg.Server.HTTP.TLSKeyFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.Server.HTTP.TLSCertFile, cfg.Server.HTTP.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)

	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger and installs it as the
// process default.
func initLogger(cfg *config.ServerConfig) logger.Logger {
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	logger.SetDefault(log)
	return log
}

// initStorage initializes the persistence engine.
func initStorage(cfg *config.ServerConfig, log logger.Logger, metrics *metric.Registry) (storage.Engine, error) {
	switch cfg.Storage.Engine {
	case "memory":
		return storage.NewMemoryEngine(), nil
	default:
		engine, err := storage.NewBadgerEngine(storage.DefaultBadgerConfig(cfg.Storage.DataDir), log)
		if err != nil {
			return nil, err
		}
		metrics.Prometheus().MustRegister(engine.Collector())
		return engine, nil
	}
}

// buildHandlerConfig translates server configuration into the handler's
// per-kind store policy.
func buildHandlerConfig(cfg *config.ServerConfig, sessions *session.Manager, log logger.Logger, metrics *metric.Registry) (handler.Config, error) {
	cookieOpts := cookie.DefaultOptions()
	cookieOpts.Path = cfg.Cookie.Path
	cookieOpts.Domain = cfg.Cookie.Domain
	cookieOpts.Secure = cfg.Cookie.Secure

	if cfg.Cookie.SealKey != "" {
		sealer, err := seal.NewSealer([]byte(cfg.Cookie.SealKey))
		if err != nil {
			return handler.Config{}, fmt.Errorf("cookie sealer: %w", err)
		}
		cookieOpts.Sealer = sealer
	}

	return handler.Config{
		Sessions:      sessions,
		SessionTTL:    cfg.Session.TTL,
		CookieTTL:     cfg.Cookie.TTL,
		SessionCookie: cfg.Session.CookieName,
		CookieOpts:    cookieOpts,
		StrictDecode:  cfg.Codec.Strict,
		Logger:        log,
		Metrics:       metrics,
	}, nil
}

// watchConfig reloads the log level when the config file changes.
func watchConfig(path string, log logger.Logger) error {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return err
	}
	if err := watcher.Watch(path); err != nil {
		return err
	}

	watcher.OnChange(func(changed string) {
		reloaded, err := loadConfig(path)
		if err != nil {
			log.Warn("config reload skipped", "error", err)
			return
		}
		logger.SetLevel(reloaded.Log.Level)
		log.Info("log level reloaded", "level", reloaded.Log.Level)
	})

	watcher.StartAsync()
	return nil
}
