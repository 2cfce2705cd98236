package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"sycoraxai/voicebroker/pkg/api/handlers"
	"sycoraxai/voicebroker/pkg/broker"
	"sycoraxai/voicebroker/pkg/config"
	"sycoraxai/voicebroker/pkg/issuer"
	"sycoraxai/voicebroker/pkg/signaling"
	"sycoraxai/voicebroker/pkg/store"
	"sycoraxai/voicebroker/pkg/telemetry/health"
	"sycoraxai/voicebroker/pkg/telemetry/metrics"
	"sycoraxai/voicebroker/pkg/telemetry/tracing"
)

// BuildInfo identifies the running binary on /version.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Options carries dependencies that are not part of the configuration file.
type Options struct {
	Logger *slog.Logger

	// Backend overrides the backend selected by the store configuration.
	// The server closes it on shutdown.
	Backend store.Backend

	// Registry receives the metrics. Nil creates one with the runtime
	// collectors.
	Registry *prometheus.Registry

	Build BuildInfo
}

// Server is the voice broker HTTP server.
type Server struct {
	config *config.Config
	logger *slog.Logger
	build  BuildInfo

	backend   store.Backend
	store     *store.ConfigStore
	client    *issuer.Client
	broker    *broker.Dispatcher
	handlers  *handlers.Handlers
	collector *metrics.Collector
	health    *health.Checker
	tracer    *tracing.Tracer

	watcher *store.Watcher
	backups *store.BackupScheduler

	httpServer   *http.Server
	listener     net.Listener
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New builds every component named by cfg. Nothing is started until Start.
func New(cfg *config.Config, opts Options) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: config is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, opts.Build.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	backend := opts.Backend
	if backend == nil {
		backend, err = OpenBackend(cfg.Store)
		if err != nil {
			_ = tracer.Shutdown(context.Background())
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
	}

	s := &Server{
		config:       cfg,
		logger:       logger,
		build:        opts.Build,
		backend:      backend,
		store:        store.NewConfigStore(backend, logger),
		client:       issuer.NewClient(cfg.Upstream.Timeout, logger),
		collector:    metrics.NewCollector(&cfg.Telemetry.Metrics, opts.Registry),
		health:       health.New(0),
		tracer:       tracer,
		shutdownChan: make(chan struct{}),
	}

	s.broker, err = broker.New(broker.Config{
		Store:      s.store,
		Strategies: issuer.DefaultStrategies(issuer.Options{Client: s.client}),
		Legacy: issuer.NewLegacyTokenClient(s.client, issuer.LegacyConfig{
			BaseURL:   cfg.Upstream.Legacy.BaseURL,
			TokenPath: cfg.Upstream.Legacy.TokenPath,
			APIKey:    cfg.Upstream.Legacy.APIKey,
			Timeout:   cfg.Upstream.Legacy.Timeout,
		}),
		DefaultProvider: cfg.Broker.DefaultProvider,
		Observer:        s.collector,
		Logger:          logger,
	})
	if err != nil {
		s.closeResources(context.Background())
		return nil, err
	}

	proxy := signaling.New(signaling.Config{
		Upstream:     cfg.Upstream.Signaling.URL,
		Timeout:      cfg.Upstream.Signaling.Timeout,
		MaxBodyBytes: cfg.Upstream.Signaling.MaxBodyBytes,
	}, s.collector, logger)

	s.handlers = handlers.New(s.broker, proxy, handlers.Options{
		ExposeSecrets: cfg.Store.ExposeSecrets,
		MaxBodyBytes:  cfg.Server.MaxBodyBytes,
		Writes:        s.collector,
		Logger:        logger,
	})

	s.health.RegisterCheck("store", s.store.Check)
	return s, nil
}

// Start seeds the store, starts the background jobs and serves HTTP until
// ctx is cancelled, Stop is called or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	if err := s.seed(ctx); err != nil {
		s.markStopped()
		return err
	}
	if err := s.startBackground(ctx); err != nil {
		s.markStopped()
		s.stopBackground()
		return err
	}

	var tlsCfg *tls.Config
	if s.config.Server.TLS.Enabled {
		reloader := newCertReloader(s.config.Server.TLS, s.logger)
		if err := reloader.Start(ctx); err != nil {
			s.markStopped()
			s.stopBackground()
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
		tlsCfg = tlsConfig(s.config.Server.TLS, reloader)
	}

	ln, err := net.Listen("tcp", s.config.Server.ListenAddress)
	if err != nil {
		s.markStopped()
		s.stopBackground()
		return fmt.Errorf("failed to listen on %s: %w", s.config.Server.ListenAddress, err)
	}

	s.mu.Lock()
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
		TLSConfig:      tlsCfg,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	srv := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting voice broker",
			"address", ln.Addr().String(),
			"store_backend", s.config.Store.Backend,
			"metrics_enabled", s.collector.Enabled(),
			"tracing_enabled", s.tracer.Enabled(),
			"tls_enabled", tlsCfg != nil,
		)
		var err error
		if tlsCfg != nil {
			err = srv.ServeTLS(ln, "", "")
		} else {
			err = srv.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		_ = s.Shutdown(context.Background())
		return err
	}
}

// Stop asks a running Start to shut down.
func (s *Server) Stop() {
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// Shutdown drains in-flight requests, stops background jobs and releases
// the store and tracer. It runs once; later calls return nil.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		s.mu.RLock()
		srv := s.httpServer
		s.mu.RUnlock()
		if srv != nil {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.stopBackground()
		s.closeResources(shutdownCtx)
		s.markStopped()

		s.logger.Info("voice broker stopped")
	})

	return shutdownErr
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Store returns the provider configuration store.
func (s *Server) Store() *store.ConfigStore {
	return s.store
}

func (s *Server) markStopped() {
	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()
}

func (s *Server) seed(ctx context.Context) error {
	path := s.config.Store.SeedFile
	if path == "" {
		return nil
	}
	doc, err := store.LoadSeedFile(path)
	if err != nil {
		return err
	}
	if _, err := store.Seed(ctx, s.backend, doc, s.logger); err != nil {
		return err
	}
	return nil
}

func (s *Server) startBackground(ctx context.Context) error {
	if s.config.Store.Watch {
		fb, ok := s.backend.(*store.FileBackend)
		if !ok {
			s.logger.Warn("store watch is only supported by the file backend", "backend", s.config.Store.Backend)
		} else {
			w, err := store.NewWatcher(fb, s.config.Store.WatchDebounce, func(string) {
				s.collector.RecordExternalChange()
			}, s.logger)
			if err != nil {
				return err
			}
			s.watcher = w
			go func() {
				if err := w.Watch(ctx); err != nil {
					s.logger.Error("store watcher stopped", "error", err)
				}
			}()
		}
	}

	backup := s.config.Store.Backup
	if backup.Schedule != "" {
		s.backups = store.NewBackupScheduler(s.store, store.BackupConfig{
			Schedule: backup.Schedule,
			Dir:      backup.Dir,
			Keep:     backup.Keep,
		}, s.logger)
		s.backups.OnResult(s.collector.RecordBackup)
		if err := s.backups.Start(ctx); err != nil {
			return fmt.Errorf("failed to start backup scheduler: %w", err)
		}
	}
	return nil
}

func (s *Server) stopBackground() {
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.logger.Warn("failed to stop store watcher", "error", err)
		}
		s.watcher = nil
	}
	if s.backups != nil {
		s.backups.Stop()
		s.backups = nil
	}
}

func (s *Server) closeResources(ctx context.Context) {
	s.client.CloseIdleConnections()
	if err := s.backend.Close(); err != nil {
		s.logger.Warn("failed to close store", "error", err)
	}
	if err := s.tracer.Shutdown(ctx); err != nil {
		s.logger.Warn("failed to flush traces", "error", err)
	}
}
