package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "0.0.0.0:8001"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1 << 20
	DefaultMaxBodyBytes    = int64(1 << 20)
	DefaultTLSMinVersion   = "1.2"
	DefaultTLSReload       = 5 * time.Minute

	// CORS defaults
	DefaultCORSEnabled = true
	DefaultCORSMaxAge  = 600

	// Store defaults
	DefaultStoreBackend       = "file"
	DefaultStorePath          = "data/providers.json"
	DefaultSQLitePath         = "data/providers.db"
	DefaultSQLiteDriver       = "sqlite"
	DefaultSQLiteBusyTimeout  = 5 * time.Second
	DefaultStoreWatchDebounce = 100 * time.Millisecond
	DefaultBackupDir          = "data/backups"
	DefaultBackupKeep         = 14

	// Upstream defaults
	DefaultUpstreamTimeout       = 10 * time.Second
	DefaultSignalingURL          = "https://app.targetai.ai/run/voice/offer"
	DefaultSignalingTimeout      = 15 * time.Second
	DefaultSignalingMaxBodyBytes = int64(1 << 20)
	DefaultLegacyBaseURL         = "https://app.targetai.ai"
	DefaultLegacyTokenPath       = "/token"
	DefaultLegacyTimeout         = 10 * time.Second

	// Broker defaults
	DefaultProvider = "retell"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultLoggingRedact    = true
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "voicebroker"
	DefaultTracingEnabled   = false
	DefaultTracingSampler   = "ratio"
	DefaultTracingRatio     = 0.1
	DefaultTracingTimeout   = 10 * time.Second
	DefaultServiceName      = "voicebroker"
)

// Default returns a configuration with every field at its default value.
// Loading starts from this value, so booleans that default to true stay
// true unless a file or environment variable turns them off.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			CORS: CORSConfig{Enabled: DefaultCORSEnabled},
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{Redact: DefaultLoggingRedact},
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Tracing: TracingConfig{Enabled: DefaultTracingEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults. Boolean fields
// are left alone; use Default for a fully populated value.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	applyCORSDefaults(&cfg.Server.CORS)
	if cfg.Server.TLS.MinVersion == "" {
		cfg.Server.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.Server.TLS.ReloadInterval == 0 {
		cfg.Server.TLS.ReloadInterval = DefaultTLSReload
	}

	// Store defaults
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultStoreBackend
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Store.SQLite.Driver == "" {
		cfg.Store.SQLite.Driver = DefaultSQLiteDriver
	}
	if cfg.Store.SQLite.BusyTimeout == 0 {
		cfg.Store.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Store.WatchDebounce == 0 {
		cfg.Store.WatchDebounce = DefaultStoreWatchDebounce
	}
	if cfg.Store.Backup.Dir == "" {
		cfg.Store.Backup.Dir = DefaultBackupDir
	}
	if cfg.Store.Backup.Keep == 0 {
		cfg.Store.Backup.Keep = DefaultBackupKeep
	}

	// Upstream defaults
	if cfg.Upstream.Timeout == 0 {
		cfg.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if cfg.Upstream.Signaling.URL == "" {
		cfg.Upstream.Signaling.URL = DefaultSignalingURL
	}
	if cfg.Upstream.Signaling.Timeout == 0 {
		cfg.Upstream.Signaling.Timeout = DefaultSignalingTimeout
	}
	if cfg.Upstream.Signaling.MaxBodyBytes == 0 {
		cfg.Upstream.Signaling.MaxBodyBytes = DefaultSignalingMaxBodyBytes
	}
	if cfg.Upstream.Legacy.BaseURL == "" {
		cfg.Upstream.Legacy.BaseURL = DefaultLegacyBaseURL
	}
	if cfg.Upstream.Legacy.TokenPath == "" {
		cfg.Upstream.Legacy.TokenPath = DefaultLegacyTokenPath
	}
	if cfg.Upstream.Legacy.Timeout == 0 {
		cfg.Upstream.Legacy.Timeout = DefaultLegacyTimeout
	}

	// Broker defaults
	if cfg.Broker.DefaultProvider == "" {
		cfg.Broker.DefaultProvider = DefaultProvider
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingRatio
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultServiceName
	}
}

func applyCORSDefaults(cors *CORSConfig) {
	if len(cors.AllowedOrigins) == 0 {
		cors.AllowedOrigins = []string{"*"}
	}
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
	if len(cors.ExposedHeaders) == 0 {
		cors.ExposedHeaders = []string{"X-Request-ID"}
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = DefaultCORSMaxAge
	}
}
