package config

import "time"

// Config is the root configuration structure for the voice broker.
type Config struct {
	// Server contains HTTP listener settings, static file hosting and CORS.
	Server ServerConfig `yaml:"server"`

	// Store selects and configures the provider configuration backend.
	Store StoreConfig `yaml:"store"`

	// Upstream contains settings for outbound calls to provider APIs.
	Upstream UpstreamConfig `yaml:"upstream"`

	// Broker contains issuance behaviour settings.
	Broker BrokerConfig `yaml:"broker"`

	// Telemetry contains logging, metrics and tracing settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "0.0.0.0:8001"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must exceed the signaling timeout.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits JSON request bodies on the API endpoints.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// StaticDir, when set, is served at "/" for paths not handled by the API.
	StaticDir string `yaml:"static_dir"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`

	// TLS enables HTTPS on the listener.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig configures TLS termination.
type TLSConfig struct {
	// Enabled serves HTTPS instead of HTTP.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the PEM-encoded certificate (chain).
	CertFile string `yaml:"cert_file"`

	// KeyFile is the PEM-encoded private key.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the lowest accepted protocol version.
	// Options: "1.2", "1.3"
	// Default: "1.2"
	MinVersion string `yaml:"min_version"`

	// ReloadInterval is how often the certificate files are checked for
	// renewal.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"reload_interval"`
}

// CORSConfig contains CORS configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins lists allowed origins; "*" allows all.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods lists allowed methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders lists allowed request headers.
	// Default: ["Content-Type", "Authorization"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// ExposedHeaders lists headers visible to the browser.
	// Default: ["X-Request-ID"]
	ExposedHeaders []string `yaml:"exposed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 600
	MaxAge int `yaml:"max_age"`

	// AllowCredentials controls Access-Control-Allow-Credentials.
	// Default: false
	AllowCredentials bool `yaml:"allow_credentials"`
}

// StoreConfig configures the provider configuration store.
type StoreConfig struct {
	// Backend selects the storage backend.
	// Options: "file", "sqlite", "memory"
	// Default: "file"
	Backend string `yaml:"backend"`

	// Path is the JSON file used by the file backend.
	// Default: "data/providers.json"
	Path string `yaml:"path"`

	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// SeedFile is a YAML or JSON provider document written to the store on
	// startup when the store is empty.
	SeedFile string `yaml:"seed_file"`

	// ExposeSecrets returns unredacted credentials from /read_config.
	// Intended for test fixtures only.
	// Default: false
	ExposeSecrets bool `yaml:"expose_secrets"`

	// Watch logs out-of-band edits of the file backend.
	// Default: false
	Watch bool `yaml:"watch"`

	// WatchDebounce is the quiet period before an edit is reported.
	// Default: 100ms
	WatchDebounce time.Duration `yaml:"watch_debounce"`

	// Backup configures scheduled snapshots.
	Backup BackupConfig `yaml:"backup"`
}

// SQLiteConfig configures the sqlite store backend.
type SQLiteConfig struct {
	// Path is the database file.
	// Default: "data/providers.db"
	Path string `yaml:"path"`

	// Driver selects "sqlite" (pure Go) or "sqlite3" (cgo).
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// BusyTimeout is how long to wait for locks.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// BackupConfig configures scheduled store snapshots.
type BackupConfig struct {
	// Schedule is a five-field cron expression; empty disables backups.
	Schedule string `yaml:"schedule"`

	// Dir is the snapshot directory.
	// Default: "data/backups"
	Dir string `yaml:"dir"`

	// Keep is the number of snapshots retained (0 keeps all).
	// Default: 14
	Keep int `yaml:"keep"`
}

// UpstreamConfig configures outbound calls.
type UpstreamConfig struct {
	// Timeout bounds issuance calls (Retell create-web-call). A provider's
	// stored "timeout" setting takes precedence.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// Signaling configures the voice offer pass-through.
	Signaling SignalingConfig `yaml:"signaling"`

	// Legacy configures the legacy TargetAI token client behind /token.
	Legacy LegacyConfig `yaml:"legacy"`
}

// SignalingConfig configures the voice offer proxy.
type SignalingConfig struct {
	// URL is the full upstream offer endpoint.
	// Default: "https://app.targetai.ai/run/voice/offer"
	URL string `yaml:"url"`

	// Timeout bounds each forwarded call.
	// Default: 15s
	Timeout time.Duration `yaml:"timeout"`

	// MaxBodyBytes bounds inbound and relayed bodies.
	// Default: 1048576 (1MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// LegacyConfig configures the legacy TargetAI token client.
type LegacyConfig struct {
	// BaseURL is the TargetAI base URL.
	// Default: "https://app.targetai.ai"
	BaseURL string `yaml:"base_url"`

	// TokenPath is appended to BaseURL.
	// Default: "/token"
	TokenPath string `yaml:"token_path"`

	// APIKey is the server-side TargetAI key. Prefer setting it through
	// VOICEBROKER_UPSTREAM_LEGACY_API_KEY.
	APIKey string `yaml:"api_key"`

	// Timeout bounds the token call.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// BrokerConfig configures issuance.
type BrokerConfig struct {
	// DefaultProvider is used when a request omits the provider.
	// Default: "retell"
	DefaultProvider string `yaml:"default_provider"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// Redact scrubs credentials from log output.
	// Default: true
	Redact bool `yaml:"redact"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path of the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "voicebroker"
	Namespace string `yaml:"namespace"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler is the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the sampled fraction for the "ratio" sampler.
	// Default: 0.1
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector address, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// ServiceName is the service.name resource attribute.
	// Default: "voicebroker"
	ServiceName string `yaml:"service_name"`
}
