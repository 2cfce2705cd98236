package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"

	"sycoraxai/voicebroker/pkg/providers"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate validates the entire configuration. All errors are collected and
// returned together as a ValidationError.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateStore(&cfg.Store)...)
	errs = append(errs, validateUpstream(&cfg.Upstream)...)
	errs = append(errs, validateBroker(&cfg.Broker)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{"server.listen_address", "listen address is required"})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{"server.listen_address", fmt.Sprintf("invalid host:port: %v", err)})
	}

	for field, d := range map[string]int64{
		"server.read_timeout":     int64(cfg.ReadTimeout),
		"server.write_timeout":    int64(cfg.WriteTimeout),
		"server.idle_timeout":     int64(cfg.IdleTimeout),
		"server.shutdown_timeout": int64(cfg.ShutdownTimeout),
	} {
		if d < 0 {
			errs = append(errs, FieldError{field, "timeout must be positive"})
		}
	}

	if cfg.MaxHeaderBytes < 0 || cfg.MaxHeaderBytes > 10<<20 {
		errs = append(errs, FieldError{"server.max_header_bytes", "must be between 0 and 10MB"})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{"server.max_body_bytes", "must be non-negative"})
	}
	if cfg.TLS.Enabled {
		if cfg.TLS.CertFile == "" {
			errs = append(errs, FieldError{"server.tls.cert_file", "required when TLS is enabled"})
		}
		if cfg.TLS.KeyFile == "" {
			errs = append(errs, FieldError{"server.tls.key_file", "required when TLS is enabled"})
		}
	}
	if v := cfg.TLS.MinVersion; v != "" && v != "1.2" && v != "1.3" {
		errs = append(errs, FieldError{"server.tls.min_version", fmt.Sprintf("unsupported version %q (must be 1.2 or 1.3)", v)})
	}
	if cfg.TLS.ReloadInterval < 0 {
		errs = append(errs, FieldError{"server.tls.reload_interval", "must be non-negative"})
	}
	if cfg.CORS.MaxAge < 0 {
		errs = append(errs, FieldError{"server.cors.max_age", "must be non-negative"})
	}
	if cfg.CORS.AllowCredentials {
		for _, o := range cfg.CORS.AllowedOrigins {
			if o == "*" {
				errs = append(errs, FieldError{"server.cors.allow_credentials", "cannot be combined with wildcard origin"})
				break
			}
		}
	}

	return errs
}

func validateStore(cfg *StoreConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "file":
		if cfg.Path == "" {
			errs = append(errs, FieldError{"store.path", "path is required for the file backend"})
		}
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{"store.sqlite.path", "path is required for the sqlite backend"})
		}
		if cfg.SQLite.Driver != "sqlite" && cfg.SQLite.Driver != "sqlite3" {
			errs = append(errs, FieldError{"store.sqlite.driver", fmt.Sprintf("invalid driver %q (must be sqlite or sqlite3)", cfg.SQLite.Driver)})
		}
	case "memory":
	default:
		errs = append(errs, FieldError{"store.backend", fmt.Sprintf("invalid backend %q (must be file, sqlite or memory)", cfg.Backend)})
	}

	if cfg.Watch && cfg.Backend != "file" {
		errs = append(errs, FieldError{"store.watch", "watching is only supported for the file backend"})
	}

	if cfg.Backup.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Backup.Schedule); err != nil {
			errs = append(errs, FieldError{"store.backup.schedule", fmt.Sprintf("invalid cron expression: %v", err)})
		}
		if cfg.Backup.Dir == "" {
			errs = append(errs, FieldError{"store.backup.dir", "directory is required when a schedule is set"})
		}
	}
	if cfg.Backup.Keep < 0 {
		errs = append(errs, FieldError{"store.backup.keep", "must be non-negative"})
	}

	return errs
}

func validateUpstream(cfg *UpstreamConfig) []FieldError {
	var errs []FieldError

	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{"upstream.timeout", "timeout must be positive"})
	}
	if err := validateHTTPURL(cfg.Signaling.URL); err != nil {
		errs = append(errs, FieldError{"upstream.signaling.url", err.Error()})
	}
	if cfg.Signaling.Timeout < 0 {
		errs = append(errs, FieldError{"upstream.signaling.timeout", "timeout must be positive"})
	}
	if cfg.Signaling.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{"upstream.signaling.max_body_bytes", "must be non-negative"})
	}
	if err := validateHTTPURL(cfg.Legacy.BaseURL); err != nil {
		errs = append(errs, FieldError{"upstream.legacy.base_url", err.Error()})
	}
	if cfg.Legacy.Timeout < 0 {
		errs = append(errs, FieldError{"upstream.legacy.timeout", "timeout must be positive"})
	}

	return errs
}

func validateBroker(cfg *BrokerConfig) []FieldError {
	reg := providers.DefaultRegistry()
	if !reg.IsKnown(cfg.DefaultProvider) {
		return []FieldError{{
			"broker.default_provider",
			fmt.Sprintf("unknown provider %q (valid: %s)", cfg.DefaultProvider, strings.Join(reg.ListKnown(), ", ")),
		}}
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{"telemetry.logging.level", fmt.Sprintf("invalid level %q", cfg.Logging.Level)})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{"telemetry.logging.format", fmt.Sprintf("invalid format %q (must be json or text)", cfg.Logging.Format)})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{"telemetry.metrics.path", "path must start with /"})
	}

	switch cfg.Tracing.Sampler {
	case "always", "never", "ratio":
	default:
		errs = append(errs, FieldError{"telemetry.tracing.sampler", fmt.Sprintf("invalid sampler %q", cfg.Tracing.Sampler)})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{"telemetry.tracing.sample_ratio", "must be between 0.0 and 1.0"})
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{"telemetry.tracing.endpoint", "endpoint is required when tracing is enabled"})
	}

	return errs
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include a host, got %q", raw)
	}
	return nil
}
