package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VOICEBROKER_"

// LoadConfig loads configuration from a YAML file, applies defaults and
// validates it. An empty path yields the default configuration.
// Environment variables are not consulted; use LoadConfigWithEnvOverrides.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}

		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides named VOICEBROKER_SECTION_FIELD
// (e.g. VOICEBROKER_SERVER_LISTEN_ADDRESS). Environment variables take
// precedence over the file.
//
// The loading sequence is:
// 1. Start from defaults
// 2. Overlay the YAML file
// 3. Apply environment variable overrides
// 4. Validate
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}
	return cfg, nil
}

// envOverrides collects parse failures so a typo in one variable does not
// silently keep the file value.
type envOverrides struct {
	errs []FieldError
}

func (e *envOverrides) lookup(name string) (string, bool) {
	val, ok := os.LookupEnv(EnvPrefix + name)
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

func (e *envOverrides) fail(name, message string) {
	e.errs = append(e.errs, FieldError{Field: EnvPrefix + name, Message: message})
}

func (e *envOverrides) str(name string, dst *string) {
	if val, ok := e.lookup(name); ok {
		*dst = val
	}
}

func (e *envOverrides) list(name string, dst *[]string) {
	if val, ok := e.lookup(name); ok {
		var out []string
		for _, part := range strings.Split(val, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		*dst = out
	}
}

func (e *envOverrides) duration(name string, dst *time.Duration) {
	if val, ok := e.lookup(name); ok {
		d, err := time.ParseDuration(val)
		if err != nil {
			e.fail(name, fmt.Sprintf("invalid duration %q", val))
			return
		}
		*dst = d
	}
}

func (e *envOverrides) boolean(name string, dst *bool) {
	if val, ok := e.lookup(name); ok {
		b, err := strconv.ParseBool(val)
		if err != nil {
			e.fail(name, fmt.Sprintf("invalid boolean %q", val))
			return
		}
		*dst = b
	}
}

func (e *envOverrides) integer(name string, dst *int) {
	if val, ok := e.lookup(name); ok {
		i, err := strconv.Atoi(val)
		if err != nil {
			e.fail(name, fmt.Sprintf("invalid integer %q", val))
			return
		}
		*dst = i
	}
}

func (e *envOverrides) int64(name string, dst *int64) {
	if val, ok := e.lookup(name); ok {
		i, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			e.fail(name, fmt.Sprintf("invalid integer %q", val))
			return
		}
		*dst = i
	}
}

func (e *envOverrides) float(name string, dst *float64) {
	if val, ok := e.lookup(name); ok {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			e.fail(name, fmt.Sprintf("invalid number %q", val))
			return
		}
		*dst = f
	}
}

// applyEnvOverrides applies VOICEBROKER_* variables to cfg.
func applyEnvOverrides(cfg *Config) error {
	e := &envOverrides{}

	// Server overrides
	e.str("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	e.duration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	e.duration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	e.duration("SERVER_IDLE_TIMEOUT", &cfg.Server.IdleTimeout)
	e.duration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)
	e.integer("SERVER_MAX_HEADER_BYTES", &cfg.Server.MaxHeaderBytes)
	e.int64("SERVER_MAX_BODY_BYTES", &cfg.Server.MaxBodyBytes)
	e.str("SERVER_STATIC_DIR", &cfg.Server.StaticDir)
	e.boolean("SERVER_CORS_ENABLED", &cfg.Server.CORS.Enabled)
	e.list("SERVER_CORS_ALLOWED_ORIGINS", &cfg.Server.CORS.AllowedOrigins)
	e.boolean("SERVER_TLS_ENABLED", &cfg.Server.TLS.Enabled)
	e.str("SERVER_TLS_CERT_FILE", &cfg.Server.TLS.CertFile)
	e.str("SERVER_TLS_KEY_FILE", &cfg.Server.TLS.KeyFile)
	e.str("SERVER_TLS_MIN_VERSION", &cfg.Server.TLS.MinVersion)

	// Store overrides
	e.str("STORE_BACKEND", &cfg.Store.Backend)
	e.str("STORE_PATH", &cfg.Store.Path)
	e.str("STORE_SQLITE_PATH", &cfg.Store.SQLite.Path)
	e.str("STORE_SQLITE_DRIVER", &cfg.Store.SQLite.Driver)
	e.str("STORE_SEED_FILE", &cfg.Store.SeedFile)
	e.boolean("STORE_EXPOSE_SECRETS", &cfg.Store.ExposeSecrets)
	e.boolean("STORE_WATCH", &cfg.Store.Watch)
	e.str("STORE_BACKUP_SCHEDULE", &cfg.Store.Backup.Schedule)
	e.str("STORE_BACKUP_DIR", &cfg.Store.Backup.Dir)
	e.integer("STORE_BACKUP_KEEP", &cfg.Store.Backup.Keep)

	// Upstream overrides
	e.duration("UPSTREAM_TIMEOUT", &cfg.Upstream.Timeout)
	e.str("UPSTREAM_SIGNALING_URL", &cfg.Upstream.Signaling.URL)
	e.duration("UPSTREAM_SIGNALING_TIMEOUT", &cfg.Upstream.Signaling.Timeout)
	e.int64("UPSTREAM_SIGNALING_MAX_BODY_BYTES", &cfg.Upstream.Signaling.MaxBodyBytes)
	e.str("UPSTREAM_LEGACY_BASE_URL", &cfg.Upstream.Legacy.BaseURL)
	e.str("UPSTREAM_LEGACY_TOKEN_PATH", &cfg.Upstream.Legacy.TokenPath)
	e.str("UPSTREAM_LEGACY_API_KEY", &cfg.Upstream.Legacy.APIKey)
	e.duration("UPSTREAM_LEGACY_TIMEOUT", &cfg.Upstream.Legacy.Timeout)

	// Broker overrides
	e.str("BROKER_DEFAULT_PROVIDER", &cfg.Broker.DefaultProvider)

	// Telemetry overrides
	e.str("TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	e.str("TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	e.boolean("TELEMETRY_LOGGING_ADD_SOURCE", &cfg.Telemetry.Logging.AddSource)
	e.boolean("TELEMETRY_LOGGING_REDACT", &cfg.Telemetry.Logging.Redact)
	e.boolean("TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	e.str("TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	e.boolean("TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	e.str("TELEMETRY_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	e.float("TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
	e.str("TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	e.boolean("TELEMETRY_TRACING_INSECURE", &cfg.Telemetry.Tracing.Insecure)
	e.str("TELEMETRY_TRACING_SERVICE_NAME", &cfg.Telemetry.Tracing.ServiceName)

	if len(e.errs) > 0 {
		return fmt.Errorf("invalid environment override: %w", ValidationError{Errors: e.errs})
	}
	return nil
}
