package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad listen address", func(c *Config) { c.Server.ListenAddress = "8001" }, "server.listen_address"},
		{"negative timeout", func(c *Config) { c.Server.ReadTimeout = -1 }, "server.read_timeout"},
		{"huge headers", func(c *Config) { c.Server.MaxHeaderBytes = 11 << 20 }, "server.max_header_bytes"},
		{"tls without cert", func(c *Config) { c.Server.TLS.Enabled = true; c.Server.TLS.KeyFile = "k.pem" }, "server.tls.cert_file"},
		{"tls without key", func(c *Config) { c.Server.TLS.Enabled = true; c.Server.TLS.CertFile = "c.pem" }, "server.tls.key_file"},
		{"tls version", func(c *Config) { c.Server.TLS.MinVersion = "1.1" }, "server.tls.min_version"},
		{"credentials with wildcard", func(c *Config) { c.Server.CORS.AllowCredentials = true }, "server.cors.allow_credentials"},
		{"sqlite driver", func(c *Config) { c.Store.Backend = "sqlite"; c.Store.SQLite.Driver = "pg" }, "store.sqlite.driver"},
		{"watch needs file", func(c *Config) { c.Store.Backend = "memory"; c.Store.Watch = true }, "store.watch"},
		{"negative keep", func(c *Config) { c.Store.Backup.Keep = -1 }, "store.backup.keep"},
		{"signaling url scheme", func(c *Config) { c.Upstream.Signaling.URL = "ftp://x/offer" }, "upstream.signaling.url"},
		{"legacy url host", func(c *Config) { c.Upstream.Legacy.BaseURL = "https://" }, "upstream.legacy.base_url"},
		{"log level", func(c *Config) { c.Telemetry.Logging.Level = "trace" }, "telemetry.logging.level"},
		{"log format", func(c *Config) { c.Telemetry.Logging.Format = "console" }, "telemetry.logging.format"},
		{"metrics path", func(c *Config) { c.Telemetry.Metrics.Path = "metrics" }, "telemetry.metrics.path"},
		{"sample ratio", func(c *Config) { c.Telemetry.Tracing.SampleRatio = 1.5 }, "telemetry.tracing.sample_ratio"},
		{"tracing endpoint", func(c *Config) { c.Telemetry.Tracing.Enabled = true }, "telemetry.tracing.endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}

			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want ValidationError", err)
			}
			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not include field %q", verr.Errors, tt.wantField)
			}
		})
	}
}

func TestValidationError_Format(t *testing.T) {
	one := ValidationError{Errors: []FieldError{{"a", "bad"}}}
	if one.Error() != "a: bad" {
		t.Errorf("Error() = %q", one.Error())
	}

	two := ValidationError{Errors: []FieldError{{"a", "bad"}, {"b", "worse"}}}
	if !strings.HasPrefix(two.Error(), "2 errors:") || !strings.Contains(two.Error(), "  - b: worse") {
		t.Errorf("Error() = %q", two.Error())
	}
}
