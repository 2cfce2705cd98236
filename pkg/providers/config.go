package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Well-known setting keys shared by several providers.
const (
	FieldAPIKey    = "api_key"
	FieldAPISecret = "api_secret"
	FieldBaseURL   = "base_url"
	FieldServerURL = "server_url"
	FieldAgentID   = "agent_id"
	FieldMode      = "mode"
)

// Config holds the settings of one provider as stored in the configuration
// store. Values are kept as decoded JSON so that arbitrary provider-specific
// structures (conversation seeds, data inputs) survive a round trip unchanged.
type Config map[string]any

// String returns the setting as a string. Non-string values are formatted
// with fmt; a missing key yields "".
func (c Config) String(key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Bool returns the setting as a bool, accepting JSON booleans and the
// strings "true"/"false".
func (c Config) Bool(key string) bool {
	switch v := c[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}

// Duration returns the setting parsed as a Go duration or as a number of
// seconds. def is returned when the key is missing or unparsable.
func (c Config) Duration(key string, def time.Duration) time.Duration {
	switch v := c[key].(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return time.Duration(f * float64(time.Second))
		}
	case float64:
		return time.Duration(v * float64(time.Second))
	case int:
		return time.Duration(v) * time.Second
	}
	return def
}

// Value returns the raw setting.
func (c Config) Value(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// Configured reports whether the setting is present and not a placeholder.
func (c Config) Configured(key string) bool {
	v, ok := c[key]
	if !ok || v == nil {
		return false
	}
	s, isString := v.(string)
	if !isString {
		return true
	}
	return !IsPlaceholder(s)
}

// Missing returns the keys from fields that are absent or placeholders.
func (c Config) Missing(fields ...string) []string {
	var missing []string
	for _, f := range fields {
		if !c.Configured(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// Clone returns a deep copy of the config. Nested maps and slices are
// copied through a JSON round trip so callers can mutate the result freely.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		out := make(Config, len(c))
		for k, v := range c {
			out[k] = v
		}
		return out
	}
	var out Config
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil
	}
	return out
}

// WithDefaults returns a copy of c where keys missing from c are filled from
// defaults.
func (c Config) WithDefaults(defaults Config) Config {
	out := c.Clone()
	if out == nil {
		out = Config{}
	}
	for k, v := range defaults.Clone() {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// IsPlaceholder reports whether value is a "not configured" sentinel: the
// empty string or a value of the form YOUR_..._HERE.
func IsPlaceholder(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return true
	}
	return strings.HasPrefix(v, "YOUR_") && strings.HasSuffix(v, "_HERE")
}

// Placeholder returns the canonical sentinel for a provider field,
// e.g. Placeholder("livekit", "api_key") == "YOUR_LIVEKIT_API_KEY_HERE".
func Placeholder(provider, field string) string {
	return "YOUR_" + strings.ToUpper(provider) + "_" + strings.ToUpper(field) + "_HERE"
}
