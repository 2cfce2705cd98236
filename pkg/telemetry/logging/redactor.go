package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Redactor scrubs credentials from log attributes. Attributes whose key
// names a secret are masked outright; other string values are scanned for
// bearer tokens, JWTs and provider API keys.
type Redactor struct {
	patterns []redactPattern
}

type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// sensitiveKeys are matched as substrings of the lower-cased attribute key.
var sensitiveKeys = []string{
	"api_key", "apikey", "api_secret",
	"secret", "token", "password",
	"authorization",
}

// NewRedactor creates a Redactor with the built-in patterns.
func NewRedactor() *Redactor {
	return &Redactor{
		patterns: []redactPattern{
			{
				regex:       regexp.MustCompile(`Bearer\s+[A-Za-z0-9\-._~+/]+=*`),
				replacement: "Bearer ***",
			},
			{
				// Three base64url segments starting with a JSON header.
				regex:       regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`),
				replacement: "***jwt***",
			},
			{
				regex:       regexp.MustCompile(`\b(sk|key)[_-][A-Za-z0-9_]{8,}`),
				replacement: "$1_***",
			},
		},
	}
}

// RedactString applies the value patterns to s.
func (r *Redactor) RedactString(s string) string {
	if s == "" {
		return s
	}
	for _, p := range r.patterns {
		s = p.regex.ReplaceAllString(s, p.replacement)
	}
	return s
}

// ReplaceAttr is an slog.HandlerOptions.ReplaceAttr hook.
func (r *Redactor) ReplaceAttr(_ []string, a slog.Attr) slog.Attr {
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, maskValue(a.Value))
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, r.RedactString(a.Value.String()))
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, r.RedactString(err.Error()))
		}
	}
	return a
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// maskValue keeps the last four characters of long strings as a hint.
func maskValue(v slog.Value) string {
	if v.Kind() != slog.KindString {
		return "***"
	}
	s := v.String()
	switch {
	case s == "":
		return ""
	case len(s) <= 8:
		return "***"
	default:
		return "***" + s[len(s)-4:]
	}
}
