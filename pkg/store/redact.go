package store

import (
	"strings"

	"sycoraxai/voicebroker/pkg/providers"
)

const redactedPrefix = "****"

// IsSecretField reports whether a setting name holds a credential.
func IsSecretField(name string) bool {
	n := strings.ToLower(name)
	switch n {
	case providers.FieldAPIKey, providers.FieldAPISecret, "password", "secret", "token":
		return true
	}
	return strings.HasSuffix(n, "_secret") ||
		strings.HasSuffix(n, "_token") ||
		strings.HasSuffix(n, "_password") ||
		strings.HasSuffix(n, "_api_key")
}

// Redact returns a copy of doc with secret values masked. The last four
// characters are kept so operators can tell keys apart. Placeholders are left
// as they are since they carry no secret.
func Redact(doc Document) Document {
	out := doc.Clone()
	for _, cfg := range out {
		redactMap(cfg)
	}
	return out
}

func redactMap(m map[string]any) {
	for k, v := range m {
		switch val := v.(type) {
		case string:
			if IsSecretField(k) && !providers.IsPlaceholder(val) {
				m[k] = MaskSecret(val)
			}
		case map[string]any:
			redactMap(val)
		case providers.Config:
			redactMap(val)
		case []any:
			for _, item := range val {
				if nested, ok := item.(map[string]any); ok {
					redactMap(nested)
				}
			}
		}
	}
}

// MaskSecret masks all but the last four characters of s.
func MaskSecret(s string) string {
	if len(s) <= 8 {
		return redactedPrefix
	}
	return redactedPrefix + s[len(s)-4:]
}
