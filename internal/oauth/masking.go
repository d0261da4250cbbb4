package oauth

import "strings"

// MaskSecret masks a secret by showing the first 3 and last 4 characters.
// Values shorter than 9 characters are fully masked.
//
// Used when configurations or auth payloads are written to logs or command
// output for debugging.
func MaskSecret(secret string) string {
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:3] + "***" + secret[len(secret)-4:]
}

// RedactConfig returns a copy of a configuration document safe for display.
// String values under sensitive-looking keys are fully masked, other string
// values are partially masked, and nested objects are redacted recursively.
// Non-string values pass through unchanged.
func RedactConfig(config map[string]any) map[string]any {
	if len(config) == 0 {
		return config
	}

	redacted := make(map[string]any, len(config))
	for k, v := range config {
		switch val := v.(type) {
		case string:
			if containsSensitiveKeyword(k) {
				redacted[k] = "***"
			} else {
				redacted[k] = MaskSecret(val)
			}
		case map[string]any:
			redacted[k] = RedactConfig(val)
		default:
			redacted[k] = v
		}
	}
	return redacted
}

// containsSensitiveKeyword checks if a field name likely holds sensitive data
// based on common naming patterns for secrets.
func containsSensitiveKeyword(key string) bool {
	keyLower := strings.ToLower(key)
	sensitiveKeywords := []string{"key", "secret", "token", "password", "credential"}

	for _, keyword := range sensitiveKeywords {
		if strings.Contains(keyLower, keyword) {
			return true
		}
	}
	return false
}
