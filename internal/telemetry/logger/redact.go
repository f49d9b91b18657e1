package logger

import (
	"log/slog"
	"strings"
)

// Sensitive value prefixes, partially masked when logged.
var sensitiveValuePrefixes = []string{
	"sbss-", // session id
	"sbsk_", // cookie seal key
}

// Key name fragments whose string values are fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"seal_key",
	"credential",
}

const redactedValue = "***REDACTED***"

// redactSensitive redacts an attribute when either its value carries a
// known sensitive prefix or its key suggests sensitive content.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		for _, prefix := range sensitiveValuePrefixes {
			if strings.HasPrefix(strVal, prefix) {
				return slog.String(a.Key, maskValue(strVal, prefix))
			}
		}

		keyLower := strings.ToLower(a.Key)
		for _, pattern := range sensitiveKeyPatterns {
			if strings.Contains(keyLower, pattern) {
				if strVal != "" {
					return slog.String(a.Key, redactedValue)
				}
				break
			}
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// maskValue keeps the prefix plus three leading and trailing characters.
func maskValue(value, prefix string) string {
	body := value[len(prefix):]
	if len(body) > 6 {
		return prefix + body[:3] + "..." + body[len(body)-3:]
	}
	return prefix + "***"
}

// RedactString manually masks a value known to be sensitive. Use when a
// value must be mentioned in an error message rather than a log attr.
func RedactString(value string) string {
	for _, prefix := range sensitiveValuePrefixes {
		if strings.HasPrefix(value, prefix) {
			return maskValue(value, prefix)
		}
	}
	return value
}
