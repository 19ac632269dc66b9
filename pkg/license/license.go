package license

import (
	"strings"
)

// Unknown is returned when a manifest carries no usable license value.
const Unknown = "UNKNOWN"

// Normalize converts a single manifest license value into a license string.
// Strings are used as is, objects contribute their "type" field, and
// anything else (including empty values) yields [Unknown].
func Normalize(value any) string {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case map[string]any:
		s = extractField(v, "type")
	}
	if s == "" {
		return Unknown
	}
	return s
}

// normalizeManifest picks the license out of the "license" and legacy
// "licenses" fields. A non-empty "license" always wins.
func normalizeManifest(license any, licenses any) string {
	if present(license) {
		return Normalize(license)
	}
	list, ok := licenses.([]any)
	if !ok || len(list) == 0 {
		return Unknown
	}
	if len(list) == 1 {
		return Normalize(list[0])
	}
	parts := make([]string, len(list))
	for i, l := range list {
		parts[i] = Normalize(l)
	}
	return strings.Join(parts, ";")
}

// SplitAnd rewrites an SPDX "AND" expression into a semicolon-separated
// list, removing one layer of enclosing parentheses. Values without " AND "
// are returned unchanged.
func SplitAnd(l string) string {
	if !strings.Contains(l, " AND ") {
		return l
	}
	l = strings.TrimSpace(l)
	l = strings.TrimPrefix(l, "(")
	l = strings.TrimSuffix(l, ")")
	return strings.ReplaceAll(l, " AND ", ";")
}

// present reports whether a decoded JSON value counts as set: non-empty
// strings and any non-null, non-false value.
func present(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	default:
		return true
	}
}

func extractField(v any, field string) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if s, ok := val[field].(string); ok {
			return s
		}
	}
	return ""
}
