package errors

import (
	"strings"
	"unicode"
)

// ValidatePackageName validates a package name before it is used to build
// a filesystem path. Scoped names ("@scope/name") are allowed; anything that
// could climb out of the output directory is not.
//
// Rules:
//   - No empty names
//   - No control characters or null bytes
//   - No path traversal sequences (..), double slashes or backslashes
//   - No absolute paths
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	if strings.HasPrefix(name, "/") {
		return New(ErrCodeInvalidPackage, "package name cannot be an absolute path: %q", name)
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateVersion validates a version string used as a path component.
// Versions are single path segments, so separators are rejected outright.
func ValidateVersion(version string) error {
	if version == "" {
		return New(ErrCodeInvalidPackage, "version cannot be empty")
	}
	if version == "." || version == ".." || strings.ContainsAny(version, "/\\\x00") {
		return New(ErrCodeInvalidPackage, "version is not a valid path segment: %q", version)
	}
	for _, r := range version {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "version contains invalid control characters")
		}
	}
	return nil
}
