package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxInputSize bounds the documents accepted from files and the HTTP API.
const MaxInputSize = 4 << 20

// ValidateInput checks a raw document before decoding.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only input
//   - Maximum size of [MaxInputSize] bytes
//   - No null bytes
func ValidateInput(data []byte) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return New(ErrCodeEmptyInput, "input is empty")
	}
	if len(data) > MaxInputSize {
		return New(ErrCodeInvalidInput, "input too large (max %d bytes)", MaxInputSize)
	}
	if slices.Contains(data, 0) {
		return New(ErrCodeInvalidInput, "input contains null bytes")
	}
	return nil
}

// ValidateFormat checks that format is one of allowed. Comparison ignores
// case.
func ValidateFormat(format string, allowed ...string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	for _, a := range allowed {
		if strings.EqualFold(format, a) {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unknown format %q (want one of %s)", format, strings.Join(allowed, ", "))
}

// ValidatePath validates an output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateCacheKey rejects keys that could escape a cache directory or
// collide with backend syntax.
func ValidateCacheKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidInput, "cache key cannot be empty")
	}
	if len(key) > 256 {
		return New(ErrCodeInvalidInput, "cache key too long (max 256 characters)")
	}
	for _, r := range key {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "cache key contains invalid characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(key, pattern) {
			return New(ErrCodeInvalidInput, "cache key contains invalid characters: %q", pattern)
		}
	}
	return nil
}
