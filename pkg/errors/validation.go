package errors

import (
	"strings"
	"unicode"
)

// MaxGenerations bounds the generation count accepted from users. An ancestor
// tree grows as 2^(generations-1), so anything larger is unrenderable anyway.
const MaxGenerations = 16

// ValidateXref validates a person identifier for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No whitespace or control characters
//   - Maximum length of 64 characters (the storage column width)
func ValidateXref(xref string) error {
	if xref == "" {
		return New(ErrCodeInvalidXref, "identifier cannot be empty")
	}

	if len(xref) > 64 {
		return New(ErrCodeInvalidXref, "identifier too long (max 64 characters): %q", xref[:16]+"...")
	}

	for _, r := range xref {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidXref, "identifier contains whitespace or control characters: %q", xref)
		}
	}

	return nil
}

// ValidateGenerations checks that a generation count is in 1..MaxGenerations.
func ValidateGenerations(n int) error {
	if n < 1 {
		return New(ErrCodeInvalidGenerations, "generations must be at least 1, got %d", n)
	}
	if n > MaxGenerations {
		return New(ErrCodeInvalidGenerations, "generations must be at most %d, got %d", MaxGenerations, n)
	}
	return nil
}

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.TrimSpace(path) != path {
		return New(ErrCodeInvalidPath, "path has leading or trailing whitespace")
	}

	return nil
}
