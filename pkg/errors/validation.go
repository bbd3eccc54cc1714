package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// maxNodeIDLength bounds identifiers that end up in DOT sources and cache keys.
const maxNodeIDLength = 256

// ValidateNodeID validates a node identifier from a problem document.
//
// The rules are conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No double quotes (they would terminate DOT identifiers)
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidProblem, "node id cannot be empty")
	}

	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidProblem, "node id too long (max %d characters)", maxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidProblem, "node id %q contains invalid control characters", id)
		}
	}

	if strings.ContainsRune(id, '"') {
		return New(ErrCodeInvalidProblem, "node id %q cannot contain double quotes", id)
	}

	return nil
}

// ValidateFinite rejects NaN and infinite values for the named field.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be a finite number, got %v", field, v)
	}
	return nil
}

// layoutIDRegex matches stored layout identifiers (canonical UUIDs).
var layoutIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateLayoutID validates an identifier used to address a stored layout.
func ValidateLayoutID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "layout id cannot be empty")
	}
	if !layoutIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid layout id: %q", id)
	}
	return nil
}

// ValidateFilename validates a download filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file")
	}

	for _, r := range filename {
		if unicode.IsControl(r) || r == '"' {
			return New(ErrCodeInvalidPath, "filename contains invalid characters")
		}
	}

	return nil
}
