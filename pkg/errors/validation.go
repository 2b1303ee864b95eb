package errors

import (
	"strings"
	"unicode"
)

// MaxIdentifierLength bounds object IDs and package names.
const MaxIdentifierLength = 512

// ValidateObjectID validates an object ID read from an external model.
//
// IDs must be non-empty, at most [MaxIdentifierLength] bytes, and free of
// control characters. Renderers derive aliases and node names from IDs, so a
// newline would break their output.
func ValidateObjectID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidModel, "object id cannot be empty")
	}
	if len(id) > MaxIdentifierLength {
		return New(ErrCodeInvalidModel, "object id too long (max %d characters)", MaxIdentifierLength)
	}
	if hasControl(id) {
		return New(ErrCodeInvalidModel, "object id %q contains control characters", id)
	}
	return nil
}

// ValidatePackageName validates a package name. The empty name is allowed
// and denotes the default package.
func ValidatePackageName(name string) error {
	if len(name) > MaxIdentifierLength {
		return New(ErrCodeInvalidModel, "package name too long (max %d characters)", MaxIdentifierLength)
	}
	if hasControl(name) {
		return New(ErrCodeInvalidModel, "package name %q contains control characters", name)
	}
	for _, pattern := range []string{"..", "//"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidModel, "package name %q contains %q", name, pattern)
		}
	}
	return nil
}

// ValidateTitle validates a diagram title. Titles are written verbatim into
// single-line directives, so line breaks are rejected.
func ValidateTitle(title string) error {
	const maxTitleLength = 200
	if len(title) > maxTitleLength {
		return New(ErrCodeInvalidInput, "title too long (max %d characters)", maxTitleLength)
	}
	if hasControl(title) {
		return New(ErrCodeInvalidInput, "title contains control characters")
	}
	return nil
}

func hasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
