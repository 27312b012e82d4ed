package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxNodeNameLength bounds node names accepted from forms and the HTTP API.
const MaxNodeNameLength = 64

// ValidateNodeName rejects names that are unusable as a join key or as a
// Graphviz identifier. Emptiness and uniqueness are the store's concern and
// are not checked here. Surrounding whitespace is ignored, as the store
// trims it.
func ValidateNodeName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) > MaxNodeNameLength {
		return New(ErrCodeInvalidInput, "node name too long (max %d characters)", MaxNodeNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node name contains control characters")
		}
	}
	if strings.ContainsAny(name, `"\`) {
		return New(ErrCodeInvalidInput, "node name cannot contain quotes or backslashes")
	}
	return nil
}

// Topology file formats recognized by extension.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// TopologyFormat returns the format for a topology file path based on its
// extension.
func TopologyFormat(path string) (string, error) {
	if path == "" {
		return "", New(ErrCodeInvalidInput, "topology path cannot be empty")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", New(ErrCodeInvalidFormat, "unsupported topology file %q (want .json, .yaml or .yml)", filepath.Base(path))
	}
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
