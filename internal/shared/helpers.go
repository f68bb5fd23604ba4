// Package shared provides common utility functions used across multiple
// packages in the depwarden codebase.
package shared

import (
	"fmt"
	"regexp"
	"strings"
)

var pipNameSeparators = regexp.MustCompile(`[-_.]+`)

// NormalizePipName lowercases a Python package name and collapses runs of
// hyphens, underscores and dots into a single hyphen, following PEP 503
// normalization.
func NormalizePipName(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	return pipNameSeparators.ReplaceAllString(lower, "-")
}

// StripExtras removes a PEP 508 extras suffix, e.g. "requests[socks]"
// becomes "requests".
func StripExtras(name string) string {
	if idx := strings.IndexByte(name, '['); idx >= 0 {
		return name[:idx]
	}
	return name
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}
