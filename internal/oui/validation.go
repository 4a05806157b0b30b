package oui

import (
	"fmt"
	"regexp"
)

// Validation patterns for collaborator-facing input.
const (
	// macPattern accepts six hex pairs joined by a single, consistent
	// delimiter (colon or hyphen). RE2 has no back-references, so each
	// delimiter gets its own alternative.
	macPattern = `^(?:(?:[0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}|(?:[0-9A-Fa-f]{2}-){5}[0-9A-Fa-f]{2})$`

	// textPattern accepts ASCII letters, digits and whitespace.
	textPattern = `^[a-zA-Z0-9\s]+$`

	// registryPattern extends textPattern with '-' because every registry
	// code published by the IEEE (MA-L, MA-M, MA-S, ...) contains one.
	registryPattern = `^[a-zA-Z0-9\s-]+$`
)

var (
	macRegex      = regexp.MustCompile(macPattern)
	textRegex     = regexp.MustCompile(textPattern)
	registryRegex = regexp.MustCompile(registryPattern)
)

// ValidMAC reports whether mac is XX:XX:XX:XX:XX:XX or XX-XX-XX-XX-XX-XX.
func ValidMAC(mac string) bool {
	return macRegex.MatchString(mac)
}

// ValidText reports whether s is a non-empty alphanumeric-and-space string,
// the format accepted for organisation and assignment queries.
func ValidText(s string) bool {
	return textRegex.MatchString(s)
}

// ValidRegistry reports whether s is acceptable as a registry query.
func ValidRegistry(s string) bool {
	return registryRegex.MatchString(s)
}

// ValidateMAC returns ErrInvalidMAC wrapped with the offending value.
func ValidateMAC(mac string) error {
	if !ValidMAC(mac) {
		return fmt.Errorf("%w: %q", ErrInvalidMAC, mac)
	}
	return nil
}

// ValidateFilter checks every non-empty field of f.
func ValidateFilter(f Filter) error {
	if f.Organization != "" && !ValidText(f.Organization) {
		return fmt.Errorf("%w: organization %q", ErrInvalidText, f.Organization)
	}
	if f.Assignment != "" && !ValidText(f.Assignment) {
		return fmt.Errorf("%w: assignment %q", ErrInvalidText, f.Assignment)
	}
	if f.Registry != "" && !ValidRegistry(f.Registry) {
		return fmt.Errorf("%w: registry %q", ErrInvalidText, f.Registry)
	}
	return nil
}
