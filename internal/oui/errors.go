package oui

import "errors"

// Domain errors for the oui package.
var (
	// ErrInvalidMAC is returned when a MAC address does not match an accepted format.
	ErrInvalidMAC = errors.New("oui: invalid MAC address")

	// ErrInvalidText is returned when a free-text query value contains
	// characters outside the accepted set.
	ErrInvalidText = errors.New("oui: invalid query text")
)
