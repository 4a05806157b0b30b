package lookup

import "errors"

var (
	// ErrMissingRequestID is returned for a request topic without a trailing id.
	ErrMissingRequestID = errors.New("lookup: request topic has no request id")

	// ErrNotStarted is returned when publishing before Start.
	ErrNotStarted = errors.New("lookup: bridge not started")
)

// Error codes carried in failed responses.
const (
	ErrCodeInvalidPayload = "invalid_payload"
	ErrCodeInvalidMAC     = "invalid_mac"
)
