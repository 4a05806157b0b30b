package registry

import "errors"

// Domain errors for the registry package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(meta.FetchErr, registry.ErrFetchFailed) {
//	    // the registry is empty for this session
//	}
var (
	// ErrFetchFailed is returned when the single download attempt fails,
	// either on transport or because the server answered with a non-200 status.
	ErrFetchFailed = errors.New("registry: snapshot fetch failed")

	// ErrCacheCorrupt is returned when the binary dump cannot be decoded and
	// rebuilding from the raw snapshot is disabled.
	ErrCacheCorrupt = errors.New("registry: binary cache corrupt")

	// ErrSnapshotUnreadable is returned when the raw snapshot cannot be read
	// or parsed.
	ErrSnapshotUnreadable = errors.New("registry: snapshot unreadable")

	// ErrUnsupportedDump is returned when a binary dump was written by an
	// incompatible format version.
	ErrUnsupportedDump = errors.New("registry: unsupported dump version")
)
