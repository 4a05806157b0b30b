package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultTTL is the snapshot freshness window.
const DefaultTTL = 24 * time.Hour

// DefaultUserAgent is sent when the Fetcher has none configured. The IEEE
// front end rejects Go's default agent.
const DefaultUserAgent = "Mozilla/5.0"

// SnapshotStatus is the outcome of EnsureFreshSnapshot.
type SnapshotStatus int

const (
	// Fresh means the local snapshot is younger than the TTL; no request was made.
	Fresh SnapshotStatus = iota + 1

	// Refreshed means a new snapshot was downloaded and written.
	Refreshed

	// Failed means the download was attempted and did not succeed.
	Failed
)

// String returns the lower-case status name used in logs, metrics and the API.
func (s SnapshotStatus) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Refreshed:
		return "refreshed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s SnapshotStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Fetcher keeps the local registry snapshot no older than TTL.
//
// It makes at most one HTTP request per call and never retries. The zero
// value is usable: it uses http.DefaultClient, DefaultUserAgent, DefaultTTL
// and the wall clock.
type Fetcher struct {
	// Client performs the download. Nil means http.DefaultClient.
	Client *http.Client

	// UserAgent is sent with the request. Empty means DefaultUserAgent.
	UserAgent string

	// TTL is the freshness window. Zero means DefaultTTL.
	TTL time.Duration

	// Now returns the current time. Nil means time.Now.
	Now func() time.Time

	// Force downloads even when the snapshot is still fresh.
	Force bool

	// Logger receives diagnostics. Nil discards them.
	Logger Logger
}

// EnsureFreshSnapshot downloads sourceURL into cache.SnapshotPath() unless
// the existing snapshot is younger than the TTL.
//
// The returned error is non-nil exactly when the status is Failed; it wraps
// ErrFetchFailed. A failed download leaves any previous snapshot untouched.
func (f *Fetcher) EnsureFreshSnapshot(ctx context.Context, sourceURL string, cache CacheState) (SnapshotStatus, error) {
	log := loggerOrNoop(f.Logger)

	modTime, exists, err := cache.SnapshotModTime()
	if err != nil {
		log.Warn("cannot stat snapshot, refetching", "path", cache.SnapshotPath(), "error", err)
	}

	if exists && !f.Force {
		age := f.now().Sub(modTime)
		if age < f.ttl() {
			log.Debug("snapshot is fresh", "path", cache.SnapshotPath(), "age", age.Round(time.Second))
			return Fresh, nil
		}
		log.Info("snapshot is stale", "path", cache.SnapshotPath(), "age", age.Round(time.Second))
	}

	if err := f.download(ctx, sourceURL, cache.SnapshotPath()); err != nil {
		log.Error("snapshot fetch failed", "url", sourceURL, "error", err)
		return Failed, err
	}

	log.Info("snapshot refreshed", "url", sourceURL, "path", cache.SnapshotPath())
	return Refreshed, nil
}

func (f *Fetcher) download(ctx context.Context, sourceURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return fmt.Errorf("%w: building request: %w", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", f.userAgent())

	resp, err := f.client().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse
		return fmt.Errorf("%w: %s returned %s", ErrFetchFailed, sourceURL, resp.Status)
	}

	err = writeFileFromAtomic(path, func(dst *os.File) error {
		if _, err := io.Copy(dst, resp.Body); err != nil {
			return fmt.Errorf("reading response body: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return nil
}

func (f *Fetcher) client() *http.Client {
	if f.Client == nil {
		return http.DefaultClient
	}
	return f.Client
}

func (f *Fetcher) userAgent() string {
	if f.UserAgent == "" {
		return DefaultUserAgent
	}
	return f.UserAgent
}

func (f *Fetcher) ttl() time.Duration {
	if f.TTL <= 0 {
		return DefaultTTL
	}
	return f.TTL
}

func (f *Fetcher) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}
