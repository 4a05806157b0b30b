package registry

import (
	"context"
	"fmt"
	"time"
)

// Options configures Open.
type Options struct {
	// SourceURL is the registry export to download.
	SourceURL string

	// Cache locates the snapshot and its dumps.
	Cache CacheState

	// Fetcher performs the freshness check. Nil uses a zero Fetcher.
	Fetcher *Fetcher

	// Store loads the mapping. Nil uses a Store that rebuilds on corruption.
	Store *Store

	// Logger is used when Fetcher or Store are nil.
	Logger Logger
}

// Metadata describes how a registry was obtained.
type Metadata struct {
	Records          int            `json:"records"`
	Organizations    int            `json:"organizations"`
	SourceURL        string         `json:"source_url"`
	SnapshotModified time.Time      `json:"snapshot_modified,omitzero"`
	FromCache        bool           `json:"from_cache"`
	Status           SnapshotStatus `json:"status"`
	FetchErr         error          `json:"-"`
	LoadDuration     time.Duration  `json:"load_duration"`
}

// Usable reports whether the registry holds any records. A failed fetch
// yields an empty, unusable registry.
func (m Metadata) Usable() bool {
	return m.Records > 0
}

// FetchError returns the fetch failure message, or "" when the fetch did
// not fail.
func (m Metadata) FetchError() string {
	if m.FetchErr == nil {
		return ""
	}
	return m.FetchErr.Error()
}

// Open makes sure the snapshot is fresh, loads it and returns a query
// engine over the result.
//
// A failed download is not an error: the engine is empty and
// Metadata.FetchErr holds the cause. Errors are returned only for store
// faults such as an unreadable snapshot or a corrupt cache with rebuilding
// disabled.
//
// Parameters:
//   - ctx: Cancels the download; loading from disk ignores it
//   - opts: Source URL, cache location and optional Fetcher/Store
//
// Returns:
//   - *Engine: Query engine, empty when no snapshot could be obtained
//   - Metadata: Record counts, snapshot status and any fetch failure
//   - error: Store faults only
func Open(ctx context.Context, opts Options) (*Engine, Metadata, error) {
	start := time.Now()

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = &Fetcher{Logger: opts.Logger}
	}
	store := opts.Store
	if store == nil {
		store = &Store{RebuildOnCorrupt: true, Logger: opts.Logger}
	}

	meta := Metadata{SourceURL: opts.SourceURL}

	status, fetchErr := fetcher.EnsureFreshSnapshot(ctx, opts.SourceURL, opts.Cache)
	meta.Status = status
	meta.FetchErr = fetchErr
	meta.FromCache = status == Fresh

	m, err := store.Load(status, opts.Cache)
	if err != nil {
		return nil, meta, fmt.Errorf("loading registry: %w", err)
	}

	if status != Failed {
		if mod, ok, err := opts.Cache.SnapshotModTime(); err == nil && ok {
			meta.SnapshotModified = mod
		}
	}

	engine := NewEngine(m, opts.SourceURL)
	meta.Records = engine.RecordCount()
	meta.Organizations = engine.OrganizationCount()
	meta.LoadDuration = time.Since(start)

	return engine, meta, nil
}
