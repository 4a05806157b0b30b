package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/nerrad567/ouidb/internal/oui"
)

// Column positions in the upstream export. The header row is skipped, not
// consulted.
const (
	colRegistry = iota
	colAssignment
	colOrganizationName
	colOrganizationAddress

	minColumns
)

// Store turns a snapshot status into a loaded mapping.
type Store struct {
	// RebuildOnCorrupt re-parses the raw snapshot when the binary dump of a
	// Fresh snapshot cannot be decoded. When false the decode error is
	// returned wrapped in ErrCacheCorrupt.
	RebuildOnCorrupt bool

	// Logger receives diagnostics. Nil discards them.
	Logger Logger
}

// Load returns the mapping for status:
//
//   - Failed: an empty mapping and no error.
//   - Fresh: the binary dump, decoded without touching the raw snapshot.
//   - Refreshed: the raw snapshot parsed, then dumped as JSON and binary.
func (s *Store) Load(status SnapshotStatus, cache CacheState) (*oui.Mapping, error) {
	log := loggerOrNoop(s.Logger)

	switch status {
	case Failed:
		return oui.NewMapping(0), nil

	case Fresh:
		m, err := readMappingBinary(cache.BinaryPath())
		if err == nil {
			log.Debug("loaded binary dump", "path", cache.BinaryPath(), "records", m.Len())
			return m, nil
		}
		// A missing dump is an interrupted earlier run, not corruption.
		if !errors.Is(err, fs.ErrNotExist) && !s.RebuildOnCorrupt {
			return nil, fmt.Errorf("%w: %s: %w", ErrCacheCorrupt, cache.BinaryPath(), err)
		}
		log.Warn("binary dump unusable, rebuilding from snapshot", "path", cache.BinaryPath(), "error", err)
		return s.rebuild(cache)

	case Refreshed:
		return s.rebuild(cache)

	default:
		return nil, fmt.Errorf("registry: unknown snapshot status %d", int(status))
	}
}

// rebuild parses the raw snapshot and rewrites both dumps.
func (s *Store) rebuild(cache CacheState) (*oui.Mapping, error) {
	log := loggerOrNoop(s.Logger)

	f, err := os.Open(cache.SnapshotPath())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshotUnreadable, err)
	}
	defer f.Close()

	m, skipped, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSnapshotUnreadable, cache.SnapshotPath(), err)
	}
	if skipped > 0 {
		log.Warn("skipped malformed snapshot rows", "path", cache.SnapshotPath(), "rows", skipped)
	}

	if err := WriteJSON(cache.JSONPath(), m); err != nil {
		return nil, fmt.Errorf("writing json dump: %w", err)
	}
	if err := writeMappingBinary(cache.BinaryPath(), m); err != nil {
		return nil, fmt.Errorf("writing binary dump: %w", err)
	}

	log.Info("parsed registry snapshot", "path", cache.SnapshotPath(), "records", m.Len())
	return m, nil
}

// ParseCSV reads a registry export. The first row is a header and is
// skipped. Rows with fewer than four columns, or whose assignment does not
// normalize to six hex digits, are skipped and counted. Later duplicates of
// a key replace the earlier record in place.
func ParseCSV(r io.Reader) (*oui.Mapping, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	m := oui.NewMapping(0)
	skipped := 0
	header := true

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, skipped, err
		}
		if header {
			header = false
			continue
		}
		if len(row) < minColumns {
			skipped++
			continue
		}

		rec := oui.Record{
			Registry:            strings.TrimSpace(row[colRegistry]),
			Assignment:          strings.TrimSpace(row[colAssignment]),
			OrganizationName:    strings.TrimSpace(row[colOrganizationName]),
			OrganizationAddress: strings.TrimSpace(row[colOrganizationAddress]),
		}
		key := oui.AssignmentKey(rec.Assignment)
		if !oui.IsKey(key) {
			skipped++
			continue
		}
		m.Set(key, rec)
	}

	return m, skipped, nil
}
