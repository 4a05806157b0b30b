package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// File extensions of the snapshot triple.
const (
	SnapshotExt = ".csv"
	JSONExt     = ".json"
	BinaryExt   = ".mpk"
)

// CacheState names the on-disk location of a snapshot and its derived dumps.
//
// The zero value is not usable; construct it with NewCacheState. A CacheState
// is a plain value: tests point it at t.TempDir().
type CacheState struct {
	Dir      string
	Basename string
}

// NewCacheState returns the cache state for basename inside dir.
func NewCacheState(dir, basename string) CacheState {
	return CacheState{Dir: dir, Basename: basename}
}

// SnapshotPath is the raw registry export (<basename>.csv).
func (c CacheState) SnapshotPath() string {
	return c.path(SnapshotExt)
}

// JSONPath is the human-readable dump (<basename>.json).
func (c CacheState) JSONPath() string {
	return c.path(JSONExt)
}

// BinaryPath is the fast-reload dump (<basename>.mpk).
func (c CacheState) BinaryPath() string {
	return c.path(BinaryExt)
}

func (c CacheState) path(ext string) string {
	return filepath.Join(c.Dir, c.Basename+ext)
}

// WithBasename returns a cache state in the same directory under another
// basename. The IoT manufacturer dumps live next to the registry snapshot.
func (c CacheState) WithBasename(basename string) CacheState {
	return CacheState{Dir: c.Dir, Basename: basename}
}

// SnapshotModTime returns the snapshot's modification time. The boolean is
// false when no snapshot exists.
func (c CacheState) SnapshotModTime() (time.Time, bool, error) {
	info, err := os.Stat(c.SnapshotPath())
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("stat snapshot: %w", err)
	}
	return info.ModTime(), true, nil
}

// writeFileAtomic writes data to a temporary sibling of path and renames it
// into place, creating the parent directory when needed.
func writeFileAtomic(path string, data []byte) error {
	return writeFileFromAtomic(path, func(f *os.File) error {
		_, err := f.Write(data)
		return err
	})
}

func writeFileFromAtomic(path string, fill func(*os.File) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := fill(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
