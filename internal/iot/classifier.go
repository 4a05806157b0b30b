package iot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nerrad567/ouidb/internal/oui"
	"github.com/nerrad567/ouidb/internal/registry"
)

// DefaultBasename names the manufacturer dumps inside the cache directory.
const DefaultBasename = "iot_manufacturers"

// dumpVersion is bumped whenever the binary dump layout changes.
const dumpVersion = 1

// Verdict is the outcome of IsIoTMAC.
type Verdict int

const (
	// Unknown means the address was malformed.
	Unknown Verdict = iota

	// IoT means the vendor is a suspected IoT manufacturer.
	IoT

	// NotIoT means the vendor is not classified, or the OUI is unregistered.
	NotIoT
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case IoT:
		return "iot"
	case NotIoT:
		return "not_iot"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Known reports whether the verdict carries an answer.
func (v Verdict) Known() bool {
	return v != Unknown
}

// ManufacturerSet is a set of organisation names.
type ManufacturerSet map[string]struct{}

// Contains reports whether name is in the set, exactly.
func (s ManufacturerSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of names.
func (s ManufacturerSet) Len() int {
	return len(s)
}

// Sorted returns the names in ascending order.
func (s ManufacturerSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Matches reports whether name, ignoring case, is a substring of any
// classified name.
func (s ManufacturerSet) Matches(name string) bool {
	if s.Contains(name) {
		return true
	}
	needle := strings.ToLower(name)
	for classified := range s {
		if strings.Contains(strings.ToLower(classified), needle) {
			return true
		}
	}
	return false
}

// VerdictFor classifies mac against a precomputed set. It answers like
// IsIoTMAC but leaves the dumps untouched, which is what long-running
// servers want once Classify has run at load time.
func (s ManufacturerSet) VerdictFor(mac string, engine *registry.Engine) Verdict {
	if !oui.ValidMAC(mac) {
		return Unknown
	}
	if s.Matches(engine.OrganizationName(mac)) {
		return IoT
	}
	return NotIoT
}

// manufacturerDump is the msgpack payload of the binary dump.
type manufacturerDump struct {
	Version int      `msgpack:"version"`
	Names   []string `msgpack:"names"`
}

// Logger defines the logging interface used by the Classifier.
type Logger = registry.Logger

// Classifier derives the IoT manufacturer set and persists it.
type Classifier struct {
	cache    registry.CacheState
	keywords []string
	logger   Logger
}

// NewClassifier creates a classifier that writes its dumps to cache.
func NewClassifier(cache registry.CacheState) *Classifier {
	return &Classifier{
		cache:    cache,
		keywords: Keywords,
		logger:   noopLogger{},
	}
}

// SetLogger sets the logger for the classifier.
func (c *Classifier) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	c.logger = logger
}

// Cache returns where the classifier writes its dumps.
func (c *Classifier) Cache() registry.CacheState {
	return c.cache
}

// Classify scans every organisation in m and returns those matching a
// keyword. Both dumps are overwritten on every call; a write failure is
// returned together with the computed set.
func (c *Classifier) Classify(m *oui.Mapping) (ManufacturerSet, error) {
	set := c.compute(m)

	if err := registry.WriteJSON(c.cache.JSONPath(), set.Sorted()); err != nil {
		return set, fmt.Errorf("iot: writing json dump: %w", err)
	}
	dump := manufacturerDump{Version: dumpVersion, Names: set.Sorted()}
	if err := registry.WriteBinary(c.cache.BinaryPath(), dump); err != nil {
		return set, fmt.Errorf("iot: writing binary dump: %w", err)
	}

	c.logger.Debug("classified iot manufacturers", "manufacturers", set.Len(), "organizations", m.Len())
	return set, nil
}

// IsIoTMAC classifies the vendor of mac.
//
// A malformed address yields Unknown without touching the engine. Otherwise
// the set is recomputed from engine.Mapping() and the resolved organisation
// name is tested with ManufacturerSet.Matches. An unregistered OUI resolves
// to oui.Unknown, which matches nothing unless a classified name contains
// "unknown". Dump failures are logged, not returned.
func (c *Classifier) IsIoTMAC(mac string, engine *registry.Engine) Verdict {
	if !oui.ValidMAC(mac) {
		return Unknown
	}

	name := engine.OrganizationName(mac)

	set, err := c.Classify(engine.Mapping())
	if err != nil {
		c.logger.Warn("persisting iot manufacturers failed", "error", err)
	}

	if set.Matches(name) {
		return IoT
	}
	return NotIoT
}

// Load reads the manufacturer set from the binary dump written by the last
// Classify call.
func (c *Classifier) Load() (ManufacturerSet, error) {
	var dump manufacturerDump
	if err := registry.ReadBinary(c.cache.BinaryPath(), &dump); err != nil {
		return nil, fmt.Errorf("iot: reading binary dump: %w", err)
	}
	if dump.Version != dumpVersion {
		return nil, fmt.Errorf("iot: unsupported dump version %d", dump.Version)
	}

	set := make(ManufacturerSet, len(dump.Names))
	for _, name := range dump.Names {
		set[name] = struct{}{}
	}
	return set, nil
}

func (c *Classifier) compute(m *oui.Mapping) ManufacturerSet {
	set := make(ManufacturerSet)
	m.Range(func(_ string, rec oui.Record) bool {
		if _, done := set[rec.OrganizationName]; done {
			return true
		}
		if c.isManufacturer(rec.OrganizationName) {
			set[rec.OrganizationName] = struct{}{}
		}
		return true
	})
	return set
}

func (c *Classifier) isManufacturer(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range c.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
