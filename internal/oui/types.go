package oui

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Unknown is returned by single-field lookups when the OUI is not registered.
// A miss is an expected outcome (randomised and locally administered MACs
// have no vendor), so it is a value rather than an error.
const Unknown = "Unknown"

// Record is one row of the IEEE OUI registry.
//
// The JSON field names match the upstream CSV header so that the structured
// dump reads like the source table.
type Record struct {
	Registry            string `json:"Registry" msgpack:"registry"`
	Assignment          string `json:"Assignment" msgpack:"assignment"`
	OrganizationName    string `json:"Organization Name" msgpack:"organization_name"`
	OrganizationAddress string `json:"Organization Address" msgpack:"organization_address"`
}

// Entry pairs a normalised OUI key with its record.
type Entry struct {
	Key    string `msgpack:"key"`
	Record Record `msgpack:"record"`
}

// Mapping is an insertion-ordered map from normalised OUI key to Record.
//
// Setting an existing key replaces its record but keeps the key's original
// position, so iteration order always follows the first appearance of each
// key in the source table. A Mapping is built once per load and must not be
// modified after it has been handed to an Engine.
type Mapping struct {
	keys    []string
	records map[string]Record
}

// NewMapping creates an empty mapping with room for size entries.
func NewMapping(size int) *Mapping {
	return &Mapping{
		keys:    make([]string, 0, size),
		records: make(map[string]Record, size),
	}
}

// Set inserts or replaces the record for key.
func (m *Mapping) Set(key string, rec Record) {
	if _, exists := m.records[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.records[key] = rec
}

// Get returns the record for an already-normalised key.
func (m *Mapping) Get(key string) (Record, bool) {
	if m == nil {
		return Record{}, false
	}
	rec, ok := m.records[key]
	return rec, ok
}

// Len returns the number of distinct keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Range calls fn for every entry in insertion order until fn returns false.
func (m *Mapping) Range(fn func(key string, rec Record) bool) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		if !fn(k, m.records[k]) {
			return
		}
	}
}

// Entries returns the mapping as an ordered slice.
func (m *Mapping) Entries() []Entry {
	entries := make([]Entry, 0, m.Len())
	m.Range(func(key string, rec Record) bool {
		entries = append(entries, Entry{Key: key, Record: rec})
		return true
	})
	return entries
}

// MappingFromEntries rebuilds a mapping from an ordered slice.
func MappingFromEntries(entries []Entry) *Mapping {
	m := NewMapping(len(entries))
	for _, e := range entries {
		m.Set(e.Key, e.Record)
	}
	return m
}

// MarshalJSON encodes the mapping as a JSON object whose members appear in
// insertion order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	m.Range(func(key string, rec Record) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		var k, v []byte
		if k, err = marshalPlain(key); err != nil {
			return false
		}
		if v, err = marshalPlain(rec); err != nil {
			return false
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalPlain is json.Marshal without HTML escaping, so names such as
// "AT&T" stay readable in the dumps.
func marshalPlain(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Predicate reports whether a record matches a condition.
type Predicate func(Record) bool

// OrganizationContains matches records whose organisation name contains
// name, ignoring case. An empty name matches every record.
func OrganizationContains(name string) Predicate {
	needle := strings.ToLower(name)
	return func(rec Record) bool {
		return strings.Contains(strings.ToLower(rec.OrganizationName), needle)
	}
}

// AssignmentIs matches records whose assignment equals assignment exactly.
func AssignmentIs(assignment string) Predicate {
	return func(rec Record) bool {
		return rec.Assignment == assignment
	}
}

// RegistryIs matches records whose registry equals registry exactly.
func RegistryIs(registry string) Predicate {
	return func(rec Record) bool {
		return rec.Registry == registry
	}
}

// All matches records accepted by every predicate. With no predicates it
// matches everything.
func All(preds ...Predicate) Predicate {
	return func(rec Record) bool {
		for _, p := range preds {
			if !p(rec) {
				return false
			}
		}
		return true
	}
}

// Filter is a conjunction of record predicates used by the generic query
// surface. Empty fields do not constrain the match.
type Filter struct {
	Organization string `json:"organization,omitempty"`
	Assignment   string `json:"assignment,omitempty"`
	Registry     string `json:"registry,omitempty"`
}

// Predicate builds the conjunction for the non-empty fields.
func (f Filter) Predicate() Predicate {
	var preds []Predicate
	if f.Organization != "" {
		preds = append(preds, OrganizationContains(f.Organization))
	}
	if f.Assignment != "" {
		preds = append(preds, AssignmentIs(f.Assignment))
	}
	if f.Registry != "" {
		preds = append(preds, RegistryIs(f.Registry))
	}
	return All(preds...)
}

// IsZero reports whether the filter has no constraints.
func (f Filter) IsZero() bool {
	return f.Organization == "" && f.Assignment == "" && f.Registry == ""
}
