// Package oui provides the data model for the IEEE OUI registry.
//
// An OUI (Organizationally Unique Identifier) is the first three bytes of a
// MAC address, written as six hexadecimal characters. The IEEE publishes the
// assignments as a CSV table; each row becomes a Record, and the rows are
// collected into a Mapping keyed by the normalised OUI.
//
// # Key Types
//
//   - Record: one registry row (registry tier, assignment, organisation name and address)
//   - Mapping: ordered OUI key -> Record map, read-only once built
//   - Filter: conjunction of organisation/assignment/registry predicates
//
// # Normalisation
//
// Lookups accept a full MAC address (00:1A:2B:3C:4D:5E, 00-1A-2B-3C-4D-5E),
// a bare OUI (001A2B) or a three-group OUI (00:1A:2B). NormalizeKey strips
// delimiters and upper-cases the first six characters.
//
// # Validation
//
// ValidMAC, ValidText and ValidRegistry implement the input checks used by
// the collaborator-facing entry points (CLI, HTTP API, MQTT bridge). The
// core query methods never validate; they answer Unknown for any key that is
// not present.
package oui
