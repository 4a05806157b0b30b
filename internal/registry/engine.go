package registry

import (
	"sort"

	"github.com/nerrad567/ouidb/internal/oui"
)

// Engine answers read-only queries over one loaded mapping.
//
// Single-key lookups normalise their argument with oui.NormalizeKey and are
// permissive about format; use LookupMAC where input must be a well-formed
// MAC address. A miss is reported as oui.Unknown or an empty result, never
// as an error.
//
// The mapping is never modified after NewEngine, so all methods are safe
// for concurrent use.
type Engine struct {
	mapping       *oui.Mapping
	sourceURL     string
	organizations []string
}

// NewEngine wraps m. A nil mapping is treated as empty.
func NewEngine(m *oui.Mapping, sourceURL string) *Engine {
	if m == nil {
		m = oui.NewMapping(0)
	}

	seen := make(map[string]struct{})
	orgs := make([]string, 0)
	m.Range(func(_ string, rec oui.Record) bool {
		if _, ok := seen[rec.OrganizationName]; !ok {
			seen[rec.OrganizationName] = struct{}{}
			orgs = append(orgs, rec.OrganizationName)
		}
		return true
	})
	sort.Strings(orgs)

	return &Engine{
		mapping:       m,
		sourceURL:     sourceURL,
		organizations: orgs,
	}
}

// Mapping returns the underlying mapping. Callers must not modify it.
func (e *Engine) Mapping() *oui.Mapping {
	return e.mapping
}

// SourceURL returns the URL the registry was loaded from.
func (e *Engine) SourceURL() string {
	return e.sourceURL
}

// OrganizationRecord returns the full record for mac's OUI.
func (e *Engine) OrganizationRecord(mac string) (oui.Record, bool) {
	return e.mapping.Get(oui.NormalizeKey(mac))
}

// OrganizationName returns the organisation name for mac, or oui.Unknown.
func (e *Engine) OrganizationName(mac string) string {
	return e.field(mac, func(r oui.Record) string { return r.OrganizationName })
}

// OrganizationAddress returns the organisation address for mac, or oui.Unknown.
func (e *Engine) OrganizationAddress(mac string) string {
	return e.field(mac, func(r oui.Record) string { return r.OrganizationAddress })
}

// Assignment returns the assignment code for mac, or oui.Unknown.
func (e *Engine) Assignment(mac string) string {
	return e.field(mac, func(r oui.Record) string { return r.Assignment })
}

// Registry returns the registry code (MA-L, MA-M, ...) for mac, or oui.Unknown.
func (e *Engine) Registry(mac string) string {
	return e.field(mac, func(r oui.Record) string { return r.Registry })
}

func (e *Engine) field(mac string, get func(oui.Record) string) string {
	rec, ok := e.OrganizationRecord(mac)
	if !ok {
		return oui.Unknown
	}
	return get(rec)
}

// Lookup is the result of a validated MAC lookup.
type Lookup struct {
	MAC    string      `json:"mac"`
	OUI    string      `json:"oui,omitempty"`
	Valid  bool        `json:"valid"`
	Found  bool        `json:"found"`
	Record *oui.Record `json:"record,omitempty"`
}

// LookupMAC validates mac before resolving it. A malformed address yields
// Valid=false without consulting the mapping.
func (e *Engine) LookupMAC(mac string) Lookup {
	result := Lookup{MAC: mac}
	if !oui.ValidMAC(mac) {
		return result
	}

	result.Valid = true
	result.OUI = oui.NormalizeKey(mac)
	if rec, ok := e.mapping.Get(result.OUI); ok {
		result.Found = true
		result.Record = &rec
	}
	return result
}

// MACsForOrganization returns the OUI keys whose organisation name contains
// name, ignoring case, in mapping order.
func (e *Engine) MACsForOrganization(name string) []string {
	match := oui.OrganizationContains(name)
	keys := make([]string, 0)
	e.mapping.Range(func(key string, rec oui.Record) bool {
		if match(rec) {
			keys = append(keys, key)
		}
		return true
	})
	return keys
}

// Organizations returns every distinct organisation name, sorted ascending.
func (e *Engine) Organizations() []string {
	orgs := make([]string, len(e.organizations))
	copy(orgs, e.organizations)
	return orgs
}

// OrganizationCount returns the number of distinct organisation names.
func (e *Engine) OrganizationCount() int {
	return len(e.organizations)
}

// RecordCount returns the number of OUI keys.
func (e *Engine) RecordCount() int {
	return e.mapping.Len()
}

// CountByOrganization counts records whose organisation name contains name,
// ignoring case.
func (e *Engine) CountByOrganization(name string) int {
	return e.count(oui.OrganizationContains(name))
}

// CountByAssignment counts records with exactly this assignment.
func (e *Engine) CountByAssignment(assignment string) int {
	return e.count(oui.AssignmentIs(assignment))
}

// CountByRegistry counts records with exactly this registry code.
func (e *Engine) CountByRegistry(registry string) int {
	return e.count(oui.RegistryIs(registry))
}

// OrganizationsByAssignment returns the organisation name of every record
// with exactly this assignment, in mapping order.
func (e *Engine) OrganizationsByAssignment(assignment string) []string {
	return e.names(oui.AssignmentIs(assignment))
}

// OrganizationsByRegistry returns the organisation name of every record in
// the registry, in mapping order. Names repeat once per OUI.
func (e *Engine) OrganizationsByRegistry(registry string) []string {
	return e.names(oui.RegistryIs(registry))
}

// OrganizationsByAssignmentAndRegistry returns the organisation names of
// records matching both assignment and registry.
func (e *Engine) OrganizationsByAssignmentAndRegistry(assignment, registry string) []string {
	return e.names(oui.All(oui.AssignmentIs(assignment), oui.RegistryIs(registry)))
}

// RecordsByOrganization returns records whose organisation name contains
// name, ignoring case.
func (e *Engine) RecordsByOrganization(name string) []oui.Record {
	return e.records(oui.OrganizationContains(name))
}

// RecordsByOrganizationAndAssignment returns records matching the
// organisation substring and the exact assignment.
func (e *Engine) RecordsByOrganizationAndAssignment(name, assignment string) []oui.Record {
	return e.records(oui.All(oui.OrganizationContains(name), oui.AssignmentIs(assignment)))
}

// RecordsByOrganizationAndRegistry returns records matching the
// organisation substring and the exact registry.
func (e *Engine) RecordsByOrganizationAndRegistry(name, registry string) []oui.Record {
	return e.records(oui.All(oui.OrganizationContains(name), oui.RegistryIs(registry)))
}

// RecordsByOrganizationAssignmentAndRegistry returns records matching all
// three predicates.
func (e *Engine) RecordsByOrganizationAssignmentAndRegistry(name, assignment, registry string) []oui.Record {
	return e.records(oui.All(
		oui.OrganizationContains(name),
		oui.AssignmentIs(assignment),
		oui.RegistryIs(registry),
	))
}

// Filter returns the records matching f. Empty fields do not constrain.
func (e *Engine) Filter(f oui.Filter) []oui.Record {
	return e.records(f.Predicate())
}

// Count returns the number of records matching f.
func (e *Engine) Count(f oui.Filter) int {
	return e.count(f.Predicate())
}

func (e *Engine) records(match oui.Predicate) []oui.Record {
	out := make([]oui.Record, 0)
	e.mapping.Range(func(_ string, rec oui.Record) bool {
		if match(rec) {
			out = append(out, rec)
		}
		return true
	})
	return out
}

func (e *Engine) names(match oui.Predicate) []string {
	out := make([]string, 0)
	e.mapping.Range(func(_ string, rec oui.Record) bool {
		if match(rec) {
			out = append(out, rec.OrganizationName)
		}
		return true
	})
	return out
}

func (e *Engine) count(match oui.Predicate) int {
	n := 0
	e.mapping.Range(func(_ string, rec oui.Record) bool {
		if match(rec) {
			n++
		}
		return true
	})
	return n
}
