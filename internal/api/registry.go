package api

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/ouidb/internal/iot"
	"github.com/nerrad567/ouidb/internal/oui"
	"github.com/nerrad567/ouidb/internal/registry"
)

// RegistryResponse describes the loaded registry.
type RegistryResponse struct {
	registry.Metadata
	FetchError       string `json:"fetch_error,omitempty"`
	Usable           bool   `json:"usable"`
	IoTManufacturers int    `json:"iot_manufacturers"`
}

// LookupResponse is a lookup result with the vendor's IoT verdict.
type LookupResponse struct {
	registry.Lookup
	IoT iot.Verdict `json:"iot"`
}

// IoTResponse is the IoT classification of one MAC address.
type IoTResponse struct {
	MAC          string      `json:"mac"`
	Organization string      `json:"organization"`
	Verdict      iot.Verdict `json:"verdict"`
}

// handleRegistry returns the registry metadata.
func (s *Server) handleRegistry(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, RegistryResponse{
		Metadata:         s.meta,
		FetchError:       s.meta.FetchError(),
		Usable:           s.meta.Usable(),
		IoTManufacturers: s.iot.Len(),
	})
}

// handleLookup resolves the vendor of a MAC address. An unregistered OUI is
// a 200 with found=false.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	mac := chi.URLParam(r, "mac")
	lookup := s.engine.LookupMAC(mac)
	s.observer.ObserveLookup(registry.SourceAPI, lookup.Valid, lookup.Found)

	if !lookup.Valid {
		writeValidationError(w, oui.ValidateMAC(mac).Error())
		return
	}

	writeJSON(w, http.StatusOK, LookupResponse{
		Lookup: lookup,
		IoT:    s.iot.VerdictFor(mac, s.engine),
	})
}

// handleIoT classifies the vendor of a MAC address.
func (s *Server) handleIoT(w http.ResponseWriter, r *http.Request) {
	mac := chi.URLParam(r, "mac")
	if err := oui.ValidateMAC(mac); err != nil {
		s.observer.ObserveLookup(registry.SourceAPI, false, false)
		writeValidationError(w, err.Error())
		return
	}

	_, found := s.engine.OrganizationRecord(mac)
	s.observer.ObserveLookup(registry.SourceAPI, true, found)

	writeJSON(w, http.StatusOK, IoTResponse{
		MAC:          mac,
		Organization: s.engine.OrganizationName(mac),
		Verdict:      s.iot.VerdictFor(mac, s.engine),
	})
}

// handleIoTManufacturers lists the organisations classified as IoT manufacturers.
func (s *Server) handleIoTManufacturers(w http.ResponseWriter, _ *http.Request) {
	names := s.iot.Sorted()
	writeJSON(w, http.StatusOK, map[string]any{
		"manufacturers": names,
		"count":         len(names),
	})
}

// handleListOrganizations lists distinct organisation names, optionally
// narrowed by ?assignment= and ?registry=.
func (s *Server) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	f.Organization = ""
	if err := oui.ValidateFilter(f); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	var names []string
	switch {
	case f.Assignment != "" && f.Registry != "":
		names = s.engine.OrganizationsByAssignmentAndRegistry(f.Assignment, f.Registry)
	case f.Assignment != "":
		names = s.engine.OrganizationsByAssignment(f.Assignment)
	case f.Registry != "":
		names = s.engine.OrganizationsByRegistry(f.Registry)
	default:
		names = s.engine.Organizations()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"organizations": names,
		"count":         len(names),
	})
}

// handleOrganizationMACs lists the OUIs of every organisation whose name
// contains {name}, ignoring case.
func (s *Server) handleOrganizationMACs(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeBadRequest(w, "malformed organization name")
		return
	}
	if !oui.ValidText(name) {
		writeValidationError(w, fmt.Errorf("%w: organization %q", oui.ErrInvalidText, name).Error())
		return
	}

	macs := s.engine.MACsForOrganization(name)
	writeJSON(w, http.StatusOK, map[string]any{
		"organization": name,
		"macs":         macs,
		"count":        len(macs),
	})
}

// handleListRecords returns the records matching the query filter.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	if err := oui.ValidateFilter(f); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	records := s.engine.Filter(f)
	writeJSON(w, http.StatusOK, map[string]any{
		"records": records,
		"count":   len(records),
	})
}

// handleCountRecords counts the records matching the query filter. With no
// filter it returns the registry size.
func (s *Server) handleCountRecords(w http.ResponseWriter, r *http.Request) {
	f := filterFromQuery(r)
	if err := oui.ValidateFilter(f); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"filter": f,
		"count":  s.engine.Count(f),
	})
}

func filterFromQuery(r *http.Request) oui.Filter {
	q := r.URL.Query()
	return oui.Filter{
		Organization: q.Get("organization"),
		Assignment:   q.Get("assignment"),
		Registry:     q.Get("registry"),
	}
}
