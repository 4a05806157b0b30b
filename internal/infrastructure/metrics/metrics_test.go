package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveLookup(t *testing.T) {
	r := New()

	r.ObserveLookup("api", true, true)
	r.ObserveLookup("api", true, true)
	r.ObserveLookup("mqtt", false, false)

	if got := testutil.ToFloat64(r.lookups.WithLabelValues("api", "true", "true")); got != 2 {
		t.Errorf("api found lookups = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.lookups.WithLabelValues("mqtt", "false", "false")); got != 1 {
		t.Errorf("mqtt invalid lookups = %v, want 1", got)
	}
}

func TestObserveRegistryLoad(t *testing.T) {
	r := New()

	r.ObserveRegistryLoad("refreshed", false, 17, 6, 3, 250*time.Millisecond)

	if got := testutil.ToFloat64(r.records); got != 17 {
		t.Errorf("records = %v, want 17", got)
	}
	if got := testutil.ToFloat64(r.organizations); got != 6 {
		t.Errorf("organizations = %v, want 6", got)
	}
	if got := testutil.ToFloat64(r.iotManufacturers); got != 3 {
		t.Errorf("iot manufacturers = %v, want 3", got)
	}
	if got := testutil.ToFloat64(r.loadSeconds); got != 0.25 {
		t.Errorf("load seconds = %v, want 0.25", got)
	}
	if got := testutil.ToFloat64(r.registryLoads.WithLabelValues("refreshed")); got != 1 {
		t.Errorf("refreshed loads = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.ObserveLookup("cli", true, false)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), "ouidb_lookups_total") {
		t.Error("exposition missing ouidb_lookups_total")
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("exposition missing Go runtime collector")
	}
}
