package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ouidb"

// Registry holds the ouidb collectors.
//
// Thread Safety: all methods are safe for concurrent use.
type Registry struct {
	prom *prometheus.Registry

	lookups          *prometheus.CounterVec
	registryLoads    *prometheus.CounterVec
	records          prometheus.Gauge
	organizations    prometheus.Gauge
	iotManufacturers prometheus.Gauge
	loadSeconds      prometheus.Gauge
	lastLoad         prometheus.Gauge
}

// New creates a Registry with every collector registered.
func New() *Registry {
	r := &Registry{
		prom: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "MAC lookups served, by entry point and outcome.",
		}, []string{"source", "valid", "found"}),
		registryLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_loads_total",
			Help:      "Registry loads by snapshot status.",
		}, []string{"status"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_records",
			Help:      "OUI records in the loaded registry.",
		}),
		organizations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_organizations",
			Help:      "Distinct organisations in the loaded registry.",
		}),
		iotManufacturers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "iot_manufacturers",
			Help:      "Organisations classified as IoT manufacturers.",
		}),
		loadSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_load_seconds",
			Help:      "Duration of the last registry load.",
		}),
		lastLoad: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registry_last_load_timestamp_seconds",
			Help:      "Unix time of the last registry load.",
		}),
	}

	r.prom.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.lookups,
		r.registryLoads,
		r.records,
		r.organizations,
		r.iotManufacturers,
		r.loadSeconds,
		r.lastLoad,
	)

	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Gatherer returns the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.prom
}

// ObserveLookup counts one served lookup.
func (r *Registry) ObserveLookup(source string, valid, found bool) {
	r.lookups.WithLabelValues(source, strconv.FormatBool(valid), strconv.FormatBool(found)).Inc()
}

// ObserveRegistryLoad records the outcome of a registry load.
func (r *Registry) ObserveRegistryLoad(status string, _ bool, records, organizations, iotManufacturers int, took time.Duration) {
	r.registryLoads.WithLabelValues(status).Inc()
	r.records.Set(float64(records))
	r.organizations.Set(float64(organizations))
	r.iotManufacturers.Set(float64(iotManufacturers))
	r.loadSeconds.Set(took.Seconds())
	r.lastLoad.SetToCurrentTime()
}
