// Package metrics exposes ouidb counters and gauges in Prometheus format.
//
// A Registry owns a private prometheus.Registry (Go runtime and process
// collectors included) and is served by the HTTP API at /metrics. It
// complements the InfluxDB writer: Prometheus scrapes current values, while
// InfluxDB receives one point per event when enabled.
package metrics
