package api

import (
	"net/http"
	"runtime"
	"time"
)

// SystemMetrics is the JSON runtime summary served at /api/v1/metrics.
// Prometheus scrapers use /metrics instead.
type SystemMetrics struct {
	Timestamp     string          `json:"timestamp"`
	Version       string          `json:"version"`
	UptimeSeconds int64           `json:"uptime_seconds"`
	Runtime       RuntimeMetrics  `json:"runtime"`
	Registry      RegistryMetrics `json:"registry"`
	MQTT          *BackendMetrics `json:"mqtt,omitempty"`
	InfluxDB      *BackendMetrics `json:"influxdb,omitempty"`
}

// RuntimeMetrics contains Go runtime statistics.
type RuntimeMetrics struct {
	Goroutines    int     `json:"goroutines"`
	MemoryAllocMB float64 `json:"memory_alloc_mb"`
	MemoryTotalMB float64 `json:"memory_total_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// RegistryMetrics summarises the loaded registry.
type RegistryMetrics struct {
	Records          int    `json:"records"`
	Organizations    int    `json:"organizations"`
	IoTManufacturers int    `json:"iot_manufacturers"`
	Status           string `json:"status"`
	FromCache        bool   `json:"from_cache"`
	LoadMillis       int64  `json:"load_ms"`
}

// BackendMetrics reports an optional backend connection.
type BackendMetrics struct {
	Connected bool `json:"connected"`
}

// handleMetrics returns runtime and registry metrics.
func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	metrics := SystemMetrics{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Version:       s.version,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		Runtime: RuntimeMetrics{
			Goroutines:    runtime.NumGoroutine(),
			MemoryAllocMB: float64(memStats.Alloc) / 1024 / 1024,
			MemoryTotalMB: float64(memStats.TotalAlloc) / 1024 / 1024,
			NumGC:         memStats.NumGC,
		},
		Registry: RegistryMetrics{
			Records:          s.engine.RecordCount(),
			Organizations:    s.engine.OrganizationCount(),
			IoTManufacturers: s.iot.Len(),
			Status:           s.meta.Status.String(),
			FromCache:        s.meta.FromCache,
			LoadMillis:       s.meta.LoadDuration.Milliseconds(),
		},
	}

	if s.mqtt != nil {
		metrics.MQTT = &BackendMetrics{Connected: s.mqtt.IsConnected()}
	}
	if s.influx != nil {
		metrics.InfluxDB = &BackendMetrics{Connected: s.influx.IsConnected()}
	}

	writeJSON(w, http.StatusOK, metrics)
}
