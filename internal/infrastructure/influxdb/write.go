package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	MeasurementRegistry = "oui_registry"
	MeasurementLookup   = "oui_lookup"
)

// ObserveRegistryLoad writes one oui_registry point describing a load.
//
// Tags: status, from_cache. Fields: records, organizations,
// iot_manufacturers, load_ms.
func (c *Client) ObserveRegistryLoad(status string, fromCache bool, records, organizations, iotManufacturers int, took time.Duration) {
	c.WritePoint(MeasurementRegistry,
		map[string]string{
			"status":     status,
			"from_cache": strconv.FormatBool(fromCache),
		},
		map[string]interface{}{
			"records":           records,
			"organizations":     organizations,
			"iot_manufacturers": iotManufacturers,
			"load_ms":           took.Milliseconds(),
		},
	)
}

// ObserveLookup writes one oui_lookup point per served lookup.
//
// source names the entry point (api, mqtt, cli).
func (c *Client) ObserveLookup(source string, valid, found bool) {
	c.WritePoint(MeasurementLookup,
		map[string]string{
			"source": source,
			"valid":  strconv.FormatBool(valid),
			"found":  strconv.FormatBool(found),
		},
		map[string]interface{}{
			"count": 1,
		},
	)
}

// WritePoint writes a point stamped with the current time. The write is
// non-blocking; it is dropped when the client is closed.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}
