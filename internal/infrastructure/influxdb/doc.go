// Package influxdb writes ouidb events to InfluxDB v2.
//
// It wraps the official influxdb-client-go v2 library. Two measurements are
// written:
//
//   - oui_registry: one point per registry load (status, from_cache tags;
//     records, organizations, iot_manufacturers, load_ms fields)
//   - oui_lookup: one point per served lookup (source, valid, found tags)
//
// Every point also carries the service=ouidb tag.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // integration switched off
//	}
//	defer client.Close()
//
//	client.ObserveLookup("api", true, true)
//
// # Thread Safety
//
// All methods are safe for concurrent use. Writes are non-blocking and
// batched according to batch_size and flush_interval; asynchronous write
// failures are delivered to the SetOnError callback.
package influxdb
