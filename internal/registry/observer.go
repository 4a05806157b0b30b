package registry

import "time"

// Lookup sources reported to observers.
const (
	SourceAPI  = "api"
	SourceMQTT = "mqtt"
	SourceCLI  = "cli"
)

// Observer receives registry and lookup events. The Prometheus registry and
// the InfluxDB client both implement it.
type Observer interface {
	ObserveLookup(source string, valid, found bool)
	ObserveRegistryLoad(status string, fromCache bool, records, organizations, iotManufacturers int, took time.Duration)
}

// Observers fans events out to every member. A nil or empty list is a valid
// Observer that does nothing.
type Observers []Observer

// ObserveLookup implements Observer.
func (o Observers) ObserveLookup(source string, valid, found bool) {
	for _, obs := range o {
		obs.ObserveLookup(source, valid, found)
	}
}

// ObserveRegistryLoad implements Observer.
func (o Observers) ObserveRegistryLoad(status string, fromCache bool, records, organizations, iotManufacturers int, took time.Duration) {
	for _, obs := range o {
		obs.ObserveRegistryLoad(status, fromCache, records, organizations, iotManufacturers, took)
	}
}

// ObserveLoad reports meta to obs.
func ObserveLoad(obs Observer, meta Metadata, iotManufacturers int) {
	if obs == nil {
		return
	}
	obs.ObserveRegistryLoad(meta.Status.String(), meta.FromCache, meta.Records, meta.Organizations, iotManufacturers, meta.LoadDuration)
}
