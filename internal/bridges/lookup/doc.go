// Package lookup answers OUI lookups over MQTT.
//
// Requests arrive on ouidb/request/lookup/{request_id} with a JSON body
// {"mac":"00:00:0C:12:34:56"}. Each is answered on
// ouidb/response/lookup/{request_id} with the lookup result and the IoT
// verdict. After every registry load the bridge publishes the registry
// metadata, retained, on ouidb/registry/status.
package lookup
