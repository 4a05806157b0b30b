// Package mqtt provides MQTT client connectivity for ouidb.
//
// The service uses the broker for two things: answering OUI lookup requests
// published by other processes, and announcing the loaded registry as a
// retained status message.
//
//	requester -> ouidb/request/lookup/{id}  -> ouidb
//	ouidb     -> ouidb/response/lookup/{id} -> requester
//	ouidb     -> ouidb/registry/status (retained)
//	ouidb     -> ouidb/system/status (retained, LWT)
//
// The client reconnects with exponential backoff and restores its
// subscriptions after every reconnect.
//
// # Usage
//
//	client, err := mqtt.Connect(ctx, cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllLookupRequests(), 1, handler)
package mqtt
