package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/ouidb/internal/infrastructure/mqtt"
	"github.com/nerrad567/ouidb/internal/iot"
	"github.com/nerrad567/ouidb/internal/registry"
)

// MQTTClient is the part of *mqtt.Client the bridge uses.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// Logger is the logging interface used by the bridge.
type Logger = registry.Logger

// Options configures a Bridge.
type Options struct {
	MQTT     MQTTClient
	Engine   *registry.Engine
	IoT      iot.ManufacturerSet
	QoS      byte
	Observer registry.Observer
	Logger   Logger
	Now      func() time.Time
}

// Bridge answers lookup requests from the broker.
//
// The engine and manufacturer set are read-only after construction, so
// concurrent handler invocations need no locking beyond the start state.
type Bridge struct {
	mqtt     MQTTClient
	engine   *registry.Engine
	iot      iot.ManufacturerSet
	qos      byte
	observer registry.Observer
	logger   Logger
	now      func() time.Time

	mu      sync.Mutex
	started bool
}

// New creates a bridge. Call Start to subscribe.
func New(opts Options) (*Bridge, error) {
	if opts.MQTT == nil {
		return nil, fmt.Errorf("MQTT client is required")
	}
	if opts.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}

	b := &Bridge{
		mqtt:     opts.MQTT,
		engine:   opts.Engine,
		iot:      opts.IoT,
		qos:      opts.QoS,
		observer: opts.Observer,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if b.observer == nil {
		b.observer = registry.Observers(nil)
	}
	if b.logger == nil {
		b.logger = noopLogger{}
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b, nil
}

// Start subscribes to lookup requests.
func (b *Bridge) Start(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	topic := mqtt.Topics{}.AllLookupRequests()
	if err := b.mqtt.Subscribe(topic, b.qos, b.HandleRequest); err != nil {
		return fmt.Errorf("subscribe to lookup requests: %w", err)
	}

	b.mu.Lock()
	b.started = true
	b.mu.Unlock()

	b.logger.Info("lookup bridge started", "topic", topic, "records", b.engine.RecordCount())
	return nil
}

// Stop unsubscribes from lookup requests. It is safe to call more than once.
func (b *Bridge) Stop() {
	b.mu.Lock()
	started := b.started
	b.started = false
	b.mu.Unlock()

	if !started {
		return
	}
	if err := b.mqtt.Unsubscribe(mqtt.Topics{}.AllLookupRequests()); err != nil {
		b.logger.Warn("unsubscribing lookup requests failed", "error", err)
	}
	b.logger.Info("lookup bridge stopped")
}

// PublishStatus publishes meta, retained, on the registry status topic.
func (b *Bridge) PublishStatus(meta registry.Metadata) error {
	b.mu.Lock()
	started := b.started
	b.mu.Unlock()
	if !started {
		return ErrNotStarted
	}

	msg := StatusMessage{
		Metadata:         meta,
		FetchError:       meta.FetchError(),
		Usable:           meta.Usable(),
		IoTManufacturers: b.iot.Len(),
		Timestamp:        b.now().UTC(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding registry status: %w", err)
	}
	if err := b.mqtt.Publish(mqtt.Topics{}.RegistryStatus(), payload, b.qos, true); err != nil {
		return fmt.Errorf("publishing registry status: %w", err)
	}
	return nil
}

// HandleRequest answers one lookup request. It is the subscription handler
// for ouidb/request/lookup/+.
func (b *Bridge) HandleRequest(topic string, payload []byte) error {
	requestID := mqtt.RequestIDFromTopic(topic)
	if requestID == "" {
		return fmt.Errorf("%w: %s", ErrMissingRequestID, topic)
	}

	resp := b.answer(requestID, payload)

	body, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encoding response %s: %w", requestID, err)
	}
	if err := b.mqtt.Publish(mqtt.Topics{}.LookupResponse(requestID), body, b.qos, false); err != nil {
		return fmt.Errorf("publishing response %s: %w", requestID, err)
	}
	return nil
}

func (b *Bridge) answer(requestID string, payload []byte) ResponseMessage {
	resp := ResponseMessage{
		RequestID: requestID,
		Timestamp: b.now().UTC(),
	}

	var req RequestMessage
	if err := json.Unmarshal(payload, &req); err != nil {
		b.logger.Debug("malformed lookup request", "request_id", requestID, "error", err)
		resp.Error = &ResponseError{Code: ErrCodeInvalidPayload, Message: "payload must be {\"mac\":\"...\"}"}
		return resp
	}

	lookup := b.engine.LookupMAC(req.MAC)
	b.observer.ObserveLookup(registry.SourceMQTT, lookup.Valid, lookup.Found)

	resp.Lookup = &lookup
	if !lookup.Valid {
		resp.Error = &ResponseError{Code: ErrCodeInvalidMAC, Message: fmt.Sprintf("invalid MAC address %q", req.MAC)}
		return resp
	}

	resp.Success = true
	resp.IoT = b.iot.VerdictFor(req.MAC, b.engine)
	return resp
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
