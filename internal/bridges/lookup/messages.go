package lookup

import (
	"time"

	"github.com/nerrad567/ouidb/internal/iot"
	"github.com/nerrad567/ouidb/internal/registry"
)

// RequestMessage is the body of a lookup request.
type RequestMessage struct {
	MAC string `json:"mac"`
}

// ResponseMessage answers one request.
type ResponseMessage struct {
	RequestID string           `json:"request_id"`
	Timestamp time.Time        `json:"timestamp"`
	Success   bool             `json:"success"`
	Lookup    *registry.Lookup `json:"lookup,omitempty"`
	IoT       iot.Verdict      `json:"iot"`
	Error     *ResponseError   `json:"error,omitempty"`
}

// ResponseError describes why a request could not be answered.
type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusMessage is published retained after each registry load.
type StatusMessage struct {
	registry.Metadata
	FetchError       string    `json:"fetch_error,omitempty"`
	Usable           bool      `json:"usable"`
	IoTManufacturers int       `json:"iot_manufacturers"`
	Timestamp        time.Time `json:"timestamp"`
}
