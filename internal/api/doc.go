// Package api implements the HTTP API for ouidb.
//
// This package provides:
//   - Read-only endpoints over the loaded OUI registry (lookups, organisation
//     and record queries, counts)
//   - IoT manufacturer classification of MAC addresses
//   - Registry and runtime metadata, plus Prometheus exposition at /metrics
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// The registry is immutable for the life of the server, so handlers share
// it without locking. Lookups of unregistered vendors are successful
// responses with found=false; only malformed input is a 400.
package api
