package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nerrad567/ouidb/internal/infrastructure/config"
	"github.com/nerrad567/ouidb/internal/infrastructure/logging"
	"github.com/nerrad567/ouidb/internal/infrastructure/metrics"
	"github.com/nerrad567/ouidb/internal/iot"
	"github.com/nerrad567/ouidb/internal/registry"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// ConnectionStatus reports whether an optional backend is connected.
// *mqtt.Client and *influxdb.Client satisfy it.
type ConnectionStatus interface {
	IsConnected() bool
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config   config.APIConfig
	Logger   *logging.Logger
	Engine   *registry.Engine
	Metadata registry.Metadata
	IoT      iot.ManufacturerSet
	Metrics  *metrics.Registry // optional: serves /metrics when set
	Observer registry.Observer // optional: notified of every lookup
	MQTT     ConnectionStatus  // optional: reported by /api/v1/metrics
	InfluxDB ConnectionStatus  // optional: reported by /api/v1/metrics
	Version  string
}

// Server is the HTTP API server.
//
// The server is created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	logger    *logging.Logger
	engine    *registry.Engine
	meta      registry.Metadata
	iot       iot.ManufacturerSet
	metrics   *metrics.Registry
	observer  registry.Observer
	mqtt      ConnectionStatus
	influx    ConnectionStatus
	version   string
	startTime time.Time
	server    *http.Server
	listener  net.Listener
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Engine and Logger are required; a nil Observer or IoT set
//     falls back to a no-op observer and an empty set
//
// Returns:
//   - *Server: Server with its router built lazily on Start
//   - error: If a required dependency is missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Engine == nil {
		return nil, fmt.Errorf("registry engine is required")
	}

	observer := deps.Observer
	if observer == nil {
		observer = registry.Observers(nil)
	}
	set := deps.IoT
	if set == nil {
		set = iot.ManufacturerSet{}
	}

	return &Server{
		cfg:       deps.Config,
		logger:    deps.Logger,
		engine:    deps.Engine,
		meta:      deps.Metadata,
		iot:       set,
		metrics:   deps.Metrics,
		observer:  observer,
		mqtt:      deps.MQTT,
		influx:    deps.InfluxDB,
		version:   deps.Version,
		startTime: time.Now(),
	}, nil
}

// Start binds the listener and serves in a background goroutine. Bind
// failures such as a port in use are returned; the server can be stopped
// with Close().
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	s.listener = ln

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	s.logger.Info("API server listening", "address", ln.Addr().String())

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}
