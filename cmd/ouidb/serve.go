package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nerrad567/ouidb/internal/api"
	"github.com/nerrad567/ouidb/internal/bridges/lookup"
	"github.com/nerrad567/ouidb/internal/infrastructure/influxdb"
	"github.com/nerrad567/ouidb/internal/infrastructure/metrics"
	"github.com/nerrad567/ouidb/internal/infrastructure/mqtt"
	"github.com/nerrad567/ouidb/internal/iot"
	"github.com/nerrad567/ouidb/internal/registry"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve lookups over HTTP and MQTT until interrupted",
		Long: `Load the registry once and answer lookups until SIGINT or SIGTERM.

The HTTP API listens on api.host:api.port and exposes Prometheus metrics at
/metrics. When mqtt.enabled is set, lookup requests published on
ouidb/request/lookup/<id> are answered on ouidb/response/lookup/<id>. When
influxdb.enabled is set, registry loads and lookups are written as points.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

// serve is the daemon lifecycle. Deferred closes run in reverse order of
// start: API, bridge, MQTT, InfluxDB.
func (a *app) serve(ctx context.Context) error {
	log := a.log
	log.Info("starting ouidb",
		"version", version,
		"commit", commit,
		"build_date", date,
		"cache_dir", a.cfg.Registry.CacheDir,
	)

	engine, meta, err := a.open(ctx, false)
	if err != nil {
		return fmt.Errorf("opening registry: %w", err)
	}
	if !meta.Usable() {
		log.Warn("serving an empty registry; health will report degraded")
	}

	set, err := a.classifier().Classify(engine.Mapping())
	if err != nil {
		log.Warn("persisting iot manufacturers failed", "error", err)
	}
	log.Info("registry ready",
		"records", meta.Records,
		"organizations", meta.Organizations,
		"iot_manufacturers", set.Len(),
		"status", meta.Status.String(),
	)

	// Metrics sinks
	promRegistry := metrics.New()
	observers := registry.Observers{promRegistry}

	influxClient, err := a.connectInfluxDB(ctx)
	if err != nil {
		return err
	}
	if influxClient != nil {
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		observers = append(observers, influxClient)
	}

	registry.ObserveLoad(observers, meta, set.Len())

	// MQTT lookup bridge
	mqttClient, err := a.connectMQTT(ctx)
	if err != nil {
		return err
	}
	if mqttClient != nil {
		defer func() {
			log.Info("closing MQTT connection")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()

		bridge, bridgeErr := a.startBridge(ctx, mqttClient, engine, set, observers, meta)
		if bridgeErr != nil {
			return bridgeErr
		}
		defer func() {
			log.Info("stopping lookup bridge")
			bridge.Stop()
		}()
	}

	if err := healthCheck(ctx, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	// HTTP API
	deps := api.Deps{
		Config:   a.cfg.API,
		Logger:   log,
		Engine:   engine,
		Metadata: meta,
		IoT:      set,
		Metrics:  promRegistry,
		Observer: observers,
		Version:  version,
	}
	// A nil *Client in the interface would not compare equal to nil
	if mqttClient != nil {
		deps.MQTT = mqttClient
	}
	if influxClient != nil {
		deps.InfluxDB = influxClient
	}

	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error stopping API server", "error", closeErr)
		}
	}()

	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal", "address", server.Addr())

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// healthCheck verifies the optional sinks. Nil clients are disabled and skipped.
func healthCheck(ctx context.Context, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}
	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}
	return nil
}

// connectInfluxDB returns nil when InfluxDB is disabled.
func (a *app) connectInfluxDB(ctx context.Context) (*influxdb.Client, error) {
	client, err := influxdb.Connect(ctx, a.cfg.InfluxDB)
	if errors.Is(err, influxdb.ErrDisabled) {
		a.log.Info("InfluxDB disabled")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
	}

	client.SetOnError(func(err error) {
		a.log.Error("InfluxDB write error", "error", err)
	})
	a.log.Info("InfluxDB connected", "url", a.cfg.InfluxDB.URL, "bucket", a.cfg.InfluxDB.Bucket)
	return client, nil
}

// connectMQTT returns nil when MQTT is disabled.
func (a *app) connectMQTT(ctx context.Context) (*mqtt.Client, error) {
	if !a.cfg.MQTT.Enabled {
		a.log.Info("MQTT disabled")
		return nil, nil
	}

	client, err := mqtt.Connect(ctx, a.cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("connecting to MQTT: %w", err)
	}

	client.SetLogger(a.log)
	client.SetOnConnect(func() {
		a.log.Info("MQTT connected")
	})
	client.SetOnDisconnect(func(err error) {
		a.log.Warn("MQTT disconnected", "error", err)
	})

	a.log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", a.cfg.MQTT.Broker.Host, a.cfg.MQTT.Broker.Port),
		"client_id", a.cfg.MQTT.Broker.ClientID,
	)
	return client, nil
}

// startBridge subscribes the lookup bridge and publishes the registry status.
func (a *app) startBridge(ctx context.Context, client *mqtt.Client, engine *registry.Engine, set iot.ManufacturerSet, obs registry.Observer, meta registry.Metadata) (*lookup.Bridge, error) {
	bridge, err := lookup.New(lookup.Options{
		MQTT:     client,
		Engine:   engine,
		IoT:      set,
		QoS:      byte(a.cfg.MQTT.QoS), // #nosec G115 -- validated to 0..2
		Observer: obs,
		Logger:   a.log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating lookup bridge: %w", err)
	}

	if err := bridge.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting lookup bridge: %w", err)
	}

	if err := bridge.PublishStatus(meta); err != nil {
		// Lookups still work; only the retained status is missing
		a.log.Warn("publishing registry status failed", "error", err)
	}

	return bridge, nil
}
