package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/nerrad567/ouidb/internal/infrastructure/config"
	"github.com/nerrad567/ouidb/internal/infrastructure/influxdb"
	"github.com/nerrad567/ouidb/internal/infrastructure/logging"
	"github.com/nerrad567/ouidb/internal/iot"
	"github.com/nerrad567/ouidb/internal/registry"
)

// invalid is printed, with a zero exit status, for malformed arguments.
const invalid = "Invalid"

// app carries the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	cacheDir   string
	verbose    bool

	cfg    *config.Config
	log    *logging.Logger
	influx *influxdb.Client
}

// newRootCmd builds a fresh command tree. Tests call it once per case so
// flag state never leaks between runs.
func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "ouidb",
		Short: "Look up MAC address vendors in the IEEE OUI registry",
		Long: `ouidb answers vendor questions about MAC addresses from a local copy of
the IEEE MA-L registry. The registry is downloaded into the cache directory
and refreshed at most once a day.

MAC addresses are written XX:XX:XX:XX:XX:XX or XX-XX-XX-XX-XX-XX. Malformed
addresses print "Invalid"; unregistered vendors print "Unknown".`,
		Version:           fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.teardown() },
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", getConfigPath(), "path to the configuration file")
	root.PersistentFlags().StringVar(&a.cacheDir, "cache-dir", "", "registry cache directory (overrides registry.cache_dir)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log registry activity to stderr")

	root.AddCommand(
		a.fieldCmd("name", "Print the organization name for a MAC address", (*registry.Engine).OrganizationName),
		a.fieldCmd("address", "Print the organization address for a MAC address", (*registry.Engine).OrganizationAddress),
		a.fieldCmd("assignment", "Print the assignment block for a MAC address", (*registry.Engine).Assignment),
		a.fieldCmd("registry", "Print the registry (MA-L, MA-M, ...) for a MAC address", (*registry.Engine).Registry),
		a.recordCmd(),
		a.macsCmd(),
		a.orgsCmd(),
		a.countCmd(),
		a.filterCmd(),
		a.iotCmd(),
		a.iotManufacturersCmd(),
		a.refreshCmd(),
		a.infoCmd(),
		a.serveCmd(),
	)

	return root
}

// setup loads the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.cacheDir != "" {
		cfg.Registry.CacheDir = a.cacheDir
	}
	a.cfg = cfg

	// One-shot commands keep stderr quiet unless asked; serve logs as configured
	logCfg := cfg.Logging
	if cmd.Name() != "serve" && !a.verbose {
		logCfg.Level = "warn"
	}
	if a.verbose {
		logCfg.Level = "debug"
	}
	a.log = logging.NewWithWriter(logCfg, version, cmd.ErrOrStderr())

	return nil
}

func (a *app) teardown() {
	if a.influx != nil {
		if err := a.influx.Close(); err != nil {
			a.log.Error("error closing InfluxDB", "error", err)
		}
		a.influx = nil
	}
}

// cache returns the location of the registry snapshot triple.
func (a *app) cache() registry.CacheState {
	return registry.NewCacheState(a.cfg.Registry.CacheDir, a.cfg.Registry.Basename)
}

// classifier returns an IoT classifier writing next to the registry cache.
func (a *app) classifier() *iot.Classifier {
	c := iot.NewClassifier(a.cache().WithBasename(a.cfg.IoT.Basename))
	c.SetLogger(a.log)
	return c
}

// open runs the initialisation sequence. A failed download is logged and
// leaves an empty engine; force skips the freshness check.
func (a *app) open(ctx context.Context, force bool) (*registry.Engine, registry.Metadata, error) {
	rc := a.cfg.Registry

	engine, meta, err := registry.Open(ctx, registry.Options{
		SourceURL: rc.SourceURL,
		Cache:     a.cache(),
		Fetcher: &registry.Fetcher{
			Client:    &http.Client{Timeout: rc.FetchTimeout},
			UserAgent: rc.UserAgent,
			TTL:       rc.TTL,
			Force:     force,
			Logger:    a.log,
		},
		Store: &registry.Store{
			RebuildOnCorrupt: rc.RebuildOnCorruptCache,
			Logger:           a.log,
		},
	})
	if err != nil {
		return nil, meta, err
	}

	if meta.FetchErr != nil {
		a.log.Warn("registry unavailable, lookups will report Unknown", "error", meta.FetchErr)
	}
	a.log.Debug("registry loaded",
		"records", meta.Records,
		"status", meta.Status.String(),
		"took", meta.LoadDuration,
	)

	return engine, meta, nil
}

// observer returns the InfluxDB client for one-shot commands when it is
// enabled, or a no-op. Connection failures are logged, never fatal.
func (a *app) observer(ctx context.Context) registry.Observer {
	if !a.cfg.InfluxDB.Enabled {
		return registry.Observers(nil)
	}
	if a.influx == nil {
		client, err := influxdb.Connect(ctx, a.cfg.InfluxDB)
		if err != nil {
			a.log.Warn("InfluxDB unavailable, lookup not recorded", "error", err)
			return registry.Observers(nil)
		}
		a.influx = client
	}
	return a.influx
}
