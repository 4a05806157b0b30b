// Package config handles loading and validating ouidb configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables (OUIDB_*)
//   - Validation of required fields
//   - Default value handling
//
// The command-line tool runs without a config file; LoadOrDefault falls back
// to the defaults, which cache the registry under ~/NG_OUI_DB and leave the
// MQTT and InfluxDB integrations disabled.
//
// Usage:
//
//	cfg, err := config.LoadOrDefault("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Registry.CacheDir)
package config
