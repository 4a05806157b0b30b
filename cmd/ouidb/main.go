// ouidb - IEEE OUI registry lookups
//
// This is the main entry point for the ouidb command. It answers vendor
// questions about MAC addresses from a locally cached copy of the IEEE
// MA-L registry, refreshed at most once per TTL:
//   - one-shot lookups and queries from the command line
//   - a long-running serve mode with an HTTP API and an MQTT lookup bridge
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path. A missing file is not an error.
const defaultConfigPath = "/etc/ouidb/config.yaml"

func main() {
	// Cancel on Ctrl+C and SIGTERM so serve shuts down gracefully
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run executes the command line in args, separated from main for testability.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

// getConfigPath returns the configuration file path.
// Uses OUIDB_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("OUIDB_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
