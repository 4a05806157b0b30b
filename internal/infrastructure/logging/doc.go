// Package logging provides structured logging for ouidb.
//
// The package wraps log/slog so every component logs with the same handler,
// level and default fields (service, version).
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "text"     # json, text
//	  output: "stderr"   # stdout, stderr
//
// The CLI defaults to text on stderr so that query results on stdout stay
// clean for piping. The serve command is usually run with format "json".
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("registry loaded", "records", n)
//	logger.Error("snapshot fetch failed", "error", err)
package logging
