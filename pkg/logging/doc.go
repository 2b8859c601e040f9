// Package logging provides structured logging configuration for mockrules.
//
// It wraps log/slog so the CLI, the rule-file loader, the exchange store and
// the server version client all log the same way.
//
//	log := logging.New(logging.Config{
//	    Level:  logging.ParseLevel(cfg.LogLevel),
//	    Format: logging.ParseFormat(cfg.LogFormat),
//	})
//	log.Debug("loaded rules", "file", path, "count", n)
//
// Components accept a *slog.Logger; a nil logger is replaced with Nop.
package logging
