// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Every component receives a named child logger, so entries can be
// filtered by the "logger" key ("studio.generation", "studio.persistence",
// "studio.ws" and so on).
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	gen := logger.Named("generation")
//	gen.Info("Render finished", zap.String("outcome", "success"))
//	gen.Warn("Blob read failed", zap.Error(err))
package logging
