// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports development (console)
// and production (json) output and integrates with the Fiber web framework.
//
// # Context Awareness
//
// WithRayID extracts the RayID placed in the Fiber context by the rayid
// middleware and attaches it to the log entry, so every log line of a single
// debit or credit request can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Debit failed", zap.Error(err))
package logger
