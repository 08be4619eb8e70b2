// Package logging provides a process-wide structured logger for costdb.
//
// The package wraps [go.uber.org/zap] and exposes a single global logger
// instance that is initialized once and then retrieved via GetLogger. All
// subsystems obtain a logger through this package rather than constructing
// their own, so that log level and output destination are controlled from a
// single place.
//
// # Initialisation
//
// Call Init (or InitDefault for sensible defaults) once at program startup:
//
//	if err := logging.Init(logging.Config{Level: logging.LevelDebug}); err != nil {
//	    log.Fatal(err)
//	}
//
// InitDefault writes INFO-level console logs to stderr.
//
// # Retrieving the logger
//
//	logger := logging.GetLogger()
//	logger.Info("statistics computed", zap.Int("tables", n))
//
// Tests can route output through zaptest with InitWithLogger.
package logging
