package logging

import "go.uber.org/zap"

// WithComponent creates a logger with component/subsystem context.
//
// Example:
//
//	log := logging.WithComponent("join-optimizer")
//	log.Info("component initialized")
func WithComponent(component string) *zap.Logger {
	return GetLogger().With(zap.String("component", component))
}

// WithTable creates a logger with table context.
// Use this for catalog and statistics operations.
//
// Example:
//
//	log := logging.WithTable("orders")
//	log.Debug("histograms built", zap.Int("columns", 4))
func WithTable(tableName string) *zap.Logger {
	return GetLogger().With(zap.String("table", tableName))
}

// WithError creates a logger carrying err as a structured field.
func WithError(err error) *zap.Logger {
	return GetLogger().With(zap.Error(err))
}
