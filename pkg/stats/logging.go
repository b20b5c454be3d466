package stats

import "github.com/marmos91/cachewatch/internal/logger"

// Logger is the advisory log sink consumed by the statistics subsystem.
//
// Logging is fire-and-forget: implementations must not block for long and
// their failures are never surfaced as statistics errors. If no Logger is
// provided, the process-wide internal/logger is used.
type Logger interface {
	// Infof logs an informational message.
	Infof(format string, args ...any)

	// Warnf logs a warning message.
	Warnf(format string, args ...any)
}

// defaultLogger routes to the process-wide leveled logger.
type defaultLogger struct{}

func (defaultLogger) Infof(format string, args ...any) {
	logger.Info(format, args...)
}

func (defaultLogger) Warnf(format string, args ...any) {
	logger.Warn(format, args...)
}
