package ai

import "sync/atomic"

// debugLoggingEnabled guards per-tick debug logs so the fixed tick never
// formats attributes when debug is off.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables per-tick debug logging.
// Called once from main after parsing config.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if per-tick debug logging is enabled.
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("perception skipped", "hunter", id, "error", err)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
