// Package loggingtest provides loggers for tests that assert on log output.
package loggingtest

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ayusman/handscan/internal/logging"
)

// NewObservedTestLogger returns a debug level logger whose entries are
// recorded for assertions.
func NewObservedTestLogger(tb testing.TB) (logging.Logger, *observer.ObservedLogs) {
	tb.Helper()
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core).Named(tb.Name()).Sugar(), logs
}
