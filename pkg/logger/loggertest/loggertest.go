// Package loggertest provides loggers for tests.
package loggertest

import (
	"testing"

	"inboxpert-service/pkg/logger"

	"go.uber.org/zap/zaptest"
)

// New returns a logger that writes through t.Log
func New(t testing.TB) *logger.ZapLogger {
	return logger.NewFromZap(zaptest.NewLogger(t))
}
