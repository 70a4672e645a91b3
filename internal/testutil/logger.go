package testutil

import "go.uber.org/zap"

// MakeNoopLogger returns a logger that discards everything.
func MakeNoopLogger() *zap.Logger {
	return zap.NewNop()
}
