package core

import "log"

// Logger is the warning sink the coordinator reports recoverable
// per-provider failures to. Implementations must be fire-and-forget and
// never return or raise.
type Logger interface {
	Warnf(format string, v ...any)
}

type stdLogger struct{}

func (stdLogger) Warnf(format string, v ...any) {
	log.Printf("WARN: "+format, v...)
}

// DefaultLogger returns a Logger backed by the standard library log
// package.
func DefaultLogger() Logger { return stdLogger{} }
