package logger

import (
	"sync"

	"go.uber.org/zap"
)

// Log levels used across the kiosk.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	// processLogger is the instance handed out by Get.
	processLogger *Logger
	once          sync.Once
)

// Get returns the process-wide logger configured with the provided level.
// Only the first call decides the level; components should receive the
// returned value through their constructors rather than calling Get again.
func Get(level string) *Logger {
	once.Do(func() {
		processLogger = New(level)
	})
	return processLogger
}

// New builds an independent logger with the given level.
func New(level string) *Logger {
	return newZapLogger(level)
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}
