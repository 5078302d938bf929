// Package logger provides the process logger, a zap SugaredLogger with
// snake_case event names and key/value fields.
package logger

import (
	"sync"
)

// Log levels accepted in config.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Encodings accepted in config.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Config selects the level and encoding. Zero values mean info and console.
type Config struct {
	Level  string
	Format string
}

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The config of the first call wins.
func Get(cfg Config) *Logger {
	once.Do(func() {
		globalLogger = New(cfg)
	})
	return globalLogger
}

// Device returns a child logger tagged with the device serial.
func (l *Logger) Device(serial string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{SugaredLogger: l.With("serial", serial)}
}
