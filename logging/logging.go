package logging

import (
	"fmt"
	"log"
	"strings"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = iota
	// DebugLevel indicates a log message's level of criticality
	DebugLevel
	// InfoLevel indicates a log message's level of criticality
	InfoLevel
	// WarnLevel indicates a log message's level of criticality
	WarnLevel
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel
	// FatalLevel indicates a log message's level of criticality
	FatalLevel
)

// LogLevelToString translates a log level enum to a string representation
func LogLevelToString(level int) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "TRACE"
	}
}

// A Logger receives log messages from crimeflow components which perform I/O
// or coordinate work. Record-level pipeline code never logs.
type Logger interface {
	Log(level int, format string, args ...interface{})
}

type stdLogger struct {
	minLevel int
	logger   *log.Logger
}

// Default returns a Logger which writes messages at or above InfoLevel using the standard log package
func Default() Logger {
	return New(log.Default(), InfoLevel)
}

// New returns a Logger which writes messages at or above minLevel to l
func New(l *log.Logger, minLevel int) Logger {
	return &stdLogger{minLevel: minLevel, logger: l}
}

// Log writes a message if its level is at least the configured minimum
func (s *stdLogger) Log(level int, format string, args ...interface{}) {
	if level < s.minLevel {
		return
	}
	s.logger.Printf("[%s] %s", LogLevelToString(level), fmt.Sprintf(format, args...))
}

type discard struct{}

func (discard) Log(level int, format string, args ...interface{}) {}

// Discard is a Logger which drops all messages
var Discard Logger = discard{}

// ParseLevel translates a string representation of a log level to its enum
func ParseLevel(level string) (int, error) {
	switch strings.ToUpper(level) {
	case "TRACE":
		return TraceLevel, nil
	case "DEBUG":
		return DebugLevel, nil
	case "INFO":
		return InfoLevel, nil
	case "WARN":
		return WarnLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	case "FATAL":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}
