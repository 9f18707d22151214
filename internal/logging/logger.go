// Package logging provides the structured leveled logger used by the CLI and
// the tool surface.
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// ParseLevel maps a configuration string onto a Level, defaulting to INFO.
func ParseLevel(value string) Level {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// LogField represents a key-value pair in structured logging.
type LogField struct {
	Key   string
	Value any
}

// Field creates a LogField from a key-value pair.
func Field(key string, value any) LogField {
	return LogField{Key: key, Value: value}
}

// Logger provides structured logging capabilities.
type Logger interface {
	Debug(msg string, fields ...LogField)
	Info(msg string, fields ...LogField)
	Warn(msg string, fields ...LogField)
	Error(msg string, err error, fields ...LogField)
	WithFields(fields ...LogField) Logger
}

// NoOpLogger is a logger that discards all log entries.
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(_ string, _ ...LogField)          {}
func (n *NoOpLogger) Info(_ string, _ ...LogField)           {}
func (n *NoOpLogger) Warn(_ string, _ ...LogField)           {}
func (n *NoOpLogger) Error(_ string, _ error, _ ...LogField) {}
func (n *NoOpLogger) WithFields(_ ...LogField) Logger        { return n }

// StdLogger writes structured log entries to a writer.
type StdLogger struct {
	fields   []LogField
	minLevel Level
	logger   *log.Logger
	writer   io.Writer
}

// NewStdLogger creates a new logger with the specified minimum log level and
// writer. If writer is nil, logs are discarded.
func NewStdLogger(minLevel Level, writer io.Writer) *StdLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &StdLogger{
		minLevel: minLevel,
		logger:   log.New(writer, "", 0), // No prefix, we format our own
		writer:   writer,
	}
}

func (s *StdLogger) log(level Level, msg string, err error, fields ...LogField) {
	if !s.shouldLog(level) {
		return
	}

	allFields := append(s.fields, fields...)

	var parts []string
	parts = append(parts, fmt.Sprintf("[%s]", time.Now().Format(time.RFC3339)))
	parts = append(parts, fmt.Sprintf("[%s]", level))
	if err != nil {
		parts = append(parts, fmt.Sprintf("[error=%q]", err.Error()))
	}
	parts = append(parts, msg)

	if len(allFields) > 0 {
		var fieldParts []string
		for _, f := range allFields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%v", f.Key, f.Value))
		}
		parts = append(parts, fmt.Sprintf("fields=[%s]", strings.Join(fieldParts, " ")))
	}

	s.logger.Println(strings.Join(parts, " "))
}

func (s *StdLogger) shouldLog(level Level) bool {
	levels := map[Level]int{
		LevelDebug: 0,
		LevelInfo:  1,
		LevelWarn:  2,
		LevelError: 3,
	}
	return levels[level] >= levels[s.minLevel]
}

func (s *StdLogger) Debug(msg string, fields ...LogField) {
	s.log(LevelDebug, msg, nil, fields...)
}

func (s *StdLogger) Info(msg string, fields ...LogField) {
	s.log(LevelInfo, msg, nil, fields...)
}

func (s *StdLogger) Warn(msg string, fields ...LogField) {
	s.log(LevelWarn, msg, nil, fields...)
}

func (s *StdLogger) Error(msg string, err error, fields ...LogField) {
	s.log(LevelError, msg, err, fields...)
}

func (s *StdLogger) WithFields(fields ...LogField) Logger {
	return &StdLogger{
		fields:   append(s.fields, fields...),
		minLevel: s.minLevel,
		logger:   s.logger,
		writer:   s.writer,
	}
}
