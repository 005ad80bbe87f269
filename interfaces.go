package strategycache

import (
	"fmt"
	"log"
	"time"
)

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// Logger interface for custom logging implementations
type Logger interface {
	// Debug logs a debug message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info message with optional fields
	Info(msg string, fields ...Field)

	// Error logs an error message with optional fields
	Error(msg string, fields ...Field)
}

// MetricsCollector interface for metrics collection
type MetricsCollector interface {
	// RecordHit records a successful Get on a valid entry
	RecordHit()

	// RecordMiss records a Get on an absent key
	RecordMiss()

	// RecordEviction records entries removed by a replacement pass
	RecordEviction(count int)

	// RecordExpiration records an entry removed by a failed validity check
	RecordExpiration()

	// RecordKeyCount records the current number of keys
	RecordKeyCount(count int64)

	// RecordOperation records a completed cache operation with its duration
	RecordOperation(op string, duration time.Duration)
}

// CacheStats is a point-in-time snapshot of cache activity counters.
type CacheStats struct {
	// Size is the current number of stored entries. It may include
	// entries the strategy would evict on the next replacement pass.
	Size int

	// Hits is the number of Get calls that returned a valid entry
	Hits int64

	// Misses is the number of Get calls on absent keys
	Misses int64

	// Evictions is the number of entries removed by replacement passes
	Evictions int64

	// Expirations is the number of entries removed by failed validity
	// checks during Get
	Expirations int64
}

// defaultLogger is a simple logger implementation using the standard log package
type defaultLogger struct{}

func (l *defaultLogger) Debug(msg string, fields ...Field) {
	l.logWithFields("DEBUG", msg, fields...)
}

func (l *defaultLogger) Info(msg string, fields ...Field) {
	l.logWithFields("INFO", msg, fields...)
}

func (l *defaultLogger) Error(msg string, fields ...Field) {
	l.logWithFields("ERROR", msg, fields...)
}

func (l *defaultLogger) logWithFields(level, msg string, fields ...Field) {
	logMsg := level + ": " + msg
	for _, field := range fields {
		logMsg += " " + field.Key + "=" + formatValue(field.Value)
	}
	log.Println(logMsg)
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case error:
		return val.Error()
	default:
		return fmt.Sprintf("%v", val)
	}
}
