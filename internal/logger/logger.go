// Package logger provides a thread-safe, structured JSON logging solution.
// It supports different log levels (INFO, ERROR, WARN, DEBUG) and optional structured data.
// Entries are written one JSON object per line so the TUI never shares stdout with the log.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log entry
// and defines the available log levels as constants.
type LogLevel string

const (
	Info  LogLevel = "INFO"  // Informational messages
	Error LogLevel = "ERROR" // Error conditions
	Warn  LogLevel = "WARN"  // Warning conditions
	Debug LogLevel = "DEBUG" // Debug-level messages
)

// LogEntry represents a single log entry with timestamp, level, message, and optional data
type LogEntry struct {
	Timestamp time.Time       `json:"timestamp"`      // When the log entry was created (UTC)
	Level     LogLevel        `json:"level"`          // Log level (INFO, ERROR, WARN, DEBUG)
	Message   string          `json:"message"`        // The main log message
	Data      json.RawMessage `json:"data,omitempty"` // Optional structured data
}

// Logger writes log entries as JSON lines.
// It's safe for concurrent use from multiple goroutines, and a nil *Logger discards everything.
type Logger struct {
	closer  io.Closer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewLogger creates a new logger instance that writes to the specified file.
// It creates the log directory if it doesn't exist and opens the log file in append mode.
//
// Example:
//
//	logger, err := NewLogger("/home/me/.askForm/askform.log")
//	if err != nil {
//	    log.Fatalf("Failed to create logger: %v", err)
//	}
//	defer logger.Close()
func NewLogger(logPath string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		closer:  file,
		encoder: json.NewEncoder(file),
	}, nil
}

// NewWriterLogger creates a logger that writes to w. Close does not close w.
func NewWriterLogger(w io.Writer) *Logger {
	return &Logger{encoder: json.NewEncoder(w)}
}

// Close closes the underlying log file.
// It's safe to call Close multiple times.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	l.encoder = nil
	return err
}

// log is the internal method that handles the actual logging.
func (l *Logger) log(level LogLevel, message string, data interface{}) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   message,
	}

	// Data that cannot be marshaled is dropped; the message is still logged
	if data != nil {
		if jsonData, err := json.Marshal(data); err == nil {
			entry.Data = jsonData
		}
	}

	if l.encoder != nil {
		_ = l.encoder.Encode(entry)
	}
}

// Info logs an informational message.
//
// Example:
//
//	logger.Info("Submitting prompt", map[string]interface{}{
//	    "request_id": id,
//	    "prompt_len": len(prompt),
//	})
func (l *Logger) Info(message string, data interface{}) {
	l.log(Info, message, data)
}

// Error logs an error message along with error details.
// If data is nil, a new map will be created with the error.
// If data is a map, the error will be added to it with the key "error".
func (l *Logger) Error(message string, err error, data interface{}) {
	if err == nil {
		l.log(Warn, message+" (no error provided)", data)
		return
	}

	if data == nil {
		data = make(map[string]interface{})
	}

	if dataMap, ok := data.(map[string]interface{}); ok {
		// Don't overwrite existing error
		if _, exists := dataMap["error"]; !exists {
			dataMap["error"] = err.Error()
		}
	}

	l.log(Error, message, data)
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, data interface{}) {
	l.log(Warn, message, data)
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, data interface{}) {
	l.log(Debug, message, data)
}
